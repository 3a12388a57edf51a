package engine

import (
	"context"
	"testing"

	"github.com/trekware/trekkit/config"
	"github.com/trekware/trekkit/core"
	"github.com/trekware/trekkit/store"
	"github.com/trekware/trekkit/strategy"
)

func newTestEngine(t *testing.T) (*Engine, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	eng, err := New(st, config.DefaultEngine())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return eng, st
}

func seedFixtures(t *testing.T, st *store.Memory) (*core.UserProfile, []*core.Trek) {
	t.Helper()
	ctx := context.Background()

	user := &core.UserProfile{
		Name:              "Alice",
		ExperienceLevel:   core.ExperienceIntermediate,
		FitnessLevel:      core.FitnessModerate,
		BudgetMax:         3000,
		AvailableDays:     21,
		CulturalInterest:  0.7,
		NatureInterest:    0.8,
		AdventureInterest: 0.6,
	}
	if err := st.SaveUser(ctx, user); err != nil {
		t.Fatal(err)
	}

	treks := []*core.Trek{
		{
			Name: "Everest Base Camp", Region: "Khumbu",
			Difficulty: core.DifficultyModerate, DurationDays: 14,
			MaxAltitude: 5364, CostMin: 1200, CostMax: 2500,
			CulturalScore: 0.7, NatureScore: 0.9, AdventureScore: 0.8,
		},
		{
			Name: "Annapurna Circuit", Region: "Annapurna",
			Difficulty: core.DifficultyModerate, DurationDays: 15,
			MaxAltitude: 5416, CostMin: 900, CostMax: 1800,
			CulturalScore: 0.8, NatureScore: 0.9, AdventureScore: 0.7,
		},
		{
			Name: "Ghorepani Poon Hill", Region: "Annapurna",
			Difficulty: core.DifficultyEasy, DurationDays: 5,
			MaxAltitude: 3210, CostMin: 400, CostMax: 800,
			CulturalScore: 0.9, NatureScore: 0.7, AdventureScore: 0.3,
		},
	}
	for _, trek := range treks {
		if err := st.SaveTrek(ctx, trek); err != nil {
			t.Fatal(err)
		}
	}
	return user, treks
}

func TestRecommendUnknownUser(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, err := eng.Recommend(context.Background(), MethodContentBased, 42, 10)
	if !core.IsNotFound(err) {
		t.Errorf("未知用户应返回 NOT_FOUND, got %v", err)
	}
}

func TestRecommendUnknownMethod(t *testing.T) {
	eng, st := newTestEngine(t)
	user, _ := seedFixtures(t, st)
	_, err := eng.Recommend(context.Background(), "quantum", user.ID, 10)
	if !core.IsInvalidInput(err) {
		t.Errorf("未知策略名应返回 INVALID_INPUT, got %v", err)
	}
}

func TestRecommendDispatch(t *testing.T) {
	eng, st := newTestEngine(t)
	user, _ := seedFixtures(t, st)
	ctx := context.Background()

	for _, method := range []string{
		MethodContentBased, MethodKnowledgeBased, MethodHybrid,
	} {
		recs, err := eng.Recommend(ctx, method, user.ID, 10)
		if err != nil {
			t.Fatalf("Recommend(%s) error = %v", method, err)
		}
		if len(recs) == 0 {
			t.Errorf("Recommend(%s) 不应为空", method)
		}
		for i := 1; i < len(recs); i++ {
			if recs[i-1].Score < recs[i].Score {
				t.Errorf("Recommend(%s) 排序不降序", method)
			}
		}
	}

	// 协同路无评分 → 空但不报错
	recs, err := eng.Recommend(ctx, MethodCollaborative, user.ID, 10)
	if err != nil {
		t.Fatalf("Recommend(collaborative) error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("冷启动协同应为空, got %d", len(recs))
	}
}

func TestRecommendTopKDefaulting(t *testing.T) {
	st := store.NewMemory()
	cfg := config.DefaultEngine()
	cfg.TopK = 2
	eng, err := New(st, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	user, _ := seedFixtures(t, st)

	recs, err := eng.ContentBased(context.Background(), user.ID, 0)
	if err != nil {
		t.Fatalf("ContentBased() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("topK=0 应取配置默认 2, got %d", len(recs))
	}

	recs, err = eng.ContentBased(context.Background(), user.ID, 1)
	if err != nil {
		t.Fatalf("ContentBased() error = %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("显式 topK=1, got %d", len(recs))
	}
}

func TestHybridExplicitWeights(t *testing.T) {
	eng, st := newTestEngine(t)
	user, _ := seedFixtures(t, st)

	w := &strategy.BlendWeights{Content: 1}
	recs, err := eng.Hybrid(context.Background(), user.ID, 10, w)
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("结果不应为空")
	}
	// 纯内容配比下，component 里协同/知识的权重不参与
	weights, ok := recs[0].Explanation["weights"].(strategy.BlendWeights)
	if !ok {
		t.Fatalf("weights 类型错误: %T", recs[0].Explanation["weights"])
	}
	if weights.Content != 1 || weights.Collaborative != 0 || weights.Knowledge != 0 {
		t.Errorf("归一化配比 = %+v", weights)
	}
}

func TestSegmentWeights(t *testing.T) {
	eng, _ := newTestEngine(t)
	seg := config.DefaultEngine().Segments

	user := core.NewUserProfile(1)

	tests := []struct {
		name    string
		ratings int
		want    strategy.BlendWeights
	}{
		{"零评分走 New", 0, seg.New},
		{"一条走 Casual", 1, seg.Casual},
		{"阈值边界走 Casual", 5, seg.Casual},
		{"六条走 Regular", 6, seg.Regular},
		{"十五条走 Regular", 15, seg.Regular},
		{"十六条走 Expert", 16, seg.Expert},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratings := make([]*core.Rating, 0, tt.ratings)
			for i := 0; i < tt.ratings; i++ {
				ratings = append(ratings, &core.Rating{
					ID: int64(i + 1), UserID: user.ID, TrekID: int64(i + 1), Value: 4,
				})
			}
			snap := core.NewSnapshot([]*core.UserProfile{user}, nil, ratings)
			if got := eng.segmentWeights(snap, user); got != tt.want {
				t.Errorf("segmentWeights() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSegmentWeightsFallback(t *testing.T) {
	st := store.NewMemory()
	cfg := config.DefaultEngine()
	cfg.Segments.New = strategy.BlendWeights{} // 零值段回落
	cfg.Blend = strategy.BlendWeights{Content: 0.6, Collaborative: 0.2, Knowledge: 0.2}
	eng, err := New(st, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	user := core.NewUserProfile(1)
	snap := core.NewSnapshot([]*core.UserProfile{user}, nil, nil)
	if got := eng.segmentWeights(snap, user); got != cfg.Blend {
		t.Errorf("零值段应回落到基础配比: %+v", got)
	}
}

func TestEligibilityRulesApplied(t *testing.T) {
	st := store.NewMemory()
	cfg := config.DefaultEngine()
	cfg.EligibilityRules = []string{`!trek.permit_required || user.experience_level != "Intermediate"`}
	eng, err := New(st, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	user, treks := seedFixtures(t, st)

	// 给第一条线路挂上许可要求：规则应把它挡在内容路之外
	treks[0].PermitRequired = true

	recs, err := eng.ContentBased(context.Background(), user.ID, 10)
	if err != nil {
		t.Fatalf("ContentBased() error = %v", err)
	}
	for _, rec := range recs {
		if rec.Trek.ID == treks[0].ID {
			t.Errorf("准入规则未生效: trek %d 仍在结果中", treks[0].ID)
		}
	}
	if len(recs) != len(treks)-1 {
		t.Errorf("len = %d, want %d", len(recs), len(treks)-1)
	}
}

func TestEngineRejectsBadRules(t *testing.T) {
	cfg := config.DefaultEngine()
	cfg.EligibilityRules = []string{"trek.cost_min >"}
	if _, err := New(store.NewMemory(), cfg); err == nil {
		t.Fatal("非法规则应在组装期报错")
	}
}

func TestExplainEndpoint(t *testing.T) {
	eng, st := newTestEngine(t)
	user, treks := seedFixtures(t, st)

	expl, err := eng.Explain(context.Background(), user.ID, treks[0].ID, 0.85, "hybrid")
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if expl.TrekName != treks[0].Name {
		t.Errorf("TrekName = %q", expl.TrekName)
	}
	if expl.Algorithm != "hybrid" {
		t.Errorf("Algorithm = %q", expl.Algorithm)
	}

	if _, err := eng.Explain(context.Background(), 999, treks[0].ID, 0.85, ""); !core.IsNotFound(err) {
		t.Errorf("未知用户应返回 NOT_FOUND, got %v", err)
	}
	if _, err := eng.Explain(context.Background(), user.ID, 999, 0.85, ""); !core.IsNotFound(err) {
		t.Errorf("未知线路应返回 NOT_FOUND, got %v", err)
	}
}

func TestHybridDiversityApplied(t *testing.T) {
	eng, st := newTestEngine(t)
	user, _ := seedFixtures(t, st)

	recs, err := eng.Hybrid(context.Background(), user.ID, 10, nil)
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("结果不应为空")
	}
	// 两条 Annapurna 线路：排后的那条应带 diversity 标签
	tagged := 0
	for _, rec := range recs {
		if _, ok := rec.Labels["diversity"]; ok {
			tagged++
		}
	}
	if tagged != 1 {
		t.Errorf("diversity 标签数 = %d, want 1", tagged)
	}
}
