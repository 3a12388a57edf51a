package strategy

import (
	"context"
	"fmt"
	"math"

	"github.com/trekware/trekkit/core"
	"github.com/trekware/trekkit/filter"
	"github.com/trekware/trekkit/pkg/utils"
)

// KnowledgeWeights 是知识策略四个子规则的权重。
// 权重是显式配置值而非进程级全局量：不同部署可以合法地使用不同权重。
type KnowledgeWeights struct {
	Difficulty float64 `yaml:"difficulty"`
	Seasonal   float64 `yaml:"seasonal"`
	Interest   float64 `yaml:"interest"`
	Altitude   float64 `yaml:"altitude"`
}

// DefaultKnowledgeWeights 返回标准权重（和为 1）。
func DefaultKnowledgeWeights() KnowledgeWeights {
	return KnowledgeWeights{
		Difficulty: 0.30,
		Seasonal:   0.20,
		Interest:   0.25,
		Altitude:   0.25,
	}
}

// KnowledgeBased 是基于专家规则的评分策略。
//
// 四个独立的子规则各产出 [0,1] 的子分和一条文字理由，按权重求和：
//   - 难度递进（0.30）：同档 1.0 / 高一档 0.8 / 高两档以上 0.3 / 低于或持平 0.6
//   - 季节契合（0.20）：季节集合的 Jaccard 重叠；任一侧为空按 0.7（无约束 ≠ 不匹配）
//   - 兴趣对齐（0.25）：三对兴趣分 (1 − |差值|) 的均值
//   - 海拔经验（0.25）：1 − |用户海拔经验 − 线路最高点| / 6000，截断到 [0,1]
//
// 与内容策略共用同一条硬约束链。
type KnowledgeBased struct {
	// Weights 为零值时使用 DefaultKnowledgeWeights
	Weights KnowledgeWeights

	// Filters 是硬约束链；为 nil 时使用标准链
	Filters []filter.Filter
}

func (s *KnowledgeBased) Name() string { return "strategy.knowledge" }

func (s *KnowledgeBased) Recommend(
	ctx context.Context,
	user *core.UserProfile,
	snap *core.Snapshot,
	topK int,
) ([]*core.ScoredRecommendation, error) {
	if user == nil || snap == nil {
		return nil, nil
	}

	w := s.Weights
	if w == (KnowledgeWeights{}) {
		w = DefaultKnowledgeWeights()
	}

	filters := s.Filters
	if filters == nil {
		filters = filter.HardConstraints()
	}

	recs := make([]*core.ScoredRecommendation, 0, len(snap.Treks))
	for _, trek := range snap.Treks {
		if !filter.Passes(ctx, filters, user, trek) {
			continue
		}

		reasons := make([]string, 0, 4)

		difficultyScore, reason := scoreDifficultyProgression(user, trek)
		if reason != "" {
			reasons = append(reasons, reason)
		}
		seasonalScore, reason := scoreSeasonalFit(user, trek)
		if reason != "" {
			reasons = append(reasons, reason)
		}
		interestScore, reason := scoreInterestAlignment(user, trek)
		if reason != "" {
			reasons = append(reasons, reason)
		}
		altitudeScore, reason := scoreAltitudeFit(user, trek)
		if reason != "" {
			reasons = append(reasons, reason)
		}

		score := difficultyScore*w.Difficulty +
			seasonalScore*w.Seasonal +
			interestScore*w.Interest +
			altitudeScore*w.Altitude

		rec := core.NewScoredRecommendation(trek, score)
		rec.PutLabel("strategy", utils.Label{Value: "knowledge_based", Source: "strategy"})
		rec.Explanation = map[string]any{
			"method": "Knowledge-Based",
			"score_components": map[string]float64{
				"difficulty_fit":     difficultyScore,
				"seasonal_fit":       seasonalScore,
				"interest_alignment": interestScore,
				"experience_fit":     altitudeScore,
			},
			"reasons": reasons,
		}
		recs = append(recs, rec)
	}

	return sortAndTruncate(recs, topK), nil
}

// scoreDifficultyProgression 评估难度递进：推崇同档与"高一档的进阶挑战"。
func scoreDifficultyProgression(user *core.UserProfile, trek *core.Trek) (float64, string) {
	userTier := user.ExperienceLevel.Tier()
	trekTier := trek.Difficulty.Tier()

	switch {
	case trekTier == userTier:
		return 1.0, fmt.Sprintf("Perfect difficulty level for %s trekkers", user.ExperienceLevel)
	case trekTier == userTier+1:
		return 0.8, fmt.Sprintf("Good challenge for %s trekkers", user.ExperienceLevel)
	case trekTier > userTier+1:
		return 0.3, "Challenging - might be too difficult"
	default:
		return 0.6, "Good for building experience"
	}
}

// scoreSeasonalFit 评估季节契合度：两侧季节集合的 Jaccard 重叠。
// 任一侧为空视为"无约束"，给 0.7 而不是 0。
func scoreSeasonalFit(user *core.UserProfile, trek *core.Trek) (float64, string) {
	trekSeasons := trek.SeasonSet()
	userSeasons := user.SeasonSet()
	if len(trekSeasons) == 0 || len(userSeasons) == 0 {
		return 0.7, ""
	}

	overlap := 0
	for s := range trekSeasons {
		if _, ok := userSeasons[s]; ok {
			overlap++
		}
	}
	union := len(trekSeasons) + len(userSeasons) - overlap

	score := 0.5
	if union > 0 {
		score = float64(overlap) / float64(union)
	}

	switch {
	case score > 0.7:
		return score, "Great seasonal fit"
	case score > 0.3:
		return score, "Some seasonal overlap"
	default:
		return 0.3, "Different seasons"
	}
}

// scoreInterestAlignment 评估兴趣对齐：三对兴趣分 (1 − |差值|) 的均值。
func scoreInterestAlignment(user *core.UserProfile, trek *core.Trek) (float64, string) {
	cultural := 1.0 - math.Abs(user.CulturalInterest-trek.CulturalOrDefault())
	nature := 1.0 - math.Abs(user.NatureInterest-trek.NatureOrDefault())
	adventure := 1.0 - math.Abs(user.AdventureInterest-trek.AdventureOrDefault())

	score := (cultural + nature + adventure) / 3

	switch {
	case score > 0.8:
		return score, "Excellent interest match"
	case score > 0.6:
		return score, "Good interest alignment"
	default:
		return score, "Some interest overlap"
	}
}

// scoreAltitudeFit 评估海拔经验契合：经验海拔与线路最高点的差距越小越好。
// 线路未填最高点按 3000 米估算。
func scoreAltitudeFit(user *core.UserProfile, trek *core.Trek) (float64, string) {
	trekAltitude := float64(trek.MaxAltitude)
	if trekAltitude == 0 {
		trekAltitude = 3000
	}

	score := 1.0 - math.Abs(float64(user.AltitudeExperience)-trekAltitude)/6000.0
	score = math.Max(0, math.Min(score, 1.0))

	switch {
	case score > 0.8:
		return score, "Altitude experience match"
	case score > 0.5:
		return score, "Reasonable altitude challenge"
	default:
		return score, "Significant altitude challenge"
	}
}

var _ Strategy = (*KnowledgeBased)(nil)
