package strategy

import (
	"context"
	"math"
	"testing"

	"github.com/trekware/trekkit/core"
)

func TestCollaborativeColdStart(t *testing.T) {
	ctx := context.Background()
	s := &Collaborative{}

	alice := core.NewUserProfile(1)
	bob := core.NewUserProfile(2)
	trek := &core.Trek{ID: 1, Name: "A", Difficulty: core.DifficultyEasy}

	// 目标用户没有评分：空列表，不造兜底
	snap := core.NewSnapshot(
		[]*core.UserProfile{alice, bob},
		[]*core.Trek{trek},
		[]*core.Rating{{ID: 1, UserID: bob.ID, TrekID: trek.ID, Value: 5}},
	)
	recs, err := s.Recommend(ctx, alice, snap, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("冷启动应为空, got %d 条", len(recs))
	}

	// 有评分但没有任何同伴有评分：同样为空
	snap = core.NewSnapshot(
		[]*core.UserProfile{alice, bob},
		[]*core.Trek{trek},
		[]*core.Rating{{ID: 1, UserID: alice.ID, TrekID: trek.ID, Value: 4}},
	)
	recs, err = s.Recommend(ctx, alice, snap, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("无同伴时应为空, got %d 条", len(recs))
	}
}

func TestCollaborativeVoteAveraging(t *testing.T) {
	ctx := context.Background()
	s := &Collaborative{}

	// 三个画像完全相同的用户，同伴相似度均为 1
	alice := core.NewUserProfile(1)
	bob := core.NewUserProfile(2)
	carol := core.NewUserProfile(3)

	rated := &core.Trek{ID: 1, Name: "Rated", Difficulty: core.DifficultyEasy}
	target := &core.Trek{ID: 2, Name: "Target", Difficulty: core.DifficultyEasy}
	other := &core.Trek{ID: 3, Name: "Other", Difficulty: core.DifficultyEasy}

	snap := core.NewSnapshot(
		[]*core.UserProfile{alice, bob, carol},
		[]*core.Trek{rated, target, other},
		[]*core.Rating{
			{ID: 1, UserID: alice.ID, TrekID: rated.ID, Value: 4},
			{ID: 2, UserID: bob.ID, TrekID: target.ID, Value: 5},
			{ID: 3, UserID: carol.ID, TrekID: target.ID, Value: 3},
			{ID: 4, UserID: bob.ID, TrekID: other.ID, Value: 2},
		},
	)

	recs, err := s.Recommend(ctx, alice, snap, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}

	// target: (5×1 + 3×1) / 2 票 = 4.0；other: 2×1 / 1 票 = 2.0
	if recs[0].Trek.ID != target.ID {
		t.Errorf("第一名 = %d, want %d", recs[0].Trek.ID, target.ID)
	}
	if math.Abs(recs[0].Score-4.0) > 1e-9 {
		t.Errorf("target 分数 = %v, want 4.0", recs[0].Score)
	}
	if math.Abs(recs[1].Score-2.0) > 1e-9 {
		t.Errorf("other 分数 = %v, want 2.0", recs[1].Score)
	}
}

func TestCollaborativeSkipsRatedTreks(t *testing.T) {
	ctx := context.Background()
	s := &Collaborative{}

	alice := core.NewUserProfile(1)
	bob := core.NewUserProfile(2)

	seen := &core.Trek{ID: 1, Name: "Seen", Difficulty: core.DifficultyEasy}
	fresh := &core.Trek{ID: 2, Name: "Fresh", Difficulty: core.DifficultyEasy}

	snap := core.NewSnapshot(
		[]*core.UserProfile{alice, bob},
		[]*core.Trek{seen, fresh},
		[]*core.Rating{
			{ID: 1, UserID: alice.ID, TrekID: seen.ID, Value: 5},
			{ID: 2, UserID: bob.ID, TrekID: seen.ID, Value: 5},
			{ID: 3, UserID: bob.ID, TrekID: fresh.ID, Value: 4},
		},
	)

	recs, err := s.Recommend(ctx, alice, snap, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len = %d, want 1", len(recs))
	}
	if recs[0].Trek.ID != fresh.ID {
		t.Errorf("已评分线路不应再推荐, got trek %d", recs[0].Trek.ID)
	}
}

func TestFindSimilarUsersTopN(t *testing.T) {
	s := &Collaborative{TopSimilarUsers: 2}

	target := core.NewUserProfile(1)
	users := []*core.UserProfile{target}
	ratings := []*core.Rating{{ID: 1, UserID: 1, TrekID: 1, Value: 3}}
	for i := int64(2); i <= 8; i++ {
		users = append(users, core.NewUserProfile(i))
		ratings = append(ratings, &core.Rating{ID: i, UserID: i, TrekID: 1, Value: 3})
	}
	// ID 9 没有评分，永远不入选
	users = append(users, core.NewUserProfile(9))

	snap := core.NewSnapshot(users, []*core.Trek{{ID: 1, Name: "A"}}, ratings)

	peers := s.findSimilarUsers(target, snap)
	if len(peers) != 2 {
		t.Fatalf("len = %d, want 2", len(peers))
	}
	for _, p := range peers {
		if p.user.ID == target.ID {
			t.Error("同伴列表不应包含目标用户")
		}
		if p.user.ID == 9 {
			t.Error("零评分用户不应入选")
		}
	}
	// 全员同分，平手按人群顺序
	if peers[0].user.ID != 2 || peers[1].user.ID != 3 {
		t.Errorf("平手顺序错误: got %d, %d", peers[0].user.ID, peers[1].user.ID)
	}
}
