package strategy

import (
	"context"
	"sort"

	"github.com/trekware/trekkit/core"
	"github.com/trekware/trekkit/feature"
	"github.com/trekware/trekkit/pkg/utils"
)

// Collaborative 是基于同伴的协同评分策略（User-based）。
//
// 核心思想："画像相似的用户，喜欢相似的线路"
//
// 算法流程：
//  1. 在其他"至少有一条评分"的用户里，按画像向量余弦相似度取 Top-5 同伴
//  2. 对每个同伴、每条目标用户未评分过的线路：累加 rating × similarity，并计票
//  3. 每条线路的分数 = 加权和 ÷ 票数，降序取 TopK
//
// 注意两处有意为之的语义：
//   - 不走硬约束：同伴的评分视为已被验证过的信号
//   - 除以票数而非相似度之和，不是归一化加权平均。这是有偏估计，
//     但排序语义已对外固化，修正会改变排名，保持原样
//
// 目标用户没有评分、或没有任何同伴有评分时，返回空列表（没有合成兜底）。
type Collaborative struct {
	// TopSimilarUsers 是参与投票的同伴数，<= 0 时取 5
	TopSimilarUsers int
}

func (s *Collaborative) Name() string { return "strategy.collaborative" }

func (s *Collaborative) Recommend(
	ctx context.Context,
	user *core.UserProfile,
	snap *core.Snapshot,
	topK int,
) ([]*core.ScoredRecommendation, error) {
	if user == nil || snap == nil {
		return nil, nil
	}
	if !snap.HasRatings(user.ID) {
		return nil, nil
	}

	peers := s.findSimilarUsers(user, snap)
	if len(peers) == 0 {
		return nil, nil
	}

	rated := snap.RatedSet(user.ID)

	type tally struct {
		sum   float64
		votes int
		peers []any // {name, rating}，进解释片段
	}
	tallies := make(map[int64]*tally)

	for _, p := range peers {
		for _, r := range snap.RatingsOf(p.user.ID) {
			if _, ok := rated[r.TrekID]; ok {
				continue
			}
			if snap.TrekByID(r.TrekID) == nil {
				continue
			}
			t, ok := tallies[r.TrekID]
			if !ok {
				t = &tally{}
				tallies[r.TrekID] = t
			}
			t.sum += r.Value * p.similarity
			t.votes++
			t.peers = append(t.peers, map[string]any{
				"name":   p.user.Name,
				"rating": r.Value,
			})
		}
	}

	// 按目录顺序遍历，保证平手时的裁决顺序确定
	recs := make([]*core.ScoredRecommendation, 0, len(tallies))
	for _, trek := range snap.Treks {
		t, ok := tallies[trek.ID]
		if !ok || t.votes == 0 {
			continue
		}
		score := t.sum / float64(t.votes)

		rec := core.NewScoredRecommendation(trek, score)
		rec.PutLabel("strategy", utils.Label{Value: "collaborative", Source: "strategy"})
		rec.Explanation = map[string]any{
			"method":         "Collaborative Filtering",
			"reason":         "Users similar to you rated this highly",
			"similar_users":  t.peers,
			"average_rating": score,
		}
		recs = append(recs, rec)
	}

	return sortAndTruncate(recs, topK), nil
}

type scoredPeer struct {
	user       *core.UserProfile
	similarity float64
}

// findSimilarUsers 在人群里找与目标用户画像最相似的同伴。
// 只考虑"其他人 + 至少有一条评分"的用户；平手按人群顺序。
func (s *Collaborative) findSimilarUsers(user *core.UserProfile, snap *core.Snapshot) []scoredPeer {
	topN := s.TopSimilarUsers
	if topN <= 0 {
		topN = 5
	}

	userVec := feature.UserVector(user)
	peers := make([]scoredPeer, 0)

	for _, other := range snap.Users {
		if other.ID == user.ID || !snap.HasRatings(other.ID) {
			continue
		}
		sim := feature.Cosine(userVec, feature.UserVector(other))
		peers = append(peers, scoredPeer{user: other, similarity: sim})
	}

	sort.SliceStable(peers, func(i, j int) bool {
		return peers[i].similarity > peers[j].similarity
	})
	if len(peers) > topN {
		peers = peers[:topN]
	}
	return peers
}

var _ Strategy = (*Collaborative)(nil)
