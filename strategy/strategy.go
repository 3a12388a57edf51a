package strategy

import (
	"context"
	"sort"

	"github.com/trekware/trekkit/core"
)

// Strategy 表示一个独立的评分策略（内容 / 协同 / 知识规则 / 混合）。
// 可以把它理解为 (用户, 快照, top_k) → 有序推荐列表 的纯函数：
// 不持有可变状态，不修改快照，同输入两次调用产出完全一致。
//
// 各策略的分数都落在"策略自身"的量纲里，并不全局可比；
// 只有混合策略（Hybrid）负责跨策略归一化。
type Strategy interface {
	Name() string

	Recommend(
		ctx context.Context,
		user *core.UserProfile,
		snap *core.Snapshot,
		topK int,
	) ([]*core.ScoredRecommendation, error)
}

// defaultTopK 是 topK <= 0 时的缺省返回条数。
const defaultTopK = 10

// sortAndTruncate 按分数降序稳定排序并截断到 topK。
// 稳定排序保证平手时保留目录/构建顺序，这是对外承诺的裁决规则。
func sortAndTruncate(recs []*core.ScoredRecommendation, topK int) []*core.ScoredRecommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if topK <= 0 {
		topK = defaultTopK
	}
	if len(recs) > topK {
		recs = recs[:topK]
	}
	return recs
}
