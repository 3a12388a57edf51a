package rerank

import (
	"context"

	"github.com/trekware/trekkit/core"
)

// TopN 是一个截断节点，保留前 N 条推荐。
// 通常放在后处理链末尾，控制最终返回条数。
type TopN struct {
	// N 要保留的条数；N <= 0 时不截断
	N int
}

func (n *TopN) Name() string { return "rerank.topn" }

func (n *TopN) Process(
	_ context.Context,
	_ *core.UserProfile,
	recs []*core.ScoredRecommendation,
) ([]*core.ScoredRecommendation, error) {
	if n.N <= 0 || len(recs) <= n.N {
		return recs, nil
	}
	return recs[:n.N], nil
}
