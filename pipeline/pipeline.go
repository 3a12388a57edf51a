package pipeline

import (
	"context"

	"github.com/trekware/trekkit/core"
)

// Pipeline 把结果后处理拆成可组合的 Node 链（多样性重排 → TopN 截断 → ...）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	user *core.UserProfile,
	recs []*core.ScoredRecommendation,
) ([]*core.ScoredRecommendation, error) {
	cur := recs
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, user, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
