package pipeline

import (
	"context"

	"github.com/trekware/trekkit/core"
)

// Node 是推荐结果后处理链的最小可扩展单元。
// 统一采用"输入推荐列表 -> 输出推荐列表"的形态，方便重排、截断、修饰等操作。
//
// 后处理只在策略打分之后执行，绝不改变策略本身的评分语义。
type Node interface {
	Name() string

	Process(
		ctx context.Context,
		user *core.UserProfile,
		recs []*core.ScoredRecommendation,
	) ([]*core.ScoredRecommendation, error)
}
