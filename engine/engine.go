// Package engine 是评分引擎的门面：把策略、硬约束、准入规则、解释生成器
// 和结果后处理组装成按用户 ID 服务的五个入口。
//
// 引擎自身无状态（只持常量配置），一次请求的流程固定为：
// 解析用户 → 构建只读快照 → 可选的在线特征叠加 → 策略评分 → 后处理。
package engine

import (
	"context"
	"fmt"

	"github.com/trekware/trekkit/config"
	"github.com/trekware/trekkit/core"
	"github.com/trekware/trekkit/explain"
	"github.com/trekware/trekkit/feature"
	"github.com/trekware/trekkit/filter"
	"github.com/trekware/trekkit/pipeline"
	"github.com/trekware/trekkit/rerank"
	"github.com/trekware/trekkit/strategy"
)

// 对外的策略名（也是 API 路径段）。
const (
	MethodContentBased   = "content-based"
	MethodCollaborative  = "collaborative"
	MethodKnowledgeBased = "knowledge-based"
	MethodHybrid         = "hybrid"
)

// Engine 是推荐引擎门面。
type Engine struct {
	store    core.RecordStore
	provider feature.Provider // 可选，在线特征叠加
	cfg      config.EngineConfig

	content   *strategy.ContentBased
	collab    *strategy.Collaborative
	knowledge *strategy.KnowledgeBased
	explainer *explain.Explainer
}

// Option 配置 Engine。
type Option func(*Engine)

// WithProvider 启用在线特征提供者（如 Feast）。
func WithProvider(p feature.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// New 组装引擎。配置错误（权重和非正、规则编译失败）在这里快速失败。
func New(st core.RecordStore, cfg config.EngineConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	filters := filter.HardConstraints()
	if len(cfg.EligibilityRules) > 0 {
		rules, err := filter.MustRules(cfg.EligibilityRules)
		if err != nil {
			return nil, err
		}
		filters = append(filters, rules...)
	}

	e := &Engine{
		store:     st,
		cfg:       cfg,
		content:   &strategy.ContentBased{Filters: filters},
		collab:    &strategy.Collaborative{},
		knowledge: &strategy.KnowledgeBased{Weights: cfg.Knowledge, Filters: filters},
		explainer: &explain.Explainer{Weights: cfg.Explanation},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ContentBased 返回基于属性相似度的推荐。
func (e *Engine) ContentBased(ctx context.Context, userID int64, topK int) ([]*core.ScoredRecommendation, error) {
	return e.run(ctx, userID, topK, e.content, nil)
}

// Collaborative 返回基于同伴评分的推荐。
func (e *Engine) Collaborative(ctx context.Context, userID int64, topK int) ([]*core.ScoredRecommendation, error) {
	return e.run(ctx, userID, topK, e.collab, nil)
}

// KnowledgeBased 返回基于专家规则的推荐。
func (e *Engine) KnowledgeBased(ctx context.Context, userID int64, topK int) ([]*core.ScoredRecommendation, error) {
	return e.run(ctx, userID, topK, e.knowledge, nil)
}

// Hybrid 返回三路混合推荐。
// weights 为 nil 时按用户活跃度分段选择配比；显式传入的配比优先。
func (e *Engine) Hybrid(ctx context.Context, userID int64, topK int, weights *strategy.BlendWeights) ([]*core.ScoredRecommendation, error) {
	return e.run(ctx, userID, topK, nil, weights)
}

// Recommend 按策略名分发，未知策略名报 INVALID_INPUT。
func (e *Engine) Recommend(ctx context.Context, method string, userID int64, topK int) ([]*core.ScoredRecommendation, error) {
	switch method {
	case MethodContentBased:
		return e.ContentBased(ctx, userID, topK)
	case MethodCollaborative:
		return e.Collaborative(ctx, userID, topK)
	case MethodKnowledgeBased:
		return e.KnowledgeBased(ctx, userID, topK)
	case MethodHybrid:
		return e.Hybrid(ctx, userID, topK, nil)
	default:
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			fmt.Sprintf("engine: unknown recommendation method %q", method))
	}
}

// Explain 为一条已算出的 (用户, 线路, 分数) 生成结构化解释。
// 与产出该分数的策略无关，见 explain 包。
func (e *Engine) Explain(ctx context.Context, userID, trekID int64, score float64, algorithm string) (*explain.Explanation, error) {
	user, err := e.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	trek, err := e.store.TrekByID(ctx, trekID)
	if err != nil {
		return nil, err
	}
	user = e.enrich(ctx, user)
	return e.explainer.Explain(user, trek, score, algorithm), nil
}

// run 执行一次完整的评分请求。
// strat 为 nil 表示混合策略（需要按用户分段或显式配比组装）。
func (e *Engine) run(
	ctx context.Context,
	userID int64,
	topK int,
	strat strategy.Strategy,
	weights *strategy.BlendWeights,
) ([]*core.ScoredRecommendation, error) {
	user, err := e.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	user = e.enrich(ctx, user)

	if topK <= 0 {
		topK = e.cfg.TopK
	}

	post := &pipeline.Pipeline{}
	if strat == nil {
		w := e.segmentWeights(snap, user)
		if weights != nil {
			w = *weights
		}
		strat = &strategy.Hybrid{
			Content:       e.content,
			Collaborative: e.collab,
			Knowledge:     e.knowledge,
			Weights:       w,
		}
		// 多样性调权只对混合结果有意义：单一策略的排序语义对外固化
		if e.cfg.DiversityLambda > 0 && e.cfg.DiversityLambda < 1 {
			post.Nodes = append(post.Nodes, &rerank.Diversity{Lambda: e.cfg.DiversityLambda})
		}
	}
	post.Nodes = append(post.Nodes, &rerank.TopN{N: topK})

	recs, err := strat.Recommend(ctx, user, snap, topK)
	if err != nil {
		return nil, err
	}
	return post.Run(ctx, user, recs)
}

// enrich 叠加在线特征；提供者不可用时降级为存储中的画像。
func (e *Engine) enrich(ctx context.Context, user *core.UserProfile) *core.UserProfile {
	if e.provider == nil {
		return user
	}
	enriched, err := e.provider.Enrich(ctx, user)
	if err != nil || enriched == nil {
		return user
	}
	return enriched
}

// segmentWeights 按用户评分条数选择混合配比。
// 冷启动用户少吃协同信号，活跃用户多吃；零值段回落到基础配比。
func (e *Engine) segmentWeights(snap *core.Snapshot, user *core.UserProfile) strategy.BlendWeights {
	seg := e.cfg.Segments
	count := len(snap.RatingsOf(user.ID))

	var w strategy.BlendWeights
	switch {
	case count == 0:
		w = seg.New
	case count <= seg.CasualThreshold:
		w = seg.Casual
	case count <= seg.RegularThreshold:
		w = seg.Regular
	default:
		w = seg.Expert
	}

	if w == (strategy.BlendWeights{}) {
		w = e.cfg.Blend
	}
	if w == (strategy.BlendWeights{}) {
		w = strategy.DefaultBlendWeights()
	}
	return w
}

// Store 暴露底层存储（API 层的用户/线路/评分读写共用同一个实例）。
func (e *Engine) Store() core.RecordStore { return e.store }
