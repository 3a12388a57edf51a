package strategy

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/trekware/trekkit/core"
	"github.com/trekware/trekkit/pkg/utils"
)

// BlendWeights 是混合策略的三路配比。
type BlendWeights struct {
	Content       float64 `yaml:"content" json:"content_based"`
	Collaborative float64 `yaml:"collaborative" json:"collaborative"`
	Knowledge     float64 `yaml:"knowledge" json:"knowledge_based"`
}

// DefaultBlendWeights 返回标准配比 {0.40, 0.30, 0.30}。
func DefaultBlendWeights() BlendWeights {
	return BlendWeights{Content: 0.40, Collaborative: 0.30, Knowledge: 0.30}
}

// Normalize 把配比归一化到和为 1。
// 和非正属于配置错误，必须快速失败，绝不能悄悄产出无意义的分数。
func (w BlendWeights) Normalize() (BlendWeights, error) {
	total := w.Content + w.Collaborative + w.Knowledge
	if total <= 0 {
		return BlendWeights{}, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			fmt.Sprintf("engine: blend weights must sum to a positive value, got %.4f", total))
	}
	return BlendWeights{
		Content:       w.Content / total,
		Collaborative: w.Collaborative / total,
		Knowledge:     w.Knowledge / total,
	}, nil
}

// Hybrid 把三个基础策略混合为一个排序。
//
// 算法流程：
//  1. 三个策略各取 2×topK 候选（给混合留出更宽的池子），并发执行——
//     快照不可变，策略间零共享状态，fan-out 没有协调成本
//  2. 每路分数除以该路最大值做归一化（空路 / 全零路视为对所有线路贡献 0）
//  3. 候选集合 = 三路候选的并集；某路未覆盖的线路该路按 0 贡献
//  4. 加权求和，降序取 TopK
type Hybrid struct {
	Content       Strategy
	Collaborative Strategy
	Knowledge     Strategy

	// Weights 为零值时使用 DefaultBlendWeights；使用前都会归一化
	Weights BlendWeights
}

// NewHybrid 用标准的三个基础策略组装混合策略。
func NewHybrid(weights BlendWeights) *Hybrid {
	return &Hybrid{
		Content:       &ContentBased{},
		Collaborative: &Collaborative{},
		Knowledge:     &KnowledgeBased{},
		Weights:       weights,
	}
}

func (s *Hybrid) Name() string { return "strategy.hybrid" }

func (s *Hybrid) Recommend(
	ctx context.Context,
	user *core.UserProfile,
	snap *core.Snapshot,
	topK int,
) ([]*core.ScoredRecommendation, error) {
	if user == nil || snap == nil {
		return nil, nil
	}

	weights := s.Weights
	if weights == (BlendWeights{}) {
		weights = DefaultBlendWeights()
	}
	weights, err := weights.Normalize()
	if err != nil {
		return nil, err
	}

	if topK <= 0 {
		topK = defaultTopK
	}
	poolK := topK * 2

	var contentRecs, collabRecs, knowledgeRecs []*core.ScoredRecommendation
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		contentRecs, err = s.Content.Recommend(gctx, user, snap, poolK)
		return err
	})
	eg.Go(func() error {
		var err error
		collabRecs, err = s.Collaborative.Recommend(gctx, user, snap, poolK)
		return err
	})
	eg.Go(func() error {
		var err error
		knowledgeRecs, err = s.Knowledge.Recommend(gctx, user, snap, poolK)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	contentScores := scoresByTrek(contentRecs)
	collabScores := scoresByTrek(collabRecs)
	knowledgeScores := scoresByTrek(knowledgeRecs)

	maxContent := maxScore(contentScores)
	maxCollab := maxScore(collabScores)
	maxKnowledge := maxScore(knowledgeScores)

	// 并集按目录顺序遍历，保证平手时的裁决顺序确定
	recs := make([]*core.ScoredRecommendation, 0, len(contentScores)+len(collabScores)+len(knowledgeScores))
	for _, trek := range snap.Treks {
		_, inContent := contentScores[trek.ID]
		_, inCollab := collabScores[trek.ID]
		_, inKnowledge := knowledgeScores[trek.ID]
		if !inContent && !inCollab && !inKnowledge {
			continue
		}

		contentNorm := normalized(contentScores[trek.ID], maxContent)
		collabNorm := normalized(collabScores[trek.ID], maxCollab)
		knowledgeNorm := normalized(knowledgeScores[trek.ID], maxKnowledge)

		score := contentNorm*weights.Content +
			collabNorm*weights.Collaborative +
			knowledgeNorm*weights.Knowledge

		rec := core.NewScoredRecommendation(trek, score)
		rec.PutLabel("strategy", utils.Label{Value: "hybrid", Source: "strategy"})
		rec.Explanation = map[string]any{
			"method":  "Hybrid",
			"weights": weights,
			"component_scores": map[string]float64{
				"content_based":   contentNorm,
				"collaborative":   collabNorm,
				"knowledge_based": knowledgeNorm,
			},
			"reason": "Combines content-based, collaborative filtering, and knowledge-based rules",
		}
		recs = append(recs, rec)
	}

	return sortAndTruncate(recs, topK), nil
}

func scoresByTrek(recs []*core.ScoredRecommendation) map[int64]float64 {
	scores := make(map[int64]float64, len(recs))
	for _, r := range recs {
		scores[r.Trek.ID] = r.Score
	}
	return scores
}

func maxScore(scores map[int64]float64) float64 {
	max := 0.0
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	return max
}

// normalized 把一路的原始分除以该路最大值；空路/全零路按 0 贡献（防除零）。
func normalized(score, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return score / max
}

var _ Strategy = (*Hybrid)(nil)
