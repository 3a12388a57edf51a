package core

import "github.com/trekware/trekkit/pkg/utils"

// ScoredRecommendation 是一次评分请求的产出单元：线路、分数与解释载荷。
// 请求级临时值，绝不落库。
//
// 解释分两层：
//   - Labels：轻量的链路标签（策略来源、命中规则等），可跨节点合并透传
//   - Explanation：策略产出的结构化解释片段，直接进响应体
type ScoredRecommendation struct {
	Trek  *Trek   `json:"trek"`
	Score float64 `json:"score"`

	Labels      map[string]utils.Label `json:"labels,omitempty"`
	Explanation map[string]any         `json:"explanation,omitempty"`
}

func NewScoredRecommendation(t *Trek, score float64) *ScoredRecommendation {
	return &ScoredRecommendation{
		Trek:        t,
		Score:       score,
		Labels:      make(map[string]utils.Label),
		Explanation: make(map[string]any),
	}
}

// PutLabel 写入 Label；已存在同名 key 时按默认 Merge 规则累积。
func (r *ScoredRecommendation) PutLabel(key string, lbl utils.Label) {
	if r.Labels == nil {
		r.Labels = make(map[string]utils.Label)
	}
	if old, ok := r.Labels[key]; ok {
		r.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	r.Labels[key] = lbl
}
