package rerank

import (
	"context"
	"math"
	"sort"

	"github.com/trekware/trekkit/core"
	"github.com/trekware/trekkit/pkg/utils"
)

// Diversity 是按地区做多样性调权的重排节点。
//
// 同一地区（Region）重复出现时按 lambda 的幂次衰减分数：
// 该地区第 k 次出现的线路分数乘以 lambda^(k-1)，再稳定重排。
// Lambda = 1 等价于不调权；未填地区的线路不参与衰减。
type Diversity struct {
	// Lambda 衰减系数，(0,1]；<= 0 时取 0.7
	Lambda float64
}

func (n *Diversity) Name() string { return "rerank.diversity" }

func (n *Diversity) Process(
	_ context.Context,
	_ *core.UserProfile,
	recs []*core.ScoredRecommendation,
) ([]*core.ScoredRecommendation, error) {
	if len(recs) == 0 {
		return recs, nil
	}

	lambda := n.Lambda
	if lambda <= 0 {
		lambda = 0.7
	}
	if lambda >= 1 {
		return recs, nil
	}

	seen := make(map[string]int, 8)
	for _, rec := range recs {
		region := rec.Trek.Region
		if region == "" {
			continue
		}
		repeats := seen[region]
		seen[region] = repeats + 1
		if repeats == 0 {
			continue
		}
		rec.Score *= math.Pow(lambda, float64(repeats))
		rec.PutLabel("diversity", utils.Label{Value: region, Source: "rerank"})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs, nil
}
