package strategy

import (
	"context"
	"math"

	"github.com/trekware/trekkit/core"
	"github.com/trekware/trekkit/feature"
	"github.com/trekware/trekkit/filter"
	"github.com/trekware/trekkit/pkg/utils"
)

// ContentBased 是基于属性相似度的评分策略。
//
// 核心思想："画像和线路长得像，就值得推荐"
//
// 算法流程：
//  1. 硬约束过滤（预算 / 天数 / 难度跨度）
//  2. 画像向量与线路向量的余弦相似度
//  3. 软惩罚：花费、时长逼近上限时打折（不淘汰，只降分）
//  4. score = similarity × (1 − penalty)，降序取 TopK
type ContentBased struct {
	// Filters 是硬约束链；为 nil 时使用标准链 filter.HardConstraints()
	Filters []filter.Filter
}

func (s *ContentBased) Name() string { return "strategy.content" }

func (s *ContentBased) Recommend(
	ctx context.Context,
	user *core.UserProfile,
	snap *core.Snapshot,
	topK int,
) ([]*core.ScoredRecommendation, error) {
	if user == nil || snap == nil {
		return nil, nil
	}

	filters := s.Filters
	if filters == nil {
		filters = filter.HardConstraints()
	}

	userVec := feature.UserVector(user)
	recs := make([]*core.ScoredRecommendation, 0, len(snap.Treks))

	for _, trek := range snap.Treks {
		if !filter.Passes(ctx, filters, user, trek) {
			continue
		}

		similarity := feature.Cosine(userVec, feature.TrekVector(trek))
		penalty := softPenalty(user, trek)
		score := similarity * (1.0 - penalty)

		rec := core.NewScoredRecommendation(trek, score)
		rec.PutLabel("strategy", utils.Label{Value: "content_based", Source: "strategy"})
		rec.Explanation = contentExplanation(user, trek, similarity)
		recs = append(recs, rec)
	}

	return sortAndTruncate(recs, topK), nil
}

// softPenalty 计算 [0, 0.3] 的软惩罚：两个独立的压力项求和后封顶。
//   - 花费/预算比  > 0.9 → +0.15，> 0.7 → +0.05
//   - 时长/天数比  同阈值同增量
func softPenalty(user *core.UserProfile, trek *core.Trek) float64 {
	penalty := 0.0

	if user.BudgetMax > 0 && trek.CostMin > 0 {
		costRatio := trek.CostMin / user.BudgetMax
		if costRatio > 0.9 {
			penalty += 0.15
		} else if costRatio > 0.7 {
			penalty += 0.05
		}
	}

	if user.AvailableDays > 0 && trek.DurationDays > 0 {
		durationRatio := float64(trek.DurationDays) / float64(user.AvailableDays)
		if durationRatio > 0.9 {
			penalty += 0.15
		} else if durationRatio > 0.7 {
			penalty += 0.05
		}
	}

	return math.Min(penalty, 0.3)
}

// interestProximity 是兴趣"足够接近"的判据：两侧差值小于 0.2。
const interestProximity = 0.2

// contentExplanation 生成内容策略的解释片段：五项定性检查各自是否命中。
func contentExplanation(user *core.UserProfile, trek *core.Trek, similarity float64) map[string]any {
	reasons := make([]string, 0, 5)

	if math.Abs(user.CulturalInterest-trek.CulturalOrDefault()) < interestProximity {
		reasons = append(reasons, "Matches your cultural interest")
	}
	if math.Abs(user.NatureInterest-trek.NatureOrDefault()) < interestProximity {
		reasons = append(reasons, "Matches your nature interest")
	}
	if math.Abs(user.AdventureInterest-trek.AdventureOrDefault()) < interestProximity {
		reasons = append(reasons, "Matches your adventure interest")
	}
	if difficultyAllowed(user.ExperienceLevel, trek.Difficulty) {
		reasons = append(reasons, "Appropriate difficulty for your level")
	}
	if trek.CostMin > 0 && user.BudgetMax > 0 && trek.CostMin <= user.BudgetMax {
		reasons = append(reasons, "Fits your budget range")
	}

	return map[string]any{
		"method":           "Content-Based Filtering",
		"similarity_score": similarity,
		"reasons":          reasons,
	}
}

// difficultyAllowed 判断线路难度是否属于该经验等级的推荐难度集合。
func difficultyAllowed(exp core.ExperienceLevel, d core.Difficulty) bool {
	allowed, ok := experienceDifficulties[exp]
	if !ok {
		allowed = []core.Difficulty{core.DifficultyModerate}
	}
	for _, a := range allowed {
		if a == d {
			return true
		}
	}
	return false
}

// experienceDifficulties 是经验等级到推荐难度集合的映射。
var experienceDifficulties = map[core.ExperienceLevel][]core.Difficulty{
	core.ExperienceBeginner:     {core.DifficultyEasy, core.DifficultyModerate},
	core.ExperienceIntermediate: {core.DifficultyModerate, core.DifficultyHard},
	core.ExperienceAdvanced:     {core.DifficultyHard, core.DifficultyVeryHard},
	core.ExperienceExpert:       {core.DifficultyVeryHard},
}

var _ Strategy = (*ContentBased)(nil)
