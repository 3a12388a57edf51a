package explain

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/trekware/trekkit/core"
)

// Weights 是解释生成器七个特征贡献的权重（和为 1.0）。
// 显式配置值，不做进程级全局量：不同部署可以使用不同权重。
type Weights struct {
	Difficulty float64 `yaml:"difficulty"`
	Budget     float64 `yaml:"budget"`
	Altitude   float64 `yaml:"altitude"`
	Duration   float64 `yaml:"duration"`
	Cultural   float64 `yaml:"cultural"`
	Nature     float64 `yaml:"nature"`
	Season     float64 `yaml:"season"`
}

// DefaultWeights 返回标准权重。
func DefaultWeights() Weights {
	return Weights{
		Difficulty: 0.25,
		Budget:     0.20,
		Altitude:   0.15,
		Duration:   0.12,
		Cultural:   0.10,
		Nature:     0.10,
		Season:     0.08,
	}
}

// 特征名，同时是响应体里的贡献 key。
const (
	FeatureDifficulty = "difficulty_match"
	FeatureBudget     = "budget_match"
	FeatureAltitude   = "altitude_match"
	FeatureDuration   = "duration_match"
	FeatureCultural   = "cultural_interest"
	FeatureNature     = "nature_interest"
	FeatureSeason     = "season_match"
)

// featureOrder 固定贡献的遍历顺序，保证排序平手时输出确定。
var featureOrder = []string{
	FeatureDifficulty,
	FeatureBudget,
	FeatureAltitude,
	FeatureDuration,
	FeatureCultural,
	FeatureNature,
	FeatureSeason,
}

var featureDescriptions = map[string]string{
	FeatureDifficulty: "difficulty level matches your experience",
	FeatureBudget:     "cost fits within your budget",
	FeatureAltitude:   "altitude is suitable for your fitness level",
	FeatureDuration:   "duration aligns with your preference",
	FeatureCultural:   "cultural experiences match your interests",
	FeatureNature:     "natural scenery matches your interests",
	FeatureSeason:     "best seasons align with your preferred time",
}

// Contribution 是一项带符号的特征贡献：正值利好，负值隐忧。
type Contribution struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// Explanation 是对一条 (用户, 线路, 最终分) 的结构化解释。
type Explanation struct {
	TrekName      string             `json:"trek_name"`
	FinalScore    float64            `json:"final_score"`
	Algorithm     string             `json:"algorithm"`
	TopPositive   []Contribution     `json:"top_positive_features"`
	TopNegative   []Contribution     `json:"top_negative_features"`
	Contributions map[string]float64 `json:"feature_contributions"`
	Text          string             `json:"explanation_text"`
}

// Explainer 为任意来源的推荐分生成事后解释。
//
// 它独立于具体策略：给定 (用户, 线路, 最终分)，用一套自洽的固定阈值规则
// 重算七项加权特征贡献，按绝对值降序展示 Top-3 利好与 Top-2 隐忧。
// 这是对分数的事后合理化（post-hoc rationalization），不是策略计算过程的
// 因果分解——刻意与策略内部实现解耦。
type Explainer struct {
	// Weights 为零值时使用 DefaultWeights
	Weights Weights
}

// Explain 生成一条推荐的结构化解释与模板文本。
func (e *Explainer) Explain(user *core.UserProfile, trek *core.Trek, finalScore float64, algorithm string) *Explanation {
	if algorithm == "" {
		algorithm = "Hybrid"
	}

	contributions := e.featureContributions(user, trek)

	sorted := make([]Contribution, 0, len(featureOrder))
	for _, feat := range featureOrder {
		sorted = append(sorted, Contribution{Feature: feat, Value: contributions[feat]})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Value) > math.Abs(sorted[j].Value)
	})

	positive := make([]Contribution, 0, 3)
	negative := make([]Contribution, 0, 2)
	for _, c := range sorted {
		if c.Value > 0 && len(positive) < 3 {
			positive = append(positive, c)
		}
		if c.Value < 0 && len(negative) < 2 {
			negative = append(negative, c)
		}
	}

	return &Explanation{
		TrekName:      trek.Name,
		FinalScore:    math.Round(finalScore*1000) / 1000,
		Algorithm:     algorithm,
		TopPositive:   positive,
		TopNegative:   negative,
		Contributions: contributions,
		Text:          renderText(trek.Name, positive, negative, finalScore),
	}
}

// featureContributions 按固定阈值规则计算七项带符号贡献。
func (e *Explainer) featureContributions(user *core.UserProfile, trek *core.Trek) map[string]float64 {
	w := e.Weights
	if w == (Weights{}) {
		w = DefaultWeights()
	}

	contributions := make(map[string]float64, len(featureOrder))

	// 难度：档差 0 → +w；档差 1 → +w×0.5；档差 ≥2 → −w×0.3
	diffDelta := user.ExperienceLevel.Tier() - trek.Difficulty.Tier()
	if diffDelta < 0 {
		diffDelta = -diffDelta
	}
	switch {
	case diffDelta == 0:
		contributions[FeatureDifficulty] = w.Difficulty
	case diffDelta == 1:
		contributions[FeatureDifficulty] = w.Difficulty * 0.5
	default:
		contributions[FeatureDifficulty] = -w.Difficulty * 0.3
	}

	// 预算：预算内 → +w×(1 − 花费比×0.5)；超支 → −w×min(超支比, 1)
	if trek.CostMin > 0 && user.BudgetMax > 0 {
		if trek.CostMin <= user.BudgetMax {
			budgetRatio := trek.CostMin / math.Max(user.BudgetMax, 1)
			contributions[FeatureBudget] = w.Budget * (1 - budgetRatio*0.5)
		} else {
			overage := (trek.CostMin - user.BudgetMax) / math.Max(user.BudgetMax, 1)
			contributions[FeatureBudget] = -w.Budget * math.Min(overage, 1.0)
		}
	} else {
		contributions[FeatureBudget] = 0
	}

	// 海拔：不超安全上限 → +w；超 500 米以内 → +w×0.6；更高 → −w×0.5
	if trek.MaxAltitude > 0 {
		altitudeDiff := trek.MaxAltitude - maxSafeAltitude(user)
		switch {
		case altitudeDiff <= 0:
			contributions[FeatureAltitude] = w.Altitude
		case altitudeDiff <= 500:
			contributions[FeatureAltitude] = w.Altitude * 0.6
		default:
			contributions[FeatureAltitude] = -w.Altitude * 0.5
		}
	} else {
		contributions[FeatureAltitude] = 0
	}

	// 时长：完全一致 → +w；差 2 天以内 → +w×0.7；更多 → −w×0.4
	if trek.DurationDays > 0 && user.AvailableDays > 0 {
		durationDiff := trek.DurationDays - user.AvailableDays
		if durationDiff < 0 {
			durationDiff = -durationDiff
		}
		switch {
		case durationDiff == 0:
			contributions[FeatureDuration] = w.Duration
		case durationDiff <= 2:
			contributions[FeatureDuration] = w.Duration * 0.7
		default:
			contributions[FeatureDuration] = -w.Duration * 0.4
		}
	} else {
		contributions[FeatureDuration] = 0
	}

	// 文化 / 自然：+w×(1 − |差值|)；任一侧未填写按 0
	if user.CulturalInterest > 0 && trek.CulturalScore > 0 {
		contributions[FeatureCultural] = w.Cultural * (1 - math.Abs(user.CulturalInterest-trek.CulturalScore))
	} else {
		contributions[FeatureCultural] = 0
	}
	if user.NatureInterest > 0 && trek.NatureScore > 0 {
		contributions[FeatureNature] = w.Nature * (1 - math.Abs(user.NatureInterest-trek.NatureScore))
	} else {
		contributions[FeatureNature] = 0
	}

	// 季节：恒定 +w×0.5。这一层拿不到真实的季节信号，是规则集已知的
	// 不完整处；行为已对外固化，保持原样并在此标注，不做静默增强。
	contributions[FeatureSeason] = w.Season * 0.5

	return contributions
}

// maxSafeAltitude 按经验档位的基准海拔加体能修正，估算用户的安全海拔上限。
func maxSafeAltitude(user *core.UserProfile) int {
	base := 4000
	switch user.ExperienceLevel {
	case core.ExperienceIntermediate:
		base = 5000
	case core.ExperienceAdvanced:
		base = 5500
	case core.ExperienceExpert:
		base = 6000
	}

	bonus := 0
	switch user.FitnessLevel {
	case core.FitnessLow:
		bonus = -500
	case core.FitnessHigh:
		bonus = 500
	case core.FitnessVeryHigh:
		bonus = 1000
	}

	return base + bonus
}

// renderText 渲染模板化的解释文本。
func renderText(trekName string, positive, negative []Contribution, score float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (Score: %.2f)\n\n", trekName, score)

	if len(positive) > 0 {
		b.WriteString("✓ **Recommended because:**\n")
		for _, c := range positive {
			fmt.Fprintf(&b, "  • %s (+%.2f)\n", featureDescriptions[c.Feature], c.Value)
		}
	}

	if len(negative) > 0 {
		b.WriteString("\n✗ **Potential concerns:**\n")
		for _, c := range negative {
			fmt.Fprintf(&b, "  • %s (%.2f)\n", featureDescriptions[c.Feature], c.Value)
		}
	}

	return b.String()
}
