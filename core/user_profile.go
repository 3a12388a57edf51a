package core

import "time"

// ExperienceLevel 是四档有序的徒步经验等级。
// 用字符串承载（与目录数据和 API 一致），Tier 映射为 1..4 的序数。
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "Beginner"
	ExperienceIntermediate ExperienceLevel = "Intermediate"
	ExperienceAdvanced     ExperienceLevel = "Advanced"
	ExperienceExpert       ExperienceLevel = "Expert"
)

// Tier 返回经验等级的序数（1..4）。
// 未识别的取中档 2：档案不完整时走宽松策略，不报错。
func (l ExperienceLevel) Tier() int {
	switch l {
	case ExperienceBeginner:
		return 1
	case ExperienceIntermediate:
		return 2
	case ExperienceAdvanced:
		return 3
	case ExperienceExpert:
		return 4
	default:
		return 2
	}
}

// FitnessLevel 是四档有序的体能等级。
type FitnessLevel string

const (
	FitnessLow      FitnessLevel = "Low"
	FitnessModerate FitnessLevel = "Moderate"
	FitnessHigh     FitnessLevel = "High"
	FitnessVeryHigh FitnessLevel = "Very High"
)

// Tier 返回体能等级的序数（1..4），未识别取中档 2。
func (l FitnessLevel) Tier() int {
	switch l {
	case FitnessLow:
		return 1
	case FitnessModerate:
		return 2
	case FitnessHigh:
		return 3
	case FitnessVeryHigh:
		return 4
	default:
		return 2
	}
}

// UserProfile 是用户画像：推荐引擎的"全局输入 + 约束来源 + 兴趣信号"。
//
// 它不属于某一个策略，而是：
//   - 被所有策略共享（内容 / 协同 / 知识规则 / 混合）
//   - 驱动硬约束过滤（预算 / 天数 / 难度跨度）
//   - 提供特征向量的全部维度
//
// 会话内视为不可变：引擎绝不回写画像，更新只能通过 RecordStore 显式进行。
type UserProfile struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Age         int    `json:"age,omitempty"`
	Nationality string `json:"nationality,omitempty"`

	// 经验与体能（冷启动 / 硬约束）
	ExperienceLevel    ExperienceLevel `json:"experience_level"`
	FitnessLevel       FitnessLevel    `json:"fitness_level"`
	AltitudeExperience int             `json:"altitude_experience"` // 已到达过的最高海拔，米

	// 预算与时间（硬约束 + 软惩罚）
	BudgetMin     float64 `json:"budget_min,omitempty"`
	BudgetMax     float64 `json:"budget_max"`
	AvailableDays int     `json:"available_days"`

	// 兴趣画像，各维度 0..1
	CulturalInterest  float64 `json:"cultural_interest"`
	NatureInterest    float64 `json:"nature_interest"`
	AdventureInterest float64 `json:"adventure_interest"`

	// 偏好
	PreferredSeasons        []string `json:"preferred_seasons,omitempty"`
	AccommodationPreference string   `json:"accommodation_preference,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// NewUserProfile 创建一个带默认值的用户画像（注册接口的缺省语义）。
func NewUserProfile(id int64) *UserProfile {
	return &UserProfile{
		ID:                id,
		ExperienceLevel:   ExperienceBeginner,
		FitnessLevel:      FitnessModerate,
		BudgetMax:         5000,
		AvailableDays:     14,
		CulturalInterest:  0.5,
		NatureInterest:    0.5,
		AdventureInterest: 0.5,
		CreatedAt:         time.Now(),
	}
}

// SeasonSet 返回偏好季节的去重集合。空集合表示"无约束"。
func (p *UserProfile) SeasonSet() map[string]struct{} {
	return seasonSet(p.PreferredSeasons)
}
