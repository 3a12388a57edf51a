package core

import "strings"

// Difficulty 是四档有序的线路难度。
type Difficulty string

const (
	DifficultyEasy     Difficulty = "Easy"
	DifficultyModerate Difficulty = "Moderate"
	DifficultyHard     Difficulty = "Hard"
	DifficultyVeryHard Difficulty = "Very Hard"
)

// Tier 返回难度序数（1..4），未识别取中档 2（与画像侧的宽松策略一致）。
func (d Difficulty) Tier() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyModerate:
		return 2
	case DifficultyHard:
		return 3
	case DifficultyVeryHard:
		return 4
	default:
		return 2
	}
}

// Trek 是目录中的一条多日徒步线路。
// 目录加载时创建，一次评分会话内视为不可变。
type Trek struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Region     string     `json:"region,omitempty"`
	Difficulty Difficulty `json:"difficulty"`

	DurationDays int      `json:"duration_days"`
	MaxAltitude  int      `json:"max_altitude"` // 最高点海拔，米
	CostMin      float64  `json:"cost_min"`
	CostMax      float64  `json:"cost_max"`
	BestSeasons  []string `json:"best_seasons,omitempty"`

	// 领域分，各维度 0..1；0 视为未填写，读取时按 0.5 兜底
	CulturalScore  float64 `json:"cultural_score"`
	NatureScore    float64 `json:"nature_score"`
	AdventureScore float64 `json:"adventure_score"`

	AccommodationType string `json:"accommodation_type,omitempty"`
	PermitRequired    bool   `json:"permit_required"`
	GuideRequired     bool   `json:"guide_required"`
	PhysicalFitness   string `json:"physical_fitness,omitempty"`
	TechnicalSkills   string `json:"technical_skills,omitempty"`

	Description string  `json:"description,omitempty"`
	Highlights  string  `json:"highlights,omitempty"`
	AvgRating   float64 `json:"avg_rating,omitempty"`
	RatingCount int     `json:"rating_count,omitempty"`
}

// CulturalOrDefault 返回文化分，未填写（0）时按 0.5 兜底。
func (t *Trek) CulturalOrDefault() float64 { return scoreOrDefault(t.CulturalScore) }

// NatureOrDefault 返回自然分，未填写时按 0.5 兜底。
func (t *Trek) NatureOrDefault() float64 { return scoreOrDefault(t.NatureScore) }

// AdventureOrDefault 返回探险分，未填写时按 0.5 兜底。
func (t *Trek) AdventureOrDefault() float64 { return scoreOrDefault(t.AdventureScore) }

func scoreOrDefault(v float64) float64 {
	if v == 0 {
		return 0.5
	}
	return v
}

// SeasonSet 返回最佳季节的去重集合。空集合表示"无约束"。
func (t *Trek) SeasonSet() map[string]struct{} {
	return seasonSet(t.BestSeasons)
}

// seasonSet 把季节 token 列表转为集合，统一做 trim，忽略空串。
func seasonSet(seasons []string) map[string]struct{} {
	set := make(map[string]struct{}, len(seasons))
	for _, s := range seasons {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}
