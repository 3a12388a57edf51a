package feature

import "github.com/trekware/trekkit/core"

// Vector 是用户或线路的特征向量：固定维度名到 [0,1] 取值的映射。
//
// 正确性不变式：任何一次相似度计算的两侧必须持有完全相同的 key 集合。
// UserVector 与 TrekVector 保证这一点——两者产出同一组维度名。
type Vector map[string]float64

// 特征维度名。两侧共用，顺序由相似度计算时的 key 排序决定。
const (
	DimExperience        = "experience"
	DimFitness           = "fitness"
	DimAltitudeExp       = "altitude_exp"
	DimCulturalInterest  = "cultural_interest"
	DimNatureInterest    = "nature_interest"
	DimAdventureInterest = "adventure_interest"
)

// maxAltitudeScale 是海拔维度的归一化上限（米）：尼泊尔徒步线路的实际天花板。
const maxAltitudeScale = 6000.0

// ordinalScale 把 1..4 的序数映射到 {0.25, 0.5, 0.75, 1.0}。
func ordinalScale(tier int) float64 {
	return float64(tier) * 0.25
}

// UserVector 把用户画像映射为特征向量。纯函数，无副作用。
// 四档序数按 {0.25,0.5,0.75,1.0} 取值，未识别档位由 Tier 兜底为中档。
func UserVector(u *core.UserProfile) Vector {
	return Vector{
		DimExperience:        ordinalScale(u.ExperienceLevel.Tier()),
		DimFitness:           ordinalScale(u.FitnessLevel.Tier()),
		DimAltitudeExp:       clamp01(float64(u.AltitudeExperience) / maxAltitudeScale),
		DimCulturalInterest:  u.CulturalInterest,
		DimNatureInterest:    u.NatureInterest,
		DimAdventureInterest: u.AdventureInterest,
	}
}

// TrekVector 把线路映射为与 UserVector 同维度的特征向量。
// 难度同时充当 experience 与 fitness 两个维度；领域分未填写按 0.5 兜底。
func TrekVector(t *core.Trek) Vector {
	altitude := 0.5
	if t.MaxAltitude > 0 {
		altitude = clamp01(float64(t.MaxAltitude) / maxAltitudeScale)
	}
	difficulty := ordinalScale(t.Difficulty.Tier())
	return Vector{
		DimExperience:        difficulty,
		DimFitness:           difficulty,
		DimAltitudeExp:       altitude,
		DimCulturalInterest:  t.CulturalOrDefault(),
		DimNatureInterest:    t.NatureOrDefault(),
		DimAdventureInterest: t.AdventureOrDefault(),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
