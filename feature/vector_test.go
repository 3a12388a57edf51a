package feature

import (
	"math"
	"testing"

	"github.com/trekware/trekkit/core"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUserVector(t *testing.T) {
	tests := []struct {
		name string
		user *core.UserProfile
		want Vector
	}{
		{
			name: "默认画像全部中档",
			user: core.NewUserProfile(1),
			want: Vector{
				DimExperience:        0.25,
				DimFitness:           0.5,
				DimAltitudeExp:       0.5,
				DimCulturalInterest:  0.5,
				DimNatureInterest:    0.5,
				DimAdventureInterest: 0.5,
			},
		},
		{
			name: "专家画像顶格",
			user: &core.UserProfile{
				ID:                 2,
				ExperienceLevel:    core.ExperienceExpert,
				FitnessLevel:       core.FitnessVeryHigh,
				AltitudeExperience: 6000,
				CulturalInterest:   1.0,
				NatureInterest:     1.0,
				AdventureInterest:  1.0,
			},
			want: Vector{
				DimExperience:        1.0,
				DimFitness:           1.0,
				DimAltitudeExp:       1.0,
				DimCulturalInterest:  1.0,
				DimNatureInterest:    1.0,
				DimAdventureInterest: 1.0,
			},
		},
		{
			name: "海拔经验超上限被截断",
			user: &core.UserProfile{
				ID:                 3,
				ExperienceLevel:    core.ExperienceIntermediate,
				FitnessLevel:       core.FitnessHigh,
				AltitudeExperience: 8848,
			},
			want: Vector{
				DimExperience:        0.5,
				DimFitness:           0.75,
				DimAltitudeExp:       1.0,
				DimCulturalInterest:  0,
				DimNatureInterest:    0,
				DimAdventureInterest: 0,
			},
		},
		{
			name: "未识别档位按中档兜底",
			user: &core.UserProfile{
				ID:              4,
				ExperienceLevel: "Jedi",
				FitnessLevel:    "Olympic",
			},
			want: Vector{
				DimExperience:        0.5,
				DimFitness:           0.5,
				DimAltitudeExp:       0,
				DimCulturalInterest:  0,
				DimNatureInterest:    0,
				DimAdventureInterest: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserVector(tt.user)
			if len(got) != len(tt.want) {
				t.Fatalf("维度数 = %d, want %d", len(got), len(tt.want))
			}
			for k, want := range tt.want {
				if !almostEqual(got[k], want) {
					t.Errorf("%s = %v, want %v", k, got[k], want)
				}
			}
		})
	}
}

func TestTrekVector(t *testing.T) {
	trek := &core.Trek{
		ID:             1,
		Name:           "Everest Base Camp",
		Difficulty:     core.DifficultyHard,
		MaxAltitude:    5364,
		CulturalScore:  0.8,
		NatureScore:    0.9,
		AdventureScore: 0.7,
	}

	got := TrekVector(trek)

	if !almostEqual(got[DimExperience], 0.75) {
		t.Errorf("experience = %v, want 0.75", got[DimExperience])
	}
	if !almostEqual(got[DimFitness], 0.75) {
		t.Errorf("fitness = %v, want 0.75", got[DimFitness])
	}
	if !almostEqual(got[DimAltitudeExp], 5364.0/6000.0) {
		t.Errorf("altitude_exp = %v, want %v", got[DimAltitudeExp], 5364.0/6000.0)
	}
	if !almostEqual(got[DimCulturalInterest], 0.8) {
		t.Errorf("cultural_interest = %v, want 0.8", got[DimCulturalInterest])
	}
}

func TestTrekVectorDefaults(t *testing.T) {
	// 海拔与领域分未填写时的兜底
	trek := &core.Trek{ID: 2, Name: "Mystery Trail", Difficulty: core.DifficultyEasy}

	got := TrekVector(trek)

	if !almostEqual(got[DimAltitudeExp], 0.5) {
		t.Errorf("缺省海拔 = %v, want 0.5", got[DimAltitudeExp])
	}
	if !almostEqual(got[DimCulturalInterest], 0.5) {
		t.Errorf("缺省文化分 = %v, want 0.5", got[DimCulturalInterest])
	}
	if !almostEqual(got[DimExperience], 0.25) {
		t.Errorf("Easy 难度 = %v, want 0.25", got[DimExperience])
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
	}{
		{
			name: "自身相似度为 1",
			a:    Vector{"x": 0.5, "y": 0.3, "z": 0.8},
			b:    Vector{"x": 0.5, "y": 0.3, "z": 0.8},
			want: 1.0,
		},
		{
			name: "正交向量为 0",
			a:    Vector{"x": 1, "y": 0},
			b:    Vector{"x": 0, "y": 1},
			want: 0,
		},
		{
			name: "零向量退化为 0",
			a:    Vector{"x": 0, "y": 0},
			b:    Vector{"x": 1, "y": 1},
			want: 0,
		},
		{
			name: "双空向量为 0",
			a:    Vector{},
			b:    Vector{},
			want: 0,
		},
		{
			name: "key 集合不一致时缺失维度按 0",
			a:    Vector{"x": 1},
			b:    Vector{"y": 1},
			want: 0,
		},
		{
			name: "同方向不同模长仍为 1",
			a:    Vector{"x": 0.2, "y": 0.4},
			b:    Vector{"x": 0.1, "y": 0.2},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSymmetry(t *testing.T) {
	a := Vector{"x": 0.3, "y": 0.7, "z": 0.1}
	b := Vector{"x": 0.9, "y": 0.2, "z": 0.5}
	ab, ba := Cosine(a, b), Cosine(b, a)
	if !almostEqual(ab, ba) {
		t.Errorf("Cosine 不对称: %v vs %v", ab, ba)
	}
}

func TestUserTrekVectorSameDims(t *testing.T) {
	// 两侧产出同一组维度名是相似度计算的前提
	uv := UserVector(core.NewUserProfile(1))
	tv := TrekVector(&core.Trek{ID: 1, Name: "A", Difficulty: core.DifficultyModerate})

	if len(uv) != len(tv) {
		t.Fatalf("维度数不一致: user=%d trek=%d", len(uv), len(tv))
	}
	for k := range uv {
		if _, ok := tv[k]; !ok {
			t.Errorf("线路向量缺少维度 %s", k)
		}
	}
}
