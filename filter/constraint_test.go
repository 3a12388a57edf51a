package filter

import (
	"context"
	"testing"

	"github.com/trekware/trekkit/core"
)

func TestBudgetFilter(t *testing.T) {
	tests := []struct {
		name      string
		budgetMax float64
		costMin   float64
		want      bool
	}{
		{"最低花费在预算内", 2000, 1500, false},
		{"最低花费等于预算", 2000, 2000, false},
		{"最低花费超预算", 2000, 2001, true},
		{"预算未填写不做约束", 0, 99999, false},
		{"花费未填写不做约束", 100, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &core.UserProfile{ID: 1, BudgetMax: tt.budgetMax}
			trek := &core.Trek{ID: 1, CostMin: tt.costMin}
			got, err := BudgetFilter{}.ShouldFilter(context.Background(), user, trek)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDurationFilter(t *testing.T) {
	tests := []struct {
		name          string
		availableDays int
		durationDays  int
		want          bool
	}{
		{"时长在可用天数内", 14, 12, false},
		{"时长恰好用满", 14, 14, false},
		{"时长超出", 14, 15, true},
		{"可用天数未填写不做约束", 0, 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &core.UserProfile{ID: 1, AvailableDays: tt.availableDays}
			trek := &core.Trek{ID: 1, DurationDays: tt.durationDays}
			got, err := DurationFilter{}.ShouldFilter(context.Background(), user, trek)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDifficultyGapFilter(t *testing.T) {
	tests := []struct {
		name       string
		experience core.ExperienceLevel
		difficulty core.Difficulty
		want       bool
	}{
		{"同档通过", core.ExperienceBeginner, core.DifficultyEasy, false},
		{"高一档放行", core.ExperienceBeginner, core.DifficultyModerate, false},
		{"高两档过滤", core.ExperienceBeginner, core.DifficultyHard, true},
		{"高三档过滤", core.ExperienceBeginner, core.DifficultyVeryHard, true},
		{"中级挑 Hard 放行", core.ExperienceIntermediate, core.DifficultyHard, false},
		{"中级挑 Very Hard 过滤", core.ExperienceIntermediate, core.DifficultyVeryHard, true},
		{"专家无上限", core.ExperienceExpert, core.DifficultyVeryHard, false},
		{"未识别经验按中档", "Unknown", core.DifficultyVeryHard, true},
		{"未识别难度按中档", core.ExperienceBeginner, "Nightmare", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &core.UserProfile{ID: 1, ExperienceLevel: tt.experience}
			trek := &core.Trek{ID: 1, Difficulty: tt.difficulty}
			got, err := DifficultyGapFilter{}.ShouldFilter(context.Background(), user, trek)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPasses(t *testing.T) {
	ctx := context.Background()
	filters := HardConstraints()

	user := &core.UserProfile{
		ID:              1,
		ExperienceLevel: core.ExperienceIntermediate,
		BudgetMax:       1500,
		AvailableDays:   14,
	}

	tests := []struct {
		name string
		trek *core.Trek
		want bool
	}{
		{
			name: "全部通过",
			trek: &core.Trek{ID: 1, Difficulty: core.DifficultyModerate, CostMin: 1200, DurationDays: 12},
			want: true,
		},
		{
			name: "预算挡下",
			trek: &core.Trek{ID: 2, Difficulty: core.DifficultyModerate, CostMin: 1600, DurationDays: 12},
			want: false,
		},
		{
			name: "天数挡下",
			trek: &core.Trek{ID: 3, Difficulty: core.DifficultyModerate, CostMin: 1200, DurationDays: 21},
			want: false,
		},
		{
			name: "难度挡下",
			trek: &core.Trek{ID: 4, Difficulty: core.DifficultyVeryHard, CostMin: 1200, DurationDays: 12},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Passes(ctx, filters, user, tt.trek); got != tt.want {
				t.Errorf("Passes() = %v, want %v", got, tt.want)
			}
		})
	}
}
