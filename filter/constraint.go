package filter

import (
	"context"

	"github.com/trekware/trekkit/core"
)

// BudgetFilter 过滤最低花费超过用户预算上限的线路。
// 预算上限为 0 视为未填写，不做约束。
type BudgetFilter struct{}

func (BudgetFilter) Name() string { return "filter.budget" }

func (BudgetFilter) ShouldFilter(_ context.Context, user *core.UserProfile, trek *core.Trek) (bool, error) {
	if trek.CostMin <= 0 || user.BudgetMax <= 0 {
		return false, nil
	}
	return trek.CostMin > user.BudgetMax, nil
}

// DurationFilter 过滤时长超过用户可用天数的线路。
// 可用天数为 0 视为未填写，不做约束。
type DurationFilter struct{}

func (DurationFilter) Name() string { return "filter.duration" }

func (DurationFilter) ShouldFilter(_ context.Context, user *core.UserProfile, trek *core.Trek) (bool, error) {
	if trek.DurationDays <= 0 || user.AvailableDays <= 0 {
		return false, nil
	}
	return trek.DurationDays > user.AvailableDays, nil
}

// DifficultyGapFilter 过滤难度超出用户经验一档以上的线路。
// "高一档"允许（进阶挑战），"高两档及以上"过滤。
// 双侧的未识别档位都由 Tier 兜底为中档，档案不全不报错。
type DifficultyGapFilter struct{}

func (DifficultyGapFilter) Name() string { return "filter.difficulty_gap" }

func (DifficultyGapFilter) ShouldFilter(_ context.Context, user *core.UserProfile, trek *core.Trek) (bool, error) {
	return trek.Difficulty.Tier() > user.ExperienceLevel.Tier()+1, nil
}

// HardConstraints 返回标准的硬约束链：预算、天数、难度跨度。
// 内容策略与知识策略共用同一条链；协同策略不走硬约束
// （同伴评分视为已被验证过的信号）。
func HardConstraints() []Filter {
	return []Filter{BudgetFilter{}, DurationFilter{}, DifficultyGapFilter{}}
}
