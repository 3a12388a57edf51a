package filter

import (
	"context"

	"github.com/trekware/trekkit/core"
)

// Filter 是硬约束的抽象接口：对 (用户, 线路) 做 pass/fail 裁决。
// 返回 true 表示应该过滤（线路不进入评分），false 表示保留。
//
// 硬约束在任何评分策略之前执行；被过滤的线路绝不会被打分或展示。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断线路是否应该对该用户过滤掉
	ShouldFilter(ctx context.Context, user *core.UserProfile, trek *core.Trek) (bool, error)
}

// Passes 依次执行一组过滤器，返回线路是否全部通过。
// 单个过滤器出错时跳过该过滤器（不过滤也不中断），与链路上
// "过滤器故障不放大为请求故障"的策略一致。
func Passes(ctx context.Context, filters []Filter, user *core.UserProfile, trek *core.Trek) bool {
	for _, f := range filters {
		drop, err := f.ShouldFilter(ctx, user, trek)
		if err != nil {
			continue
		}
		if drop {
			return false
		}
	}
	return true
}
