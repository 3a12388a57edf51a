package feature

import (
	"context"

	"github.com/trekware/trekkit/core"
)

// Provider 是在线特征提供者的领域接口：在评分前把特征仓库中的最新
// 用户特征叠加到画像上（兴趣分、海拔经验等会随行为更新的维度）。
//
// 约定：
//   - Enrich 返回叠加后的副本，绝不修改传入的画像（快照不可变约定）
//   - 提供者不可用时返回错误，由调用方决定是否降级为存储中的画像
type Provider interface {
	// Name 返回提供者名称（用于日志/监控）
	Name() string

	// Enrich 返回叠加了在线特征的画像副本
	Enrich(ctx context.Context, u *core.UserProfile) (*core.UserProfile, error)

	// Close 关闭连接/释放资源
	Close() error
}
