package core

import "context"

// RecordStore 是用户/线路/评分的存储领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 评分引擎只读：策略本身绝不写存储，写入只服务于 API / 导入
//
// 实现：
//   - store.Memory 实现此接口（测试 / 开发 / 原型）
//   - store.Redis 实现此接口（生产）
type RecordStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Users 返回全部用户，顺序即"人群顺序"（协同策略的平手裁决顺序）
	Users(ctx context.Context) ([]*UserProfile, error)

	// UserByID 按 ID 读取用户；不存在返回 ErrUserNotFound
	UserByID(ctx context.Context, id int64) (*UserProfile, error)

	// Treks 返回全部线路，顺序即"目录顺序"（各策略的平手裁决顺序）
	Treks(ctx context.Context) ([]*Trek, error)

	// TrekByID 按 ID 读取线路；不存在返回 ErrTrekNotFound
	TrekByID(ctx context.Context, id int64) (*Trek, error)

	// RatingsByUser 返回某用户的全部评分
	RatingsByUser(ctx context.Context, userID int64) ([]*Rating, error)

	// RatingsByTrek 返回某线路收到的全部评分
	RatingsByTrek(ctx context.Context, trekID int64) ([]*Rating, error)

	// SaveUser 写入用户；ID 为 0 时由存储分配
	SaveUser(ctx context.Context, u *UserProfile) error

	// SaveTrek 写入线路；ID 为 0 时由存储分配
	SaveTrek(ctx context.Context, t *Trek) error

	// SaveRating 写入评分；ID 为 0 时由存储分配
	SaveRating(ctx context.Context, r *Rating) error

	// Snapshot 构建一次评分请求所需的只读快照（见 Snapshot）
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Close 关闭连接/释放资源
	Close() error
}
