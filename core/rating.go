package core

import "time"

// Rating 是一条用户对线路的评分事实，仅被协同策略消费。
// 取值范围 0.5..5.0；Review 为可选的自由文本。
type Rating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TrekID    int64     `json:"trek_id"`
	Value     float64   `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
