package store

import (
	"context"
	"sync"
	"time"

	"github.com/trekware/trekkit/core"
)

// Memory 是内存实现的 RecordStore，用于测试/开发/原型。
// 进程重启后数据丢失。
//
// 插入顺序被保留：Users/Treks 的返回顺序即写入顺序，
// 这是各策略平手裁决所依赖的人群/目录顺序。
type Memory struct {
	mu sync.RWMutex

	users   map[int64]*core.UserProfile
	userIDs []int64

	treks   map[int64]*core.Trek
	trekIDs []int64

	ratings       []*core.Rating
	ratingsByUser map[int64][]*core.Rating
	ratingsByTrek map[int64][]*core.Rating

	nextUserID   int64
	nextTrekID   int64
	nextRatingID int64
}

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[int64]*core.UserProfile),
		treks:         make(map[int64]*core.Trek),
		ratingsByUser: make(map[int64][]*core.Rating),
		ratingsByTrek: make(map[int64][]*core.Rating),
	}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Users(ctx context.Context) ([]*core.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.UserProfile, 0, len(m.userIDs))
	for _, id := range m.userIDs {
		out = append(out, m.users[id])
	}
	return out, nil
}

func (m *Memory) UserByID(ctx context.Context, id int64) (*core.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return u, nil
}

func (m *Memory) Treks(ctx context.Context) ([]*core.Trek, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Trek, 0, len(m.trekIDs))
	for _, id := range m.trekIDs {
		out = append(out, m.treks[id])
	}
	return out, nil
}

func (m *Memory) TrekByID(ctx context.Context, id int64) (*core.Trek, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.treks[id]
	if !ok {
		return nil, core.ErrTrekNotFound
	}
	return t, nil
}

func (m *Memory) RatingsByUser(ctx context.Context, userID int64) ([]*core.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rs := m.ratingsByUser[userID]
	out := make([]*core.Rating, len(rs))
	copy(out, rs)
	return out, nil
}

func (m *Memory) RatingsByTrek(ctx context.Context, trekID int64) ([]*core.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rs := m.ratingsByTrek[trekID]
	out := make([]*core.Rating, len(rs))
	copy(out, rs)
	return out, nil
}

func (m *Memory) SaveUser(ctx context.Context, u *core.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.ID == 0 {
		m.nextUserID++
		u.ID = m.nextUserID
	} else if u.ID > m.nextUserID {
		m.nextUserID = u.ID
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if _, ok := m.users[u.ID]; !ok {
		m.userIDs = append(m.userIDs, u.ID)
	}
	m.users[u.ID] = u
	return nil
}

func (m *Memory) SaveTrek(ctx context.Context, t *core.Trek) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ID == 0 {
		m.nextTrekID++
		t.ID = m.nextTrekID
	} else if t.ID > m.nextTrekID {
		m.nextTrekID = t.ID
	}
	if _, ok := m.treks[t.ID]; !ok {
		m.trekIDs = append(m.trekIDs, t.ID)
	}
	m.treks[t.ID] = t
	return nil
}

func (m *Memory) SaveRating(ctx context.Context, r *core.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == 0 {
		m.nextRatingID++
		r.ID = m.nextRatingID
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.ratings = append(m.ratings, r)
	m.ratingsByUser[r.UserID] = append(m.ratingsByUser[r.UserID], r)
	m.ratingsByTrek[r.TrekID] = append(m.ratingsByTrek[r.TrekID], r)
	return nil
}

// Snapshot 在一次加锁内取出三类记录的一致视图。
// 切片是新分配的；记录指针共享，按"快照存续期间记录不可变"的约定使用。
func (m *Memory) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*core.UserProfile, 0, len(m.userIDs))
	for _, id := range m.userIDs {
		users = append(users, m.users[id])
	}
	treks := make([]*core.Trek, 0, len(m.trekIDs))
	for _, id := range m.trekIDs {
		treks = append(treks, m.treks[id])
	}
	ratings := make([]*core.Rating, len(m.ratings))
	copy(ratings, m.ratings)

	return core.NewSnapshot(users, treks, ratings), nil
}

func (m *Memory) Close() error { return nil }

var _ core.RecordStore = (*Memory)(nil)
