package core

// Snapshot 是一次评分请求范围内的只读数据视图。
//
// 两个动机：
//   - 读一致性：一次混合推荐过程中不允许看到并发写入（每个请求拿一份快照）
//   - 避免迭代中途回查存储：线路按 ID 的查找在快照构建时一次性建好索引
//
// 快照持有的都是指针，约定：快照存续期间任何人不得修改其指向的记录。
type Snapshot struct {
	Users []*UserProfile
	Treks []*Trek

	trekByID      map[int64]*Trek
	ratingsByUser map[int64][]*Rating
}

// NewSnapshot 由三类记录构建快照。Users/Treks 的切片顺序被原样保留，
// 作为各策略平手时的裁决顺序。
func NewSnapshot(users []*UserProfile, treks []*Trek, ratings []*Rating) *Snapshot {
	s := &Snapshot{
		Users:         users,
		Treks:         treks,
		trekByID:      make(map[int64]*Trek, len(treks)),
		ratingsByUser: make(map[int64][]*Rating),
	}
	for _, t := range treks {
		s.trekByID[t.ID] = t
	}
	for _, r := range ratings {
		s.ratingsByUser[r.UserID] = append(s.ratingsByUser[r.UserID], r)
	}
	return s
}

// TrekByID 按 ID 查线路，不存在返回 nil。
func (s *Snapshot) TrekByID(id int64) *Trek {
	return s.trekByID[id]
}

// RatingsOf 返回某用户的评分（可能为空）。
func (s *Snapshot) RatingsOf(userID int64) []*Rating {
	return s.ratingsByUser[userID]
}

// HasRatings 判断某用户是否有至少一条评分。
func (s *Snapshot) HasRatings(userID int64) bool {
	return len(s.ratingsByUser[userID]) > 0
}

// RatedSet 返回某用户已评分过的线路 ID 集合。
func (s *Snapshot) RatedSet(userID int64) map[int64]struct{} {
	rated := make(map[int64]struct{})
	for _, r := range s.ratingsByUser[userID] {
		rated[r.TrekID] = struct{}{}
	}
	return rated
}
