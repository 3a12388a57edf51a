package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/trekware/trekkit/core"
)

// Redis 键布局：
//
//	users / treks                  -- Hash，field 为 ID 十进制串，value 为 JSON 记录
//	ratings:user:<id>              -- List，JSON 评分，按写入顺序
//	ratings:trek:<id>              -- List，JSON 评分，按写入顺序
//	seq:user / seq:trek / seq:rating -- 自增 ID 计数器
const (
	keyUsers      = "users"
	keyTreks      = "treks"
	keySeqUser    = "seq:user"
	keySeqTrek    = "seq:trek"
	keySeqRating  = "seq:rating"
	keyRatingUser = "ratings:user:"
	keyRatingTrek = "ratings:trek:"
)

// Redis 是 Redis 实现的 RecordStore，生产环境常用。
//
// Hash 的 field 顺序不保证，读取后按 ID 升序排序作为稳定的人群/目录顺序
//（与导入时的自增 ID 顺序一致）。
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Users(ctx context.Context) ([]*core.UserProfile, error) {
	raw, err := r.client.HGetAll(ctx, keyUsers).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", keyUsers, err)
	}
	out := make([]*core.UserProfile, 0, len(raw))
	for _, data := range raw {
		var u core.UserProfile
		if err := json.Unmarshal([]byte(data), &u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Redis) UserByID(ctx context.Context, id int64) (*core.UserProfile, error) {
	data, err := r.client.HGet(ctx, keyUsers, formatID(id)).Result()
	if err == redis.Nil {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget user %d: %w", id, err)
	}
	var u core.UserProfile
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, fmt.Errorf("decode user %d: %w", id, err)
	}
	return &u, nil
}

func (r *Redis) Treks(ctx context.Context) ([]*core.Trek, error) {
	raw, err := r.client.HGetAll(ctx, keyTreks).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", keyTreks, err)
	}
	out := make([]*core.Trek, 0, len(raw))
	for _, data := range raw {
		var t core.Trek
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("decode trek: %w", err)
		}
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Redis) TrekByID(ctx context.Context, id int64) (*core.Trek, error) {
	data, err := r.client.HGet(ctx, keyTreks, formatID(id)).Result()
	if err == redis.Nil {
		return nil, core.ErrTrekNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget trek %d: %w", id, err)
	}
	var t core.Trek
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, fmt.Errorf("decode trek %d: %w", id, err)
	}
	return &t, nil
}

func (r *Redis) RatingsByUser(ctx context.Context, userID int64) ([]*core.Rating, error) {
	return r.ratingList(ctx, keyRatingUser+formatID(userID))
}

func (r *Redis) RatingsByTrek(ctx context.Context, trekID int64) ([]*core.Rating, error) {
	return r.ratingList(ctx, keyRatingTrek+formatID(trekID))
}

func (r *Redis) ratingList(ctx context.Context, key string) ([]*core.Rating, error) {
	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange %s: %w", key, err)
	}
	out := make([]*core.Rating, 0, len(raw))
	for _, data := range raw {
		var rating core.Rating
		if err := json.Unmarshal([]byte(data), &rating); err != nil {
			return nil, fmt.Errorf("decode rating: %w", err)
		}
		out = append(out, &rating)
	}
	return out, nil
}

func (r *Redis) SaveUser(ctx context.Context, u *core.UserProfile) error {
	if u.ID == 0 {
		id, err := r.client.Incr(ctx, keySeqUser).Result()
		if err != nil {
			return fmt.Errorf("redis incr %s: %w", keySeqUser, err)
		}
		u.ID = id
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user %d: %w", u.ID, err)
	}
	return r.client.HSet(ctx, keyUsers, formatID(u.ID), data).Err()
}

func (r *Redis) SaveTrek(ctx context.Context, t *core.Trek) error {
	if t.ID == 0 {
		id, err := r.client.Incr(ctx, keySeqTrek).Result()
		if err != nil {
			return fmt.Errorf("redis incr %s: %w", keySeqTrek, err)
		}
		t.ID = id
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode trek %d: %w", t.ID, err)
	}
	return r.client.HSet(ctx, keyTreks, formatID(t.ID), data).Err()
}

func (r *Redis) SaveRating(ctx context.Context, rating *core.Rating) error {
	if rating.ID == 0 {
		id, err := r.client.Incr(ctx, keySeqRating).Result()
		if err != nil {
			return fmt.Errorf("redis incr %s: %w", keySeqRating, err)
		}
		rating.ID = id
	}
	data, err := json.Marshal(rating)
	if err != nil {
		return fmt.Errorf("encode rating %d: %w", rating.ID, err)
	}
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, keyRatingUser+formatID(rating.UserID), data)
	pipe.RPush(ctx, keyRatingTrek+formatID(rating.TrekID), data)
	_, err = pipe.Exec(ctx)
	return err
}

// Snapshot 把三类记录一次性拉到内存，后续评分全程不再回查 Redis。
// 注意这不是跨键事务：极端情况下可能看到"用户已写入、评分尚未写入"的
// 中间态，但不会出现半条记录。
func (r *Redis) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	users, err := r.Users(ctx)
	if err != nil {
		return nil, err
	}
	treks, err := r.Treks(ctx)
	if err != nil {
		return nil, err
	}

	ratings := make([]*core.Rating, 0)
	for _, u := range users {
		rs, err := r.RatingsByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rs...)
	}

	return core.NewSnapshot(users, treks, ratings), nil
}

func (r *Redis) Close() error { return r.client.Close() }

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

var _ core.RecordStore = (*Redis)(nil)
