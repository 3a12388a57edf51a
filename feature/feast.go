package feature

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	feastsdk "github.com/feast-dev/feast/sdk/go"

	"github.com/trekware/trekkit/core"
)

// FeastProvider 是基于官方 Feast Go SDK 的在线特征提供者。
//
// 适用部署：兴趣画像由离线作业持续刷新并物化到 Feast 在线存储，
// 评分请求到达时按 user_id 拉取最新值叠加到档案画像上。
//
// 可叠加的特征（按 "view:name" 引用，name 决定落到哪个画像字段）：
//   - cultural_interest / nature_interest / adventure_interest
//   - altitude_experience
//
// 未配置或拉取不到的特征保持档案原值。
type FeastProvider struct {
	client *feastsdk.GrpcClient

	// Project 是 Feast 项目名
	Project string

	// FeatureRefs 是要拉取的特征引用列表，例如
	// ["trekker_profile:cultural_interest", "trekker_profile:altitude_experience"]
	FeatureRefs []string

	// EntityKey 是实体 ID 字段名，默认 "user_id"
	EntityKey string
}

// NewFeastProvider 创建 Feast gRPC 特征提供者。
func NewFeastProvider(host string, port int, project string, featureRefs []string) (*FeastProvider, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast grpc client: %w", err)
	}
	return &FeastProvider{
		client:      client,
		Project:     project,
		FeatureRefs: featureRefs,
		EntityKey:   "user_id",
	}, nil
}

func (p *FeastProvider) Name() string { return "feast" }

func (p *FeastProvider) Enrich(ctx context.Context, u *core.UserProfile) (*core.UserProfile, error) {
	if len(p.FeatureRefs) == 0 {
		return u, nil
	}

	entityKey := p.EntityKey
	if entityKey == "" {
		entityKey = "user_id"
	}

	resp, err := p.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: p.FeatureRefs,
		Entities: []feastsdk.Row{{entityKey: feastsdk.Int64Val(u.ID)}},
		Project:  p.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return u, nil
	}

	// 叠加到副本上，档案画像保持不变
	enriched := *u
	for _, ref := range p.FeatureRefs {
		val, ok := rows[0][ref]
		if !ok {
			continue
		}
		f, ok := valueToFloat(val)
		if !ok {
			continue
		}
		switch featureName(ref) {
		case "cultural_interest":
			enriched.CulturalInterest = f
		case "nature_interest":
			enriched.NatureInterest = f
		case "adventure_interest":
			enriched.AdventureInterest = f
		case "altitude_experience":
			enriched.AltitudeExperience = int(f)
		}
	}
	return &enriched, nil
}

func (p *FeastProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

// featureName 取特征引用 "view:name" 中的 name 部分。
func featureName(ref string) string {
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// valueToFloat 把 SDK 返回的特征值转为 float64。
// SDK 的值是 protobuf Value；对标量取其文本形式（形如 "double_val:0.7"）
// 再解析尾部数字，非标量一律放弃。
func valueToFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}

	s := strings.TrimSpace(fmt.Sprintf("%v", val))
	if i := strings.LastIndexAny(s, ": "); i >= 0 {
		s = s[i+1:]
	}
	f, err := strconv.ParseFloat(strings.Trim(s, `"`), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var _ Provider = (*FeastProvider)(nil)
