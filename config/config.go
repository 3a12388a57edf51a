// Package config 定义进程配置（支持 YAML），并负责快速失败的校验：
// 权重和非正、未知存储类型、非法分段阈值都在启动期报错，
// 绝不带病进入评分流程。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trekware/trekkit/core"
	"github.com/trekware/trekkit/explain"
	"github.com/trekware/trekkit/strategy"
)

// Config 是进程配置根结构。
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Catalog CatalogConfig `yaml:"catalog"`
	Feast   FeastConfig   `yaml:"feast"`
	Engine  EngineConfig  `yaml:"engine"`
}

// ServerConfig 是 HTTP 服务配置。
type ServerConfig struct {
	Addr      string `yaml:"addr"`       // 监听地址，默认 ":8080"
	StaticDir string `yaml:"static_dir"` // 前端静态资源目录，空则不提供
}

// StoreConfig 选择存储后端。
type StoreConfig struct {
	Kind  string      `yaml:"kind"` // memory | redis
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// CatalogConfig 是线路目录的导入配置。
type CatalogConfig struct {
	CSVPath string `yaml:"csv_path"` // 空则跳过导入
}

// FeastConfig 是可选的在线特征仓库配置。
type FeastConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	Project     string   `yaml:"project"`
	FeatureRefs []string `yaml:"feature_refs"`
}

// EngineConfig 是推荐引擎配置。
type EngineConfig struct {
	// TopK 是请求未指定条数时的默认返回条数
	TopK int `yaml:"top_k"`

	// Blend 是混合策略的基础配比；分段配比缺席时兜底
	Blend strategy.BlendWeights `yaml:"blend"`

	// Segments 按评分条数分段覆盖混合配比（新用户冷启动少用协同）
	Segments SegmentConfig `yaml:"segments"`

	// DiversityLambda 是混合结果按地区做多样性衰减的系数；0 表示关闭
	DiversityLambda float64 `yaml:"diversity_lambda"`

	// Knowledge 是知识策略四个子规则的权重
	Knowledge strategy.KnowledgeWeights `yaml:"knowledge"`

	// Explanation 是解释生成器七个特征贡献的权重
	Explanation explain.Weights `yaml:"explanation"`

	// EligibilityRules 是附加的 CEL 准入规则，叠加在标准硬约束之后
	EligibilityRules []string `yaml:"eligibility_rules"`
}

// SegmentConfig 按用户活跃度（评分条数）分段选择混合配比。
//
// 分段：0 条 → New；1..CasualThreshold → Casual；
// ..RegularThreshold → Regular；更多 → Expert。
// 某段配比为零值时回落到 Blend 基础配比。
type SegmentConfig struct {
	CasualThreshold  int `yaml:"casual_threshold"`  // 默认 5
	RegularThreshold int `yaml:"regular_threshold"` // 默认 15

	New     strategy.BlendWeights `yaml:"new"`
	Casual  strategy.BlendWeights `yaml:"casual"`
	Regular strategy.BlendWeights `yaml:"regular"`
	Expert  strategy.BlendWeights `yaml:"expert"`
}

// Default 返回可直接运行的默认配置（内存存储，无目录导入）。
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Store:  StoreConfig{Kind: "memory"},
		Engine: DefaultEngine(),
	}
}

// DefaultEngine 返回引擎默认配置。
// 分段配比沿用线上人群的标定值：越活跃的用户越吃协同信号。
func DefaultEngine() EngineConfig {
	return EngineConfig{
		TopK:  10,
		Blend: strategy.DefaultBlendWeights(),
		Segments: SegmentConfig{
			CasualThreshold:  5,
			RegularThreshold: 15,
			New:              strategy.BlendWeights{Content: 0.5, Collaborative: 0.1, Knowledge: 0.4},
			Casual:           strategy.BlendWeights{Content: 0.4, Collaborative: 0.3, Knowledge: 0.3},
			Regular:          strategy.BlendWeights{Content: 0.3, Collaborative: 0.5, Knowledge: 0.2},
			Expert:           strategy.BlendWeights{Content: 0.2, Collaborative: 0.7, Knowledge: 0.1},
		},
		DiversityLambda: 0.7,
		Knowledge:       strategy.DefaultKnowledgeWeights(),
		Explanation:     explain.DefaultWeights(),
	}
}

// LoadFromYAML 从 YAML 文件加载配置，未填的字段取默认值。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	cfg.Engine = DefaultEngine()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置。配置错误必须在启动期暴露。
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case "", "memory":
	case "redis":
		if c.Store.Redis.Addr == "" {
			return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
				"config: store.redis.addr is required for the redis store")
		}
	default:
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			fmt.Sprintf("config: unknown store kind %q (supported: memory, redis)", c.Store.Kind))
	}

	return c.Engine.Validate()
}

// Validate 校验引擎配置：所有参与混合的权重组都必须和为正。
func (e *EngineConfig) Validate() error {
	if e.TopK < 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			"config: engine.top_k must not be negative")
	}

	for name, w := range map[string]strategy.BlendWeights{
		"engine.blend":            e.Blend,
		"engine.segments.new":     e.Segments.New,
		"engine.segments.casual":  e.Segments.Casual,
		"engine.segments.regular": e.Segments.Regular,
		"engine.segments.expert":  e.Segments.Expert,
	} {
		if w == (strategy.BlendWeights{}) {
			continue // 零值段回落到基础配比
		}
		if _, err := w.Normalize(); err != nil {
			return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
				fmt.Sprintf("config: %s: weights must sum to a positive value", name))
		}
	}

	if e.Segments.CasualThreshold < 0 || e.Segments.RegularThreshold < e.Segments.CasualThreshold {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			"config: engine.segments thresholds must satisfy 0 <= casual <= regular")
	}

	if e.DiversityLambda < 0 || e.DiversityLambda > 1 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			"config: engine.diversity_lambda must be in [0, 1]")
	}

	return nil
}
