// Package trekkit 是一个徒步线路推荐引擎（Trek Recommender Kit）。
//
// 设计要点：
// - Strategy-first: 四个评分策略（内容 / 协同 / 知识规则 / 混合）共享同一份只读快照
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 后处理可组合: 多样性重排、TopN 截断等通过 Node 串联，自定义 Node 即可插拔扩展
package trekkit

import (
	"github.com/trekware/trekkit/pipeline"
	"github.com/trekware/trekkit/strategy"
)

// 轻量 facade：便于用户直接 import "trekkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Strategy = strategy.Strategy
