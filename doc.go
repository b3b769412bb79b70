// Package newsrec 是一个新闻个性化推荐引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - 三路召回: 偏好 / 协同过滤 / 内容相似并发执行，加权位置衰减融合
// - 反馈闭环: 交互落库后异步调整分类偏好画像，画像驱动下一次召回
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
package newsrec

import "github.com/jibmusil/newsrec/pipeline"

// 轻量 facade：便于用户直接 import "newsrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
