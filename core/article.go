package core

import "time"

// Article 是新闻文章的核心领域对象。
// 推荐链路只读取文章：写入（抓取、去重、打分）由外部摄取服务负责。
//
// 字段说明：
//   - Popularity: 非负实数，单调可调（VIEW/CLICK 会累加）
//   - Keywords: 无序关键词集合，内容召回的匹配依据
//   - Sentiment/FactCheck: 分析服务写入的附加分数，排序核心不使用，
//     但可以被规则过滤（filter.DSL）引用
type Article struct {
	ID          int64
	Title       string
	URL         string
	SourceName  string
	CategoryID  int64
	Popularity  float64
	PublishedAt time.Time
	Keywords    []string
	Sentiment   float64 // -1.0 ~ 1.0（负面 ~ 正面）
	FactCheck   float64 // 0.0 ~ 1.0（低 ~ 高）
}

// HasKeyword 检查文章关键词集合是否包含指定关键词。
func (a *Article) HasKeyword(keyword string) bool {
	for _, k := range a.Keywords {
		if k == keyword {
			return true
		}
	}
	return false
}

// Category 是新闻分类，只读引用数据，用于划分偏好与文章。
type Category struct {
	ID   int64
	Name string
}
