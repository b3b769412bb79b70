package core

import "time"

// InteractionKind 是用户与文章的交互类型。
type InteractionKind string

const (
	InteractionView    InteractionKind = "VIEW"    // 浏览
	InteractionClick   InteractionKind = "CLICK"   // 点击
	InteractionLike    InteractionKind = "LIKE"    // 点赞
	InteractionShare   InteractionKind = "SHARE"   // 分享
	InteractionSave    InteractionKind = "SAVE"    // 收藏
	InteractionDislike InteractionKind = "DISLIKE" // 不喜欢
)

// kindAdjustments 是交互类型到偏好调整量的固定映射表。
// 所有类型必须在表中出现：Adjustment 对未知类型返回 ok=false，
// 调用方据此丢弃而不是默默跳过。
var kindAdjustments = map[InteractionKind]float64{
	InteractionView:    0.01,
	InteractionClick:   0.05,
	InteractionLike:    0.10,
	InteractionShare:   0.15,
	InteractionSave:    0.20,
	InteractionDislike: -0.10,
}

// Adjustment 返回该交互类型对应的带符号偏好调整量。
func (k InteractionKind) Adjustment() (float64, bool) {
	adj, ok := kindAdjustments[k]
	return adj, ok
}

// Positive 判断交互是否为正向信号。
// 协同过滤与内容召回只采信 LIKE/SHARE/SAVE；VIEW/CLICK 太弱，
// DISLIKE 是负信号。
func (k InteractionKind) Positive() bool {
	switch k {
	case InteractionLike, InteractionShare, InteractionSave:
		return true
	}
	return false
}

// Valid 检查是否为已知交互类型。
func (k InteractionKind) Valid() bool {
	_, ok := kindAdjustments[k]
	return ok
}

// Interaction 是一条用户-文章交互记录，追加写入，落库后不再修改。
type Interaction struct {
	UserID             int64
	ArticleID          int64
	Kind               InteractionKind
	At                 time.Time
	ReadingTimeSeconds int // 可选，VIEW 时的阅读时长
}
