package recall

import (
	"context"

	"github.com/jibmusil/newsrec/core"
)

// Source 表示一个可复用的召回源（偏好/协同过滤/内容/热门/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
//
// 约定：
//   - 候选不足或没有个性化信号时返回空列表，不返回错误
//   - 存储故障返回错误，由 Fanout 降级为空列表，不中断整个请求
//   - 返回顺序即源内排名（下标 0 最优），融合按位置衰减计分
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
