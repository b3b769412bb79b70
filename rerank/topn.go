package rerank

import (
	"context"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在融合/排序后截取前 N 个文章。
//
// 使用场景：
//   - 融合后只返回 Top 10/20/50 个结果
//   - 配合多样性重排使用
type TopNNode struct {
	// N 要保留的数量。N <= 0 时取 rctx.Limit；仍 <= 0 则不截断。
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.Limit
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
