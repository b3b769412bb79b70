package rerank

import (
	"context"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/pipeline"
)

// Diversity 是一个按分类限流的多样性重排节点：每个分类最多保留
// MaxPerCategory 篇，避免推荐流被单一高偏好分类刷屏。
// 超出配额的文章被丢弃，整体顺序保持不变。
type Diversity struct {
	// MaxPerCategory 每个分类最多保留的文章数，<= 0 时取默认 3
	MaxPerCategory int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	maxPer := n.MaxPerCategory
	if maxPer <= 0 {
		maxPer = 3
	}

	counts := make(map[int64]int)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Article == nil {
			continue
		}
		cat := it.Article.CategoryID
		if counts[cat] >= maxPer {
			continue
		}
		counts[cat]++
		out = append(out, it)
	}
	return out, nil
}
