package rank

import (
	"context"
	"sort"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/pipeline"
	"github.com/jibmusil/newsrec/pkg/utils"
)

// DefaultWeights 是三路召回的默认融合权重。
// 偏好信号最强（用户自己表达过的兴趣），协同次之，内容最弱。
var DefaultWeights = map[string]float64{
	"recall.preference":    0.5,
	"recall.collaborative": 0.3,
	"recall.content":       0.2,
}

// Fusion 是加权位置衰减融合节点（weighted positional-decay fusion）。
//
// 算法：对长度为 n 的源列表 L（权重 w），下标 i（0 起）的文章获得
// 部分分 w × (1 − i/n)；同一篇文章出现在多个源时部分分相加；
// 最后按累计分降序输出。
//
// 确定性：融合对相同输入必然产出相同输出。累计分相同时按文章 ID
// 升序决胜——原始行为没有定义决胜规则，这里选定并固定下来。
//
// 输入约定：上游（recall.Fanout 的 union 合并）为每个 item 打了
// Meta["source"] / Meta["source_rank"] / Meta["source_size"]。
// 缺少这些元信息的 item 直接以自身 Score 参与累计。
type Fusion struct {
	// Weights 源名 -> 权重，nil 时使用 DefaultWeights
	Weights map[string]float64

	// Limit 输出上限，<= 0 时取 rctx.Limit
	Limit int
}

func (n *Fusion) Name() string        { return "rank.fusion" }
func (n *Fusion) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *Fusion) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return nil, nil
	}

	weights := n.Weights
	if weights == nil {
		weights = DefaultWeights
	}

	// 累计分，首个出现的 item 承载文章与标签
	scores := make(map[int64]float64, len(items))
	first := make(map[int64]*core.Item, len(items))
	order := make([]int64, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		partial := it.Score
		if src, ok := it.Meta["source"].(string); ok {
			rankIdx, _ := it.Meta["source_rank"].(int)
			size, _ := it.Meta["source_size"].(int)
			w := weights[src]
			if size > 0 {
				partial = w * (1.0 - float64(rankIdx)/float64(size))
			} else {
				partial = 0
			}
		}

		if existing, ok := first[it.ID]; ok {
			scores[it.ID] += partial
			// 合并标签，保留多源命中的痕迹
			for k, v := range it.Labels {
				existing.PutLabel(k, v)
			}
			continue
		}
		first[it.ID] = it
		scores[it.ID] = partial
		order = append(order, it.ID)
	}

	sort.Slice(order, func(i, j int) bool {
		si, sj := scores[order[i]], scores[order[j]]
		if si != sj {
			return si > sj
		}
		return order[i] < order[j]
	})

	limit := n.Limit
	if limit <= 0 {
		limit = rctx.Limit
	}
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		it := first[id]
		it.Score = scores[id]
		it.PutLabel("fused", utils.Label{Value: "positional_decay", Source: "fusion"})
		out = append(out, it)
	}
	return out, nil
}
