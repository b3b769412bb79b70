package recall

import (
	"context"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/pkg/utils"
)

// Trending 是全局热门召回源：人气降序、发布时间降序兜底。
// 它既是冷启动兜底（无画像、无交互的用户），也可以单独作为
// 非个性化的热门流使用。
type Trending struct {
	Articles core.ArticleStore
}

func (r *Trending) Name() string { return "recall.trending" }

func (r *Trending) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Articles == nil {
		return nil, nil
	}

	limit := rctx.Limit
	if limit <= 0 {
		limit = 20
	}

	articles, err := r.Articles.FindTrending(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(articles))
	for _, a := range articles {
		it := core.NewItem(a)
		it.PutLabel("recall_source", utils.Label{Value: "trending", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
