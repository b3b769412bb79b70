package core

import "github.com/jibmusil/newsrec/pkg/utils"

// Item 是推荐链路中的统一承载结构：文章、分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID      int64
	Article *Article
	Score   float64
	Meta    map[string]any
	Labels  map[string]utils.Label
}

func NewItem(article *Article) *Item {
	return &Item{
		ID:      article.ID,
		Article: article,
		Score:   0,
		Meta:    make(map[string]any),
		Labels:  make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}

// Articles 把 Item 列表还原成文章列表，保持顺序。
func Articles(items []*Item) []*Article {
	out := make([]*Article, 0, len(items))
	for _, it := range items {
		if it == nil || it.Article == nil {
			continue
		}
		out = append(out, it.Article)
	}
	return out
}
