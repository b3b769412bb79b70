package recall

import (
	"context"
	"time"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/pkg/utils"
)

// 内容召回的默认参数。
const (
	// DefaultRecentDays 只看最近几天的正向交互
	DefaultRecentDays = 7

	// DefaultRecentInteractions 采信的近期正向交互上限
	DefaultRecentInteractions = 10

	// DefaultKeywordWindow 每个关键词扫描的近期文章窗口
	DefaultKeywordWindow = 50
)

// Content 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户最近喜欢过带某些关键词的文章，推荐带相同关键词的其他文章"
//
// 算法流程：
//  1. 取用户最近 7 天的正向交互（LIKE/SHARE/SAVE），最新优先，上限 10 条
//  2. 没有近期正向交互 → 返回空（兜底交给融合层）
//  3. 汇总这些文章的关键词并集，同时记录已交互文章作为排除集
//  4. 对每个关键词，在近期文章窗口内找包含该关键词且未交互过的文章
//  5. 跨关键词按首次出现去重，截断到 limit
type Content struct {
	Articles     core.ArticleStore
	Interactions core.InteractionStore

	// RecentDays 交互回看天数，<= 0 时取默认 7
	RecentDays int

	// RecentInteractions 采信的交互条数上限，<= 0 时取默认 10
	RecentInteractions int

	// KeywordWindow 每个关键词的扫描窗口，<= 0 时取默认 50
	KeywordWindow int

	// now 可注入的时钟，便于测试
	now func() time.Time
}

func (r *Content) Name() string { return "recall.content" }

func (r *Content) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Articles == nil || r.Interactions == nil || rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}

	limit := rctx.Limit
	if limit <= 0 {
		limit = 20
	}

	days := r.RecentDays
	if days <= 0 {
		days = DefaultRecentDays
	}
	maxInteractions := r.RecentInteractions
	if maxInteractions <= 0 {
		maxInteractions = DefaultRecentInteractions
	}
	window := r.KeywordWindow
	if window <= 0 {
		window = DefaultKeywordWindow
	}

	nowFn := r.now
	if nowFn == nil {
		nowFn = time.Now
	}
	since := nowFn().AddDate(0, 0, -days)

	recent, err := r.Interactions.FindRecentPositiveByUser(ctx, rctx.UserID, since, maxInteractions)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, nil
	}

	// 关键词并集 + 排除集
	keywords := make([]string, 0)
	keywordSet := make(map[string]struct{})
	excluded := make(map[int64]struct{}, len(recent))

	for _, inter := range recent {
		excluded[inter.ArticleID] = struct{}{}

		article, err := r.Articles.FindByID(ctx, inter.ArticleID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		for _, kw := range article.Keywords {
			if _, ok := keywordSet[kw]; ok {
				continue
			}
			keywordSet[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
	}

	seen := make(map[int64]struct{}, limit)
	out := make([]*core.Item, 0, limit)

	for _, kw := range keywords {
		matched, err := r.Articles.FindRecentContainingKeyword(ctx, kw, window)
		if err != nil {
			return nil, err
		}
		for _, a := range matched {
			if _, ok := excluded[a.ID]; ok {
				continue
			}
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}

			it := core.NewItem(a)
			it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
			it.PutLabel("match_keyword", utils.Label{Value: kw, Source: "recall"})
			out = append(out, it)
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
