package filter

import (
	"context"
	"sync"

	"github.com/jibmusil/newsrec/core"
)

// InteractedFilter 过滤掉当前用户已经交互过的文章（任何交互类型）。
// 召回源内部已经各自做了排除，这个过滤器用于配置驱动的管线，
// 把排除逻辑作为独立可组合的节点使用。
//
// 排除集在单次请求内只加载一次（按 rctx 的 UserID 惰性构建）。
type InteractedFilter struct {
	Interactions core.InteractionStore

	mu     sync.Mutex
	userID int64
	cached map[int64]struct{}
}

func (f *InteractedFilter) Name() string {
	return "filter.interacted"
}

func (f *InteractedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Interactions == nil || rctx == nil || rctx.UserID == 0 || item == nil {
		return false, nil
	}

	excluded, err := f.excludedSet(ctx, rctx.UserID)
	if err != nil {
		return false, err
	}

	_, ok := excluded[item.ID]
	return ok, nil
}

func (f *InteractedFilter) excludedSet(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cached != nil && f.userID == userID {
		return f.cached, nil
	}

	interactions, err := f.Interactions.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := make(map[int64]struct{}, len(interactions))
	for _, inter := range interactions {
		set[inter.ArticleID] = struct{}{}
	}
	f.userID = userID
	f.cached = set
	return set, nil
}
