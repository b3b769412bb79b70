// Package cache 提供推荐结果缓存：按 (用户, 请求条数) 记忆融合结果，
// 避免重复请求时的全链路重算。
//
// 一致性约定：交互落库与画像更新都不会同步失效缓存，缓存结果允许
// 落后于最新的偏好调整；只靠 TTL 过期。需要的只是"别太旧"。
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jibmusil/newsrec/core"
)

// DefaultTTL 是缓存条目的默认存活时间。
const DefaultTTL = 5 * time.Minute

// Recommendations 是推荐结果缓存。
//
// 并发约定：读并发安全；同一个 key 同时只有一次构建在飞
// （singleflight），其余请求等待并共享这次构建的结果。
type Recommendations struct {
	// Store 缓存后端（store.MemoryStore / store.RedisStore）
	Store core.Store

	// TTL 条目存活时间，<= 0 时取 DefaultTTL
	TTL time.Duration

	group singleflight.Group
}

// BuildFunc 是缓存未命中时的回源函数。
type BuildFunc func(ctx context.Context) ([]*core.Article, error)

// Key 构造缓存 key。
func Key(userID int64, limit int) string {
	return fmt.Sprintf("rec:%d:%d", userID, limit)
}

// GetOrBuild 命中时直接返回缓存结果；未命中时执行 build，
// 写回缓存并返回。build 失败不写缓存，错误原样返回。
func (c *Recommendations) GetOrBuild(
	ctx context.Context,
	userID int64,
	limit int,
	build BuildFunc,
) ([]*core.Article, error) {
	if c.Store == nil {
		return build(ctx)
	}

	key := Key(userID, limit)
	if articles, ok := c.lookup(ctx, key); ok {
		return articles, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// 双重检查：等待 singleflight 锁期间可能已有结果落进缓存
		if articles, ok := c.lookup(ctx, key); ok {
			return articles, nil
		}

		articles, err := build(ctx)
		if err != nil {
			return nil, err
		}
		c.put(ctx, key, articles)
		return articles, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*core.Article), nil
}

// Invalidate 删除指定条目。正常链路不调用它；留给运营后台强刷。
func (c *Recommendations) Invalidate(ctx context.Context, userID int64, limit int) error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Delete(ctx, Key(userID, limit))
}

func (c *Recommendations) lookup(ctx context.Context, key string) ([]*core.Article, bool) {
	data, err := c.Store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var articles []*core.Article
	if json.Unmarshal(data, &articles) != nil {
		return nil, false
	}
	return articles, true
}

func (c *Recommendations) put(ctx context.Context, key string, articles []*core.Article) {
	data, err := json.Marshal(articles)
	if err != nil {
		return
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	// 写失败只意味着下次重算，不影响本次结果
	_ = c.Store.Set(ctx, key, data, int(ttl.Seconds()))
}
