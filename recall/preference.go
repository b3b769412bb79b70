package recall

import (
	"context"
	"math"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/pkg/utils"
)

// Preference 是基于用户自身分类偏好的召回源。
//
// 算法流程：
//  1. 取用户画像，分数降序
//  2. 没有任何画像 → 返回全局热门（冷启动兜底在这一层就发生）
//  3. 对每个高偏好分类（score >= 0.7），配额 = max(1, floor(limit × score))，
//     按人气降序、发布时间降序取该分类下的文章
//  4. 按分类首次出现顺序拼接，按文章 ID 去重保留首次出现，截断到 limit
//
// 工程特征：
//  - 实时性：好（画像由交互持续更新）
//  - 可解释性：强（"因为你喜欢科技"）
//  - 冷启动：差，靠热门兜底
type Preference struct {
	Articles    core.ArticleStore
	Preferences core.PreferenceStore
}

func (r *Preference) Name() string { return "recall.preference" }

func (r *Preference) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Articles == nil || r.Preferences == nil || rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}

	limit := rctx.Limit
	if limit <= 0 {
		limit = 20
	}

	profiles, err := r.Preferences.FindByUserOrderedByScoreDesc(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	// 没有画像：直接退到热门
	if len(profiles) == 0 {
		trending := &Trending{Articles: r.Articles}
		return trending.Recall(ctx, rctx)
	}

	seen := make(map[int64]struct{}, limit)
	out := make([]*core.Item, 0, limit)

	for _, p := range profiles {
		if !p.HighPreference() {
			continue
		}

		// 分数越高，该分类占的配额越大
		quota := int(math.Floor(float64(limit) * p.Score))
		if quota < 1 {
			quota = 1
		}

		articles, err := r.Articles.FindByCategory(ctx, p.CategoryID, quota)
		if err != nil {
			return nil, err
		}

		for _, a := range articles {
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}

			it := core.NewItem(a)
			it.PutLabel("recall_source", utils.Label{Value: "preference", Source: "recall"})
			out = append(out, it)
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
