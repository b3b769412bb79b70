package recall

import (
	"context"
	"sort"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/pkg/utils"
)

// 协同过滤的默认参数。工业上这些值一般离线调出来，在线只读。
const (
	// DefaultSimilarityThreshold 低于该相似度的邻居被丢弃
	DefaultSimilarityThreshold = 0.1

	// DefaultTopKNeighbors 保留的相似邻居数
	DefaultTopKNeighbors = 10

	// DefaultNeighborInteractions 每个邻居取的正向交互数
	DefaultNeighborInteractions = 20
)

// Collaborative 是基于用户的协同过滤召回源（User-based CF, u2i）。
//
// 核心思想："兴趣相似的用户，喜欢相似的文章"
//
// 算法流程：
//  1. 用户画像 → 稀疏兴趣向量（categoryID -> score）
//  2. 对所有其他活跃用户计算余弦相似度，丢弃 <= 阈值的
//  3. 相似度降序取 TopK 邻居
//  4. 按邻居顺序取其正向交互（LIKE/SHARE/SAVE），排除自己交互过的文章
//
// 工程特征：
//  - 可解释性：强（"和你口味相近的人也在看"）
//  - 冷启动：差（无画像直接返回空，兜底交给融合层）
//  - 计算复杂度：随活跃用户数线性增长，用户量大时应离线算 u2u
type Collaborative struct {
	Users        core.UserStore
	Preferences  core.PreferenceStore
	Interactions core.InteractionStore
	Articles     core.ArticleStore

	// SimilarityThreshold 邻居相似度下限，<= 0 时取默认 0.1
	SimilarityThreshold float64

	// TopKNeighbors 保留的邻居数，<= 0 时取默认 10
	TopKNeighbors int

	// NeighborInteractions 每个邻居取的正向交互数，<= 0 时取默认 20
	NeighborInteractions int
}

func (r *Collaborative) Name() string { return "recall.collaborative" }

func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Users == nil || r.Preferences == nil || r.Interactions == nil || r.Articles == nil {
		return nil, nil
	}
	if rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}

	limit := rctx.Limit
	if limit <= 0 {
		limit = 20
	}

	profiles, err := r.Preferences.FindByUser(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	vec := core.AffinityVector(profiles)
	if len(vec) == 0 {
		// 没有画像就没有相似度可言，这一层不兜底
		return nil, nil
	}

	neighbors, err := r.findSimilarUsers(ctx, rctx.UserID, vec)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	// 排除集：自己交互过的文章，任何交互类型都算
	excluded, err := r.interactedArticleIDs(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	maxPerNeighbor := r.NeighborInteractions
	if maxPerNeighbor <= 0 {
		maxPerNeighbor = DefaultNeighborInteractions
	}

	seen := make(map[int64]struct{}, limit)
	out := make([]*core.Item, 0, limit)

	for _, nb := range neighbors {
		interactions, err := r.Interactions.FindPositiveByUser(ctx, nb.userID, maxPerNeighbor)
		if err != nil {
			return nil, err
		}

		for _, inter := range interactions {
			if _, ok := excluded[inter.ArticleID]; ok {
				continue
			}
			if _, ok := seen[inter.ArticleID]; ok {
				continue
			}

			article, err := r.Articles.FindByID(ctx, inter.ArticleID)
			if err != nil {
				if core.IsNotFound(err) {
					continue // 文章被下架，跳过
				}
				return nil, err
			}

			seen[inter.ArticleID] = struct{}{}
			it := core.NewItem(article)
			it.Score = nb.similarity
			it.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
			out = append(out, it)
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type neighbor struct {
	userID     int64
	similarity float64
}

// findSimilarUsers 返回相似度降序的 TopK 邻居。
// 相似度相同时按用户 ID 升序，保证结果确定。
func (r *Collaborative) findSimilarUsers(
	ctx context.Context,
	userID int64,
	vec map[int64]float64,
) ([]neighbor, error) {
	threshold := r.SimilarityThreshold
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	topK := r.TopKNeighbors
	if topK <= 0 {
		topK = DefaultTopKNeighbors
	}

	others, err := r.Users.FindAllActiveExcept(ctx, userID)
	if err != nil {
		return nil, err
	}

	neighbors := make([]neighbor, 0, len(others))
	for _, other := range others {
		otherProfiles, err := r.Preferences.FindByUser(ctx, other.ID)
		if err != nil {
			return nil, err
		}
		otherVec := core.AffinityVector(otherProfiles)
		if len(otherVec) == 0 {
			continue
		}

		sim := CosineSimilarity(vec, otherVec)
		if sim > threshold {
			neighbors = append(neighbors, neighbor{userID: other.ID, similarity: sim})
		}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].similarity != neighbors[j].similarity {
			return neighbors[i].similarity > neighbors[j].similarity
		}
		return neighbors[i].userID < neighbors[j].userID
	})

	if len(neighbors) > topK {
		neighbors = neighbors[:topK]
	}
	return neighbors, nil
}

func (r *Collaborative) interactedArticleIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	interactions, err := r.Interactions.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]struct{}, len(interactions))
	for _, inter := range interactions {
		ids[inter.ArticleID] = struct{}{}
	}
	return ids, nil
}
