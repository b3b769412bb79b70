package recall

import (
	"context"
	"testing"
	"time"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/store"
)

func TestContent_Recall(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	articles := store.NewMemoryArticleStore()
	articles.Put(
		&core.Article{ID: 100, CategoryID: 10, Keywords: []string{"ai", "golang"}, PublishedAt: now.AddDate(0, 0, -2)},
		&core.Article{ID: 200, CategoryID: 10, Keywords: []string{"ai"}, Popularity: 5, PublishedAt: now.AddDate(0, 0, -1)},
		&core.Article{ID: 201, CategoryID: 20, Keywords: []string{"golang"}, PublishedAt: now.AddDate(0, 0, -1)},
		&core.Article{ID: 300, CategoryID: 30, Keywords: []string{"finance"}, PublishedAt: now},
	)

	interactions := store.NewMemoryInteractionStore()
	// 近期点赞过 100（关键词 ai、golang）
	if err := interactions.Record(ctx, &core.Interaction{
		UserID: 1, ArticleID: 100, Kind: core.InteractionLike, At: now.AddDate(0, 0, -1),
	}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	r := &Content{
		Articles:     articles,
		Interactions: interactions,
		now:          func() time.Time { return now },
	}

	items, err := r.Recall(ctx, &core.RecommendContext{UserID: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	// 100 被排除（已交互），300 关键词不匹配：剩 200、201
	got := make(map[int64]bool, len(items))
	for _, it := range items {
		got[it.ID] = true
	}
	if len(items) != 2 || !got[200] || !got[201] {
		t.Fatalf("got %v, want {200, 201}", got)
	}

	for _, it := range items {
		if lbl, ok := it.GetLabel("match_keyword"); !ok || lbl.Value == "" {
			t.Errorf("item %d missing match_keyword label", it.ID)
		}
	}
}

func TestContent_IgnoresOldInteractions(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	articles := store.NewMemoryArticleStore()
	articles.Put(
		&core.Article{ID: 100, Keywords: []string{"crypto"}, PublishedAt: now.AddDate(0, 0, -30)},
		&core.Article{ID: 200, Keywords: []string{"crypto"}, PublishedAt: now},
	)

	interactions := store.NewMemoryInteractionStore()
	// 交互在回看窗口（7 天）之外
	if err := interactions.Record(ctx, &core.Interaction{
		UserID: 1, ArticleID: 100, Kind: core.InteractionLike, At: now.AddDate(0, 0, -10),
	}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	r := &Content{
		Articles:     articles,
		Interactions: interactions,
		now:          func() time.Time { return now },
	}

	items, err := r.Recall(ctx, &core.RecommendContext{UserID: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("stale interactions should yield nothing, got %d items", len(items))
	}
}

func TestContent_OnlyPositiveSignals(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	articles := store.NewMemoryArticleStore()
	articles.Put(
		&core.Article{ID: 100, Keywords: []string{"sports"}, PublishedAt: now.AddDate(0, 0, -1)},
		&core.Article{ID: 200, Keywords: []string{"sports"}, PublishedAt: now},
	)

	interactions := store.NewMemoryInteractionStore()
	// VIEW 不是正向信号，不应触发内容召回
	if err := interactions.Record(ctx, &core.Interaction{
		UserID: 1, ArticleID: 100, Kind: core.InteractionView, At: now.AddDate(0, 0, -1),
	}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	r := &Content{
		Articles:     articles,
		Interactions: interactions,
		now:          func() time.Time { return now },
	}

	items, err := r.Recall(ctx, &core.RecommendContext{UserID: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("views should not seed content recall, got %d items", len(items))
	}
}
