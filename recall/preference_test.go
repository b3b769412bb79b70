package recall

import (
	"context"
	"testing"
	"time"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/store"
)

func seedPreferenceStores(t *testing.T) (*store.MemoryArticleStore, *store.MemoryPreferenceStore) {
	t.Helper()
	now := time.Now()

	articles := store.NewMemoryArticleStore()
	articles.Put(
		&core.Article{ID: 1, CategoryID: 10, Popularity: 100, PublishedAt: now},
		&core.Article{ID: 2, CategoryID: 10, Popularity: 50, PublishedAt: now},
		&core.Article{ID: 3, CategoryID: 20, Popularity: 80, PublishedAt: now},
		&core.Article{ID: 4, CategoryID: 30, Popularity: 200, PublishedAt: now},
	)
	prefs := store.NewMemoryPreferenceStore()
	return articles, prefs
}

func TestPreference_HighPreferenceOnly(t *testing.T) {
	articles, prefs := seedPreferenceStores(t)
	ctx := context.Background()

	// 分类 10 高偏好，分类 20 中性：只应召回分类 10
	mustSave(t, prefs, &core.PreferenceProfile{UserID: 1, CategoryID: 10, Score: 0.8})
	mustSave(t, prefs, &core.PreferenceProfile{UserID: 1, CategoryID: 20, Score: 0.5})

	r := &Preference{Articles: articles, Preferences: prefs}
	items, err := r.Recall(ctx, &core.RecommendContext{UserID: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	// 分类内按人气降序
	if items[0].ID != 1 || items[1].ID != 2 {
		t.Errorf("got [%d, %d], want [1, 2]", items[0].ID, items[1].ID)
	}
	for _, it := range items {
		if it.Article.CategoryID != 10 {
			t.Errorf("article %d from category %d, want only category 10", it.ID, it.Article.CategoryID)
		}
	}
}

func TestPreference_QuotaAtLeastOne(t *testing.T) {
	articles, prefs := seedPreferenceStores(t)
	ctx := context.Background()

	mustSave(t, prefs, &core.PreferenceProfile{UserID: 1, CategoryID: 10, Score: 0.7})

	// limit 1, score 0.7 -> floor(0.7) = 0，但配额至少为 1
	r := &Preference{Articles: articles, Preferences: prefs}
	items, err := r.Recall(ctx, &core.RecommendContext{UserID: 1, Limit: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	if items[0].ID != 1 {
		t.Errorf("got %d, want the most popular article of the category", items[0].ID)
	}
}

func TestPreference_FallsBackToTrending(t *testing.T) {
	articles, prefs := seedPreferenceStores(t)
	ctx := context.Background()

	// 用户没有任何画像：退到全局热门
	r := &Preference{Articles: articles, Preferences: prefs}
	items, err := r.Recall(ctx, &core.RecommendContext{UserID: 42, Limit: 3})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	// 全局人气降序：4(200), 1(100), 3(80)
	want := []int64{4, 1, 3}
	for i, it := range items {
		if it.ID != want[i] {
			t.Errorf("items[%d].ID = %d, want %d", i, it.ID, want[i])
		}
		if lbl, ok := it.GetLabel("recall_source"); !ok || lbl.Value != "trending" {
			t.Errorf("fallback items should carry trending label, got %v", lbl)
		}
	}
}

func mustSave(t *testing.T, prefs core.PreferenceStore, p *core.PreferenceProfile) {
	t.Helper()
	if err := prefs.Save(context.Background(), p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}
