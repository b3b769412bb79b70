package store

import (
	"context"
	"testing"
	"time"

	"github.com/jibmusil/newsrec/core"
)

func TestMemoryArticleStore_TrendingOrder(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	s := NewMemoryArticleStore()
	s.Put(
		&core.Article{ID: 1, Popularity: 50, PublishedAt: now.Add(-time.Hour)},
		&core.Article{ID: 2, Popularity: 100, PublishedAt: now.Add(-2 * time.Hour)},
		&core.Article{ID: 3, Popularity: 50, PublishedAt: now}, // 人气并列，更新鲜
		&core.Article{ID: 4, Popularity: 10, PublishedAt: now},
	)

	got, err := s.FindTrending(ctx, 3)
	if err != nil {
		t.Fatalf("FindTrending() error = %v", err)
	}

	want := []int64{2, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, a := range got {
		if a.ID != want[i] {
			t.Errorf("got[%d].ID = %d, want %d", i, a.ID, want[i])
		}
	}
}

func TestMemoryArticleStore_IncrementPopularity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryArticleStore()
	s.Put(&core.Article{ID: 1, Popularity: 5})

	if err := s.IncrementPopularity(ctx, 1, 1.0); err != nil {
		t.Fatalf("IncrementPopularity() error = %v", err)
	}
	a, err := s.FindByID(ctx, 1)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if a.Popularity != 6 {
		t.Errorf("Popularity = %v, want 6", a.Popularity)
	}

	if err := s.IncrementPopularity(ctx, 999, 1.0); !core.IsNotFound(err) {
		t.Errorf("missing article should return not found, got %v", err)
	}
}

func TestMemoryArticleStore_FindRecentContainingKeyword(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	s := NewMemoryArticleStore()
	s.Put(
		&core.Article{ID: 1, Keywords: []string{"ai"}, PublishedAt: now},
		&core.Article{ID: 2, Keywords: []string{"ai"}, PublishedAt: now.Add(-time.Hour)},
		&core.Article{ID: 3, Keywords: []string{"sports"}, PublishedAt: now},
		// 窗口外的旧文章，即使关键词命中也不该出现
		&core.Article{ID: 4, Keywords: []string{"ai"}, PublishedAt: now.Add(-24 * time.Hour)},
	)

	got, err := s.FindRecentContainingKeyword(ctx, "ai", 3)
	if err != nil {
		t.Fatalf("FindRecentContainingKeyword() error = %v", err)
	}

	want := []int64{1, 2}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(got), len(want), got)
	}
	for i, a := range got {
		if a.ID != want[i] {
			t.Errorf("got[%d].ID = %d, want %d", i, a.ID, want[i])
		}
	}
}

func TestMemoryUserStore_FindAllActiveExcept(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	s.Put(
		&core.User{ID: 1, Active: true},
		&core.User{ID: 2, Active: true},
		&core.User{ID: 3, Active: false},
	)

	got, err := s.FindAllActiveExcept(ctx, 1)
	if err != nil {
		t.Fatalf("FindAllActiveExcept() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("got %+v, want only user 2", got)
	}

	if _, err := s.FindByID(ctx, 999); !core.IsNotFound(err) {
		t.Errorf("missing user should return not found, got %v", err)
	}
}

func TestMemoryPreferenceStore_Upsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPreferenceStore()

	if err := s.Save(ctx, &core.PreferenceProfile{UserID: 1, CategoryID: 10, Score: 0.5}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// 同键覆盖
	if err := s.Save(ctx, &core.PreferenceProfile{UserID: 1, CategoryID: 10, Score: 0.8}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, &core.PreferenceProfile{UserID: 1, CategoryID: 20, Score: 0.9}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	p, err := s.FindByUserAndCategory(ctx, 1, 10)
	if err != nil {
		t.Fatalf("FindByUserAndCategory() error = %v", err)
	}
	if p.Score != 0.8 {
		t.Errorf("Score = %v, want 0.8 after upsert", p.Score)
	}

	ordered, err := s.FindByUserOrderedByScoreDesc(ctx, 1)
	if err != nil {
		t.Fatalf("FindByUserOrderedByScoreDesc() error = %v", err)
	}
	if len(ordered) != 2 || ordered[0].CategoryID != 20 || ordered[1].CategoryID != 10 {
		t.Errorf("unexpected ordering: %+v", ordered)
	}

	if _, err := s.FindByUserAndCategory(ctx, 1, 99); !core.IsNotFound(err) {
		t.Errorf("missing profile should return not found, got %v", err)
	}
}

func TestMemoryPreferenceStore_CopyOnRead(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPreferenceStore()

	if err := s.Save(ctx, &core.PreferenceProfile{UserID: 1, CategoryID: 10, Score: 0.5}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	p, _ := s.FindByUserAndCategory(ctx, 1, 10)
	p.Score = 0.99 // 改副本不应影响存储

	again, _ := s.FindByUserAndCategory(ctx, 1, 10)
	if again.Score != 0.5 {
		t.Errorf("Score = %v, mutation through a read copy leaked into the store", again.Score)
	}
}

func TestMemoryInteractionStore_Queries(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	s := NewMemoryInteractionStore()
	record := func(articleID int64, kind core.InteractionKind, at time.Time) {
		t.Helper()
		if err := s.Record(ctx, &core.Interaction{UserID: 1, ArticleID: articleID, Kind: kind, At: at}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	record(100, core.InteractionView, now.Add(-3*time.Hour))
	record(101, core.InteractionLike, now.Add(-2*time.Hour))
	record(102, core.InteractionSave, now.Add(-time.Hour))
	record(103, core.InteractionDislike, now)

	positive, err := s.FindPositiveByUser(ctx, 1, 10)
	if err != nil {
		t.Fatalf("FindPositiveByUser() error = %v", err)
	}
	// 只有 LIKE/SAVE，时间降序
	if len(positive) != 2 || positive[0].ArticleID != 102 || positive[1].ArticleID != 101 {
		t.Errorf("unexpected positive interactions: %+v", positive)
	}

	recent, err := s.FindRecentPositiveByUser(ctx, 1, now.Add(-90*time.Minute), 10)
	if err != nil {
		t.Fatalf("FindRecentPositiveByUser() error = %v", err)
	}
	if len(recent) != 1 || recent[0].ArticleID != 102 {
		t.Errorf("unexpected recent positive interactions: %+v", recent)
	}

	all, err := s.FindAllByUser(ctx, 1)
	if err != nil {
		t.Fatalf("FindAllByUser() error = %v", err)
	}
	if len(all) != 4 {
		t.Errorf("len(all) = %d, want 4", len(all))
	}

	limited, err := s.FindPositiveByUser(ctx, 1, 1)
	if err != nil {
		t.Fatalf("FindPositiveByUser() error = %v", err)
	}
	if len(limited) != 1 || limited[0].ArticleID != 102 {
		t.Errorf("limit should keep the most recent, got %+v", limited)
	}
}
