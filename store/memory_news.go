package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jibmusil/newsrec/core"
)

// 领域存储的内存实现，用于测试/开发/原型。
// 生产环境由 MySQL/ES 等真实后端实现 core 中的对应接口。

// MemoryArticleStore 是 core.ArticleStore 的内存实现。
type MemoryArticleStore struct {
	mu       sync.RWMutex
	articles map[int64]*core.Article
}

func NewMemoryArticleStore() *MemoryArticleStore {
	return &MemoryArticleStore{articles: make(map[int64]*core.Article)}
}

// Put 写入（或覆盖）文章。
func (s *MemoryArticleStore) Put(articles ...*core.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range articles {
		cp := *a
		s.articles[a.ID] = &cp
	}
}

func (s *MemoryArticleStore) FindTrending(ctx context.Context, limit int) ([]*core.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(func(*core.Article) bool { return true }, limit), nil
}

func (s *MemoryArticleStore) FindByCategory(ctx context.Context, categoryID int64, limit int) ([]*core.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(func(a *core.Article) bool { return a.CategoryID == categoryID }, limit), nil
}

func (s *MemoryArticleStore) FindByID(ctx context.Context, id int64) (*core.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, core.ErrArticleNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryArticleStore) FindRecentContainingKeyword(ctx context.Context, keyword string, window int) ([]*core.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// 先取发布时间最近的 window 篇，再在窗口内做关键词匹配
	recent := make([]*core.Article, 0, len(s.articles))
	for _, a := range s.articles {
		recent = append(recent, a)
	}
	sort.Slice(recent, func(i, j int) bool {
		if !recent[i].PublishedAt.Equal(recent[j].PublishedAt) {
			return recent[i].PublishedAt.After(recent[j].PublishedAt)
		}
		return recent[i].ID < recent[j].ID
	})
	if window > 0 && len(recent) > window {
		recent = recent[:window]
	}

	out := make([]*core.Article, 0)
	for _, a := range recent {
		if a.HasKeyword(keyword) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryArticleStore) IncrementPopularity(ctx context.Context, id int64, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return core.ErrArticleNotFound
	}
	a.Popularity += delta
	return nil
}

// sortedLocked 按人气降序、发布时间降序、ID 升序返回匹配文章的副本。
func (s *MemoryArticleStore) sortedLocked(match func(*core.Article) bool, limit int) []*core.Article {
	out := make([]*core.Article, 0)
	for _, a := range s.articles {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

var _ core.ArticleStore = (*MemoryArticleStore)(nil)

// MemoryUserStore 是 core.UserStore 的内存实现。
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[int64]*core.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[int64]*core.User)}
}

func (s *MemoryUserStore) Put(users ...*core.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		cp := *u
		s.users[u.ID] = &cp
	}
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id int64) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryUserStore) FindAllActiveExcept(ctx context.Context, id int64) ([]*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.User, 0, len(s.users))
	for _, u := range s.users {
		if u.ID == id || !u.Active {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ core.UserStore = (*MemoryUserStore)(nil)

// MemoryPreferenceStore 是 core.PreferenceStore 的内存实现。
// (UserID, CategoryID) 唯一，Save 是 upsert。读写都做值拷贝，
// 画像的修改只能通过 Save 生效。
type MemoryPreferenceStore struct {
	mu       sync.RWMutex
	profiles map[prefKey]*core.PreferenceProfile
}

type prefKey struct {
	userID     int64
	categoryID int64
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{profiles: make(map[prefKey]*core.PreferenceProfile)}
}

func (s *MemoryPreferenceStore) FindByUser(ctx context.Context, userID int64) ([]*core.PreferenceProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.PreferenceProfile, 0)
	for k, p := range s.profiles {
		if k.userID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

func (s *MemoryPreferenceStore) FindByUserOrderedByScoreDesc(ctx context.Context, userID int64) ([]*core.PreferenceProfile, error) {
	out, err := s.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (s *MemoryPreferenceStore) FindByUserAndCategory(ctx context.Context, userID, categoryID int64) (*core.PreferenceProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[prefKey{userID: userID, categoryID: categoryID}]
	if !ok {
		return nil, core.ErrPreferenceNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryPreferenceStore) Save(ctx context.Context, profile *core.PreferenceProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *profile
	s.profiles[prefKey{userID: profile.UserID, categoryID: profile.CategoryID}] = &cp
	return nil
}

var _ core.PreferenceStore = (*MemoryPreferenceStore)(nil)

// MemoryInteractionStore 是 core.InteractionStore 的内存实现，追加写入。
type MemoryInteractionStore struct {
	mu     sync.RWMutex
	byUser map[int64][]*core.Interaction
}

func NewMemoryInteractionStore() *MemoryInteractionStore {
	return &MemoryInteractionStore{byUser: make(map[int64][]*core.Interaction)}
}

func (s *MemoryInteractionStore) Record(ctx context.Context, interaction *core.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *interaction
	if cp.At.IsZero() {
		cp.At = time.Now()
	}
	s.byUser[cp.UserID] = append(s.byUser[cp.UserID], &cp)
	return nil
}

func (s *MemoryInteractionStore) FindPositiveByUser(ctx context.Context, userID int64, limit int) ([]*core.Interaction, error) {
	return s.find(userID, limit, func(i *core.Interaction) bool {
		return i.Kind.Positive()
	})
}

func (s *MemoryInteractionStore) FindRecentPositiveByUser(ctx context.Context, userID int64, since time.Time, limit int) ([]*core.Interaction, error) {
	return s.find(userID, limit, func(i *core.Interaction) bool {
		return i.Kind.Positive() && i.At.After(since)
	})
}

func (s *MemoryInteractionStore) FindAllByUser(ctx context.Context, userID int64) ([]*core.Interaction, error) {
	return s.find(userID, 0, func(*core.Interaction) bool { return true })
}

// find 返回匹配交互的副本，时间降序（最新优先）。
func (s *MemoryInteractionStore) find(userID int64, limit int, match func(*core.Interaction) bool) ([]*core.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.Interaction, 0)
	for _, i := range s.byUser[userID] {
		if match(i) {
			cp := *i
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ core.InteractionStore = (*MemoryInteractionStore)(nil)
