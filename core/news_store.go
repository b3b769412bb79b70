package core

import (
	"context"
	"time"
)

// 推荐链路消费的协作方契约。接口定义在领域层，具体实现
// （内存、MySQL、Redis、Feast 等）在基础设施层。

// ArticleStore 是文章存储接口。
type ArticleStore interface {
	// FindTrending 返回全局热门文章：人气降序，发布时间降序兜底
	FindTrending(ctx context.Context, limit int) ([]*Article, error)

	// FindByCategory 返回某分类下的文章，排序同 FindTrending
	FindByCategory(ctx context.Context, categoryID int64, limit int) ([]*Article, error)

	// FindByID 查找单篇文章；不存在时返回 ErrArticleNotFound
	FindByID(ctx context.Context, id int64) (*Article, error)

	// FindRecentContainingKeyword 在最近发布的文章窗口内查找包含关键词的文章
	FindRecentContainingKeyword(ctx context.Context, keyword string, window int) ([]*Article, error)

	// IncrementPopularity 原子地累加文章人气分
	IncrementPopularity(ctx context.Context, id int64, delta float64) error
}

// UserStore 是用户存储接口。
type UserStore interface {
	// FindByID 查找用户；不存在时返回 ErrUserNotFound
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindAllActiveExcept 返回除指定用户外的所有活跃用户
	FindAllActiveExcept(ctx context.Context, id int64) ([]*User, error)
}

// PreferenceStore 是偏好画像存储接口。
// (UserID, CategoryID) 唯一；Save 对同键是 upsert 语义。
type PreferenceStore interface {
	// FindByUser 返回用户的全部画像（顺序不保证）
	FindByUser(ctx context.Context, userID int64) ([]*PreferenceProfile, error)

	// FindByUserOrderedByScoreDesc 返回用户画像，分数降序
	FindByUserOrderedByScoreDesc(ctx context.Context, userID int64) ([]*PreferenceProfile, error)

	// FindByUserAndCategory 查找单条画像；不存在时返回 ErrPreferenceNotFound
	FindByUserAndCategory(ctx context.Context, userID, categoryID int64) (*PreferenceProfile, error)

	// Save 写入画像（upsert）
	Save(ctx context.Context, profile *PreferenceProfile) error
}

// InteractionStore 是交互记录存储接口，追加写入。
type InteractionStore interface {
	// Record 落库一条交互
	Record(ctx context.Context, interaction *Interaction) error

	// FindPositiveByUser 返回用户最近的正向交互（LIKE/SHARE/SAVE），时间降序
	FindPositiveByUser(ctx context.Context, userID int64, limit int) ([]*Interaction, error)

	// FindRecentPositiveByUser 返回 since 之后的正向交互，时间降序
	FindRecentPositiveByUser(ctx context.Context, userID int64, since time.Time, limit int) ([]*Interaction, error)

	// FindAllByUser 返回用户的全部交互（用于构建排除集）
	FindAllByUser(ctx context.Context, userID int64) ([]*Interaction, error)
}

// 领域对象不存在的标准错误。
var (
	ErrArticleNotFound    = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: article not found")
	ErrUserNotFound       = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: user not found")
	ErrPreferenceNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: preference profile not found")
	ErrCategoryNotFound   = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: category not found")
)
