// Package engine 是推荐系统的门面：对外暴露"取个性化推荐"和
// "记录交互"两个入口，内部编排召回管线、结果缓存和异步偏好更新。
package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jibmusil/newsrec/cache"
	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/pipeline"
	"github.com/jibmusil/newsrec/preference"
	"github.com/jibmusil/newsrec/rank"
	"github.com/jibmusil/newsrec/recall"
	"github.com/jibmusil/newsrec/rerank"
)

// DefaultLimit 是未指定条数时的默认推荐条数。
const DefaultLimit = 20

// ViewPopularityDelta 是 VIEW/CLICK 给文章人气的加成。
// 人气分驱动热门召回，浏览和点击是最廉价也最高频的人气来源。
const ViewPopularityDelta = 1.0

// Options 是构建 Engine 的依赖集合。
// Articles / Users / Preferences / Interactions 必填，其余可选。
type Options struct {
	Articles     core.ArticleStore
	Users        core.UserStore
	Preferences  core.PreferenceStore
	Interactions core.InteractionStore

	// Cache 推荐结果缓存，nil 时不缓存，每次请求都重算
	Cache *cache.Recommendations

	// Updater 异步偏好更新器，nil 时引擎自建一个默认配置的
	Updater *preference.Updater

	// FusionWeights 融合权重，nil 时取 rank.DefaultWeights
	FusionWeights map[string]float64

	// RecallTimeout 单个召回源的超时，0 表示不限制
	RecallTimeout time.Duration

	// Logger nil 时使用全局 logger
	Logger logrus.FieldLogger
}

// Engine 是新闻推荐引擎。
//
// 设计要点：
//   - 读路径（推荐）和写路径（交互）共享存储但互不阻塞：
//     交互落库后的偏好调整完全异步，不在请求线程上做
//   - 召回管线每次请求现场组装，节点本身无请求级状态，
//     组装成本可忽略且避免了跨请求的状态泄漏
//   - 任何单点退化（某路召回失败、缓存后端失败）都降级而不报错，
//     兜底链的终点是全局热门
type Engine struct {
	articles     core.ArticleStore
	users        core.UserStore
	preferences  core.PreferenceStore
	interactions core.InteractionStore

	cache   *cache.Recommendations
	updater *preference.Updater

	fusionWeights map[string]float64
	recallTimeout time.Duration

	logger logrus.FieldLogger
}

// New 构建引擎并启动偏好更新 worker 池。
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	updater := opts.Updater
	if updater == nil {
		updater = &preference.Updater{
			Articles:    opts.Articles,
			Preferences: opts.Preferences,
			Logger:      logger,
		}
	}
	updater.Start()

	return &Engine{
		articles:      opts.Articles,
		users:         opts.Users,
		preferences:   opts.Preferences,
		interactions:  opts.Interactions,
		cache:         opts.Cache,
		updater:       updater,
		fusionWeights: opts.FusionWeights,
		recallTimeout: opts.RecallTimeout,
		logger:        logger,
	}
}

// Close 停止异步更新器，等待在途的偏好调整落库。
func (e *Engine) Close() {
	e.updater.Stop()
}

// GetPersonalizedRecommendations 返回给定用户的个性化推荐。
//
// limit <= 0 时取默认 20。用户不存在或没有任何个性化信号时
// 降级为全局热门，永远不会因为"个性化失败"返回错误。
func (e *Engine) GetPersonalizedRecommendations(
	ctx context.Context,
	userID int64,
	limit int,
) ([]*core.Article, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if e.cache != nil {
		return e.cache.GetOrBuild(ctx, userID, limit, func(ctx context.Context) ([]*core.Article, error) {
			return e.recommend(ctx, userID, limit)
		})
	}
	return e.recommend(ctx, userID, limit)
}

func (e *Engine) recommend(ctx context.Context, userID int64, limit int) ([]*core.Article, error) {
	log := e.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"limit":   limit,
	})

	// 用户不存在直接走热门，不把"查无此人"当错误抛给调用方
	if _, err := e.users.FindByID(ctx, userID); err != nil {
		if core.IsNotFound(err) {
			log.Debug("user not found, serving trending")
			return e.Trending(ctx, limit)
		}
		return nil, err
	}

	rctx := &core.RecommendContext{UserID: userID, Limit: limit}

	p := e.buildPipeline()
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	// 三路召回全空（新用户、冷库）：兜底热门
	if len(items) == 0 {
		log.Debug("personalized recall empty, serving trending")
		return e.Trending(ctx, limit)
	}

	return core.Articles(items), nil
}

// buildPipeline 组装个性化召回管线：
// 三路召回并发 fan-out，加权位置衰减融合，截断到请求条数。
func (e *Engine) buildPipeline() *pipeline.Pipeline {
	fanout := &recall.Fanout{
		Sources: []recall.Source{
			&recall.Preference{Articles: e.articles, Preferences: e.preferences},
			&recall.Collaborative{
				Users:        e.users,
				Preferences:  e.preferences,
				Interactions: e.interactions,
				Articles:     e.articles,
			},
			&recall.Content{Articles: e.articles, Interactions: e.interactions},
		},
		Timeout: e.recallTimeout,
		Logger:  e.logger,
	}

	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			fanout,
			&rank.Fusion{Weights: e.fusionWeights},
			&rerank.TopNNode{},
		},
	}
}

// Trending 返回全局热门文章，非个性化。
func (e *Engine) Trending(ctx context.Context, limit int) ([]*core.Article, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return e.articles.FindTrending(ctx, limit)
}

// RecordInteraction 记录一条用户-文章交互。
//
// 同步部分只做三件事：校验、落库、人气加成；偏好调整交给
// 异步更新器，本调用返回时画像可能还没变。
func (e *Engine) RecordInteraction(
	ctx context.Context,
	userID, articleID int64,
	kind core.InteractionKind,
	readingTimeSeconds int,
) error {
	if !kind.Valid() {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"engine: unknown interaction kind "+string(kind))
	}

	interaction := &core.Interaction{
		UserID:             userID,
		ArticleID:          articleID,
		Kind:               kind,
		At:                 time.Now(),
		ReadingTimeSeconds: readingTimeSeconds,
	}
	if err := e.interactions.Record(ctx, interaction); err != nil {
		return err
	}

	// 浏览和点击即时反哺人气分；失败只影响热门排序的新鲜度
	if kind == core.InteractionView || kind == core.InteractionClick {
		if err := e.articles.IncrementPopularity(ctx, articleID, ViewPopularityDelta); err != nil {
			e.logger.WithError(err).WithField("article_id", articleID).
				Warn("popularity increment failed")
		}
	}

	e.updater.Enqueue(preference.Task{
		UserID:    userID,
		ArticleID: articleID,
		Kind:      kind,
	})
	return nil
}

// CategoryPreferences 返回用户当前的分类兴趣快照（categoryID -> 分数）。
// 没有任何画像时返回空向量。
func (e *Engine) CategoryPreferences(ctx context.Context, userID int64) (map[int64]float64, error) {
	profiles, err := e.preferences.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.AffinityVector(profiles), nil
}
