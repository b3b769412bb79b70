// Package preference 实现偏好画像的异步更新：每条交互落库后触发一次
// 调整，调整量由交互类型决定，结果始终夹紧在 [0.0, 1.0]。
package preference

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jibmusil/newsrec/core"
)

// 默认的 worker 池参数。
const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256
)

// Task 是一次偏好更新任务。
type Task struct {
	UserID    int64
	ArticleID int64
	Kind      core.InteractionKind
}

// Updater 是偏好画像的异步更新器。
//
// 设计要点：
//   - 显式的有界队列 + worker 池：入队满时丢弃并记日志，
//     背压与丢弃策略是可见的契约，而不是框架的隐式行为
//   - 同一 (user, category) 的读-改-写通过分片锁串行化，
//     并发调整不会丢更新，分数不会越界
//   - 失败（文章/分类解析不到、存储报错）记日志后丢弃，
//     没有重试队列：丢掉的调整量是可容忍的数据质量损耗
type Updater struct {
	Articles    core.ArticleStore
	Preferences core.PreferenceStore

	// Workers worker 数量，<= 0 时取默认 4
	Workers int

	// QueueSize 队列容量，<= 0 时取默认 256
	QueueSize int

	// Logger nil 时使用全局 logger
	Logger logrus.FieldLogger

	startOnce sync.Once
	stopOnce  sync.Once
	tasks     chan Task
	wg        sync.WaitGroup

	// stopMu 保护 stopped 与关闭中的 tasks：Enqueue 持读锁发送，
	// Stop 持写锁置位后才关闭通道，杜绝向已关闭通道发送
	stopMu  sync.RWMutex
	stopped bool

	// shards 按 (user, category) 哈希分片的串行化锁。
	// 不同 key 落在同一分片只损失并行度，不影响正确性。
	shards [64]sync.Mutex
}

// Start 启动 worker 池，重复调用只生效一次。
func (u *Updater) Start() {
	u.startOnce.Do(func() {
		workers := u.Workers
		if workers <= 0 {
			workers = DefaultWorkers
		}
		size := u.QueueSize
		if size <= 0 {
			size = DefaultQueueSize
		}
		u.tasks = make(chan Task, size)

		for i := 0; i < workers; i++ {
			u.wg.Add(1)
			go u.worker()
		}
	})
}

// Stop 关闭队列并等待在途任务清空。Stop 之后的 Enqueue 丢弃任务。
func (u *Updater) Stop() {
	u.stopOnce.Do(func() {
		u.stopMu.Lock()
		u.stopped = true
		u.stopMu.Unlock()
		if u.tasks != nil {
			close(u.tasks)
		}
	})
	u.wg.Wait()
}

// Enqueue 提交任务，fire-and-forget。队列满或已停止时丢弃并返回 false。
func (u *Updater) Enqueue(task Task) bool {
	u.Start()

	// 优雅停机期间在途请求还会调到这里：读锁挡住 Stop 的 close，
	// stopped 之后按丢弃语义处理，而不是向已关闭通道发送
	u.stopMu.RLock()
	defer u.stopMu.RUnlock()
	if u.stopped {
		u.logger().WithFields(logrus.Fields{
			"user_id":    task.UserID,
			"article_id": task.ArticleID,
			"kind":       task.Kind,
		}).Warn("updater stopped, adjustment dropped")
		return false
	}

	select {
	case u.tasks <- task:
		return true
	default:
		u.logger().WithFields(logrus.Fields{
			"user_id":    task.UserID,
			"article_id": task.ArticleID,
			"kind":       task.Kind,
		}).Warn("preference update queue full, adjustment dropped")
		return false
	}
}

func (u *Updater) worker() {
	defer u.wg.Done()
	for task := range u.tasks {
		u.Apply(context.Background(), task)
	}
}

// Apply 同步执行一次偏好调整。正常链路走 Enqueue；
// 测试或需要确定性时序的调用方可以直接用它。
func (u *Updater) Apply(ctx context.Context, task Task) {
	log := u.logger().WithFields(logrus.Fields{
		"user_id":    task.UserID,
		"article_id": task.ArticleID,
		"kind":       task.Kind,
	})

	adjustment, ok := task.Kind.Adjustment()
	if !ok {
		log.Warn("unknown interaction kind, adjustment dropped")
		return
	}

	article, err := u.Articles.FindByID(ctx, task.ArticleID)
	if err != nil {
		log.WithError(err).Warn("article not resolvable, adjustment dropped")
		return
	}
	if article.CategoryID == 0 {
		log.Warn("article has no category, adjustment dropped")
		return
	}

	// 同一 (user, category) 的读-改-写必须串行，否则并发调整会互相覆盖
	lock := u.shard(task.UserID, article.CategoryID)
	lock.Lock()
	defer lock.Unlock()

	profile, err := u.Preferences.FindByUserAndCategory(ctx, task.UserID, article.CategoryID)
	if err != nil {
		if !core.IsNotFound(err) {
			log.WithError(err).Warn("preference load failed, adjustment dropped")
			return
		}
		// 首次交互：以默认分数 0.5 惰性创建
		profile = core.NewPreferenceProfile(task.UserID, article.CategoryID)
	}

	profile.Adjust(adjustment)

	if err := u.Preferences.Save(ctx, profile); err != nil {
		log.WithError(err).Warn("preference save failed, adjustment dropped")
		return
	}

	log.WithFields(logrus.Fields{
		"category_id": article.CategoryID,
		"adjustment":  adjustment,
		"score":       profile.Score,
	}).Debug("preference updated")
}

func (u *Updater) shard(userID, categoryID int64) *sync.Mutex {
	h := fnv.New64a()
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(userID >> (8 * i))
		buf[8+i] = byte(categoryID >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	return &u.shards[h.Sum64()%uint64(len(u.shards))]
}

func (u *Updater) logger() logrus.FieldLogger {
	if u.Logger != nil {
		return u.Logger
	}
	return logrus.StandardLogger()
}
