package recall

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/pipeline"
	"github.com/jibmusil/newsrec/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
// 三路召回（偏好/协同过滤/内容）逻辑独立、无共享可变状态，
// 天然适合 fan-out/fan-in；所有源都返回后才进入融合，没有部分结果。
//
// 单个源出错或超时只会让该源降级为空列表，绝不中断整个请求。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）

	// MergeStrategy 合并策略：
	//   - "union"（默认）：按源顺序拼接，不去重，每个 item 带上
	//     source/source_rank/source_size 元信息，供加权融合使用
	//   - "first"：按文章 ID 去重，保留首个出现的
	MergeStrategy string

	// Logger 记录被降级的召回源，nil 时使用全局 logger
	Logger logrus.FieldLogger
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	logger := n.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	// 每个源的结果落在自己的槽位里，join 后按源顺序拼接，
	// 保证输出顺序与并发调度无关
	results := make([][]*core.Item, len(n.Sources))

	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		slot := i
		s := src

		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 降级：出错的源贡献空列表，不中断其他召回源
				logger.WithError(err).WithField("source", s.Name()).
					Warn("recall source degraded to empty result")
				return nil
			}
			results[slot] = items
			return nil
		})
	}

	// 源错误已在各自的 goroutine 里降级吞掉，这里只等 join
	_ = eg.Wait()

	all := n.flatten(results)

	switch n.MergeStrategy {
	case "first":
		return n.mergeFirst(all), nil
	default: // "union"
		return all, nil
	}
}

// flatten 按源顺序拼接结果，并为每个 item 打上来源元信息：
//   - Meta["source"]: 源名，融合按它查权重
//   - Meta["source_rank"]: 源内下标（0 为最优）
//   - Meta["source_size"]: 源列表长度
func (n *Fanout) flatten(results [][]*core.Item) []*core.Item {
	total := 0
	for _, items := range results {
		total += len(items)
	}

	all := make([]*core.Item, 0, total)
	for i, items := range results {
		name := n.Sources[i].Name()
		size := len(items)
		for rank, it := range items {
			if it == nil {
				continue
			}
			if it.Meta == nil {
				it.Meta = make(map[string]any)
			}
			it.Meta["source"] = name
			it.Meta["source_rank"] = rank
			it.Meta["source_size"] = size
			it.PutLabel("recall_priority", utils.Label{Value: fmt.Sprintf("%d", i), Source: "recall"})
			all = append(all, it)
		}
	}
	return all
}

// mergeFirst 按文章 ID 去重，保留第一个出现的，labels 合并以便追踪。
func (n *Fanout) mergeFirst(all []*core.Item) []*core.Item {
	seen := make(map[int64]*core.Item, len(all))
	out := make([]*core.Item, 0, len(all))
	for _, it := range all {
		if old, ok := seen[it.ID]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.ID] = it
		out = append(out, it)
	}
	return out
}
