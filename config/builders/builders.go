// Package builders 在 init 中注册全部内置 Node 的配置构建器。
// 入口处 import _ 本包即可启用配置驱动的管线组装。
package builders

import (
	"fmt"
	"time"

	"github.com/jibmusil/newsrec/config"
	"github.com/jibmusil/newsrec/filter"
	"github.com/jibmusil/newsrec/pipeline"
	"github.com/jibmusil/newsrec/pkg/conv"
	"github.com/jibmusil/newsrec/rank"
	"github.com/jibmusil/newsrec/recall"
	"github.com/jibmusil/newsrec/rerank"
)

func init() {
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("rank.fusion", BuildFusionNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("filter", BuildFilterNode)
}

// BuildFanoutNode 从配置组装并发召回节点。
// 源类型：trending / preference / collaborative / content，
// 存储依赖来自 config.BindStores 绑定的 Stores。
func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	stores := config.BoundStores()

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		switch sourceType {
		case "trending":
			sources = append(sources, &recall.Trending{Articles: stores.Articles})
		case "preference":
			sources = append(sources, &recall.Preference{
				Articles:    stores.Articles,
				Preferences: stores.Preferences,
			})
		case "collaborative":
			sources = append(sources, &recall.Collaborative{
				Users:                stores.Users,
				Preferences:          stores.Preferences,
				Interactions:         stores.Interactions,
				Articles:             stores.Articles,
				SimilarityThreshold:  conv.ConfigGetFloat64(sourceMap, "similarity_threshold", 0),
				TopKNeighbors:        conv.ConfigGetInt(sourceMap, "top_k_neighbors", 0),
				NeighborInteractions: conv.ConfigGetInt(sourceMap, "neighbor_interactions", 0),
			})
		case "content":
			sources = append(sources, &recall.Content{
				Articles:           stores.Articles,
				Interactions:       stores.Interactions,
				RecentDays:         conv.ConfigGetInt(sourceMap, "recent_days", 0),
				RecentInteractions: conv.ConfigGetInt(sourceMap, "recent_interactions", 0),
				KeywordWindow:      conv.ConfigGetInt(sourceMap, "keyword_window", 0),
			})
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{
		Sources:       sources,
		MergeStrategy: conv.ConfigGet(cfg, "merge_strategy", ""),
	}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = n
	}
	return fanout, nil
}

// BuildFusionNode 从配置组装加权融合节点。weights 缺省时用默认权重。
func BuildFusionNode(cfg map[string]interface{}) (pipeline.Node, error) {
	fusion := &rank.Fusion{
		Limit: conv.ConfigGetInt(cfg, "limit", 0),
	}
	if weightsMap, ok := cfg["weights"].(map[string]interface{}); ok {
		weights := make(map[string]float64, len(weightsMap))
		for name, v := range weightsMap {
			w, ok := conv.ToFloat64(v)
			if !ok {
				return nil, fmt.Errorf("weight for %q is not a number", name)
			}
			weights[name] = w
		}
		fusion.Weights = weights
	}
	return fusion, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{
		MaxPerCategory: conv.ConfigGetInt(cfg, "max_per_category", 0),
	}, nil
}

// BuildFilterNode 从配置组装过滤节点。
// 过滤器类型：interacted（剔除已交互文章）、dsl（CEL 规则表达式）。
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	stores := config.BoundStores()

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "interacted":
			filters = append(filters, &filter.InteractedFilter{Interactions: stores.Interactions})
		case "dsl":
			expr := conv.ConfigGet(filterMap, "expression", "")
			if expr == "" {
				return nil, fmt.Errorf("dsl filter requires expression")
			}
			filters = append(filters, &filter.DSLFilter{Expression: expr})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}
