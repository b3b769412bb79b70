// Package config 提供配置驱动的管线组装：YAML/JSON 里的 node 类型
// 通过注册表映射到构建函数。
//
// 使用配置驱动时，需在 main 或入口处 import _ "github.com/jibmusil/newsrec/config/builders"
// 以触发内置 Node（recall.fanout、rank.fusion、rerank.topn 等）的 init 注册。
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/pipeline"
)

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
// 各组件在 init 中调用 Register(typeName, builder) 即可被配置驱动。
type NodeBuilder = pipeline.NodeBuilder

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑，供 DefaultFactory 与配置驱动使用。
// 建议在各组件的 init 中调用，例如：func init() { config.Register("rank.fusion", BuildFusionNode) }
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回基于当前注册表构建的 NodeFactory，包含所有通过 Register 注册的 Node 类型。
func DefaultFactory() *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidatePipelineConfig 校验 pipeline 配置中所有 node 类型均已注册；若有未支持类型则返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	supported := SupportedTypes()
	for _, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			continue
		}
		defaultBuildersMu.RLock()
		_, ok := defaultBuilders[nc.Type]
		defaultBuildersMu.RUnlock()
		if !ok {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}

// Stores 是构建召回/过滤 Node 需要的存储依赖。
// 配置文件只能表达参数，表达不了对象引用，存储依赖通过 BindStores
// 在组装前绑定一次。
type Stores struct {
	Articles     core.ArticleStore
	Users        core.UserStore
	Preferences  core.PreferenceStore
	Interactions core.InteractionStore
}

var (
	boundStores   Stores
	boundStoresMu sync.RWMutex
)

// BindStores 绑定存储依赖，供配置驱动的 builder 使用。
// 应在 BuildPipeline 之前调用；重复调用以最后一次为准。
func BindStores(s Stores) {
	boundStoresMu.Lock()
	defer boundStoresMu.Unlock()
	boundStores = s
}

// BoundStores 返回当前绑定的存储依赖。
func BoundStores() Stores {
	boundStoresMu.RLock()
	defer boundStoresMu.RUnlock()
	return boundStores
}
