package core

import "github.com/jibmusil/newsrec/pkg/utils"

// RecommendContext 承载一次推荐请求的上下文，贯穿整个链路透传。
//
// "当前用户是谁"由调用方解析后显式传入 UserID；链路内部不做任何
// 会话级的隐式用户解析。
type RecommendContext struct {
	UserID int64
	Limit  int // 期望返回的文章数

	// Labels 是请求级标签，可驱动链路行为（新用户、实验桶等）
	Labels map[string]utils.Label

	// Params 请求级参数（scene、device 等），规则过滤可引用
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 读取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
