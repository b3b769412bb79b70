package filter

import (
	"context"

	"github.com/jibmusil/newsrec/core"
	"github.com/jibmusil/newsrec/pkg/dsl"
)

// DSLFilter 是规则驱动的过滤器，使用 CEL 表达式判断文章去留。
// 表达式返回 true 表示保留，false 表示过滤。
//
// 典型规则：
//   - `article.fact_check >= 0.7` 只保留高可信度文章
//   - `article.sentiment > 0.0` 只推正面新闻
//   - `!("clickbait" in article.keywords)` 排除标题党
//
// 表达式语法见 pkg/dsl。
type DSLFilter struct {
	// Expression CEL 表达式，空表达式恒保留
	Expression string
}

func (f *DSLFilter) Name() string {
	return "filter.dsl"
}

func (f *DSLFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expression == "" || item == nil {
		return false, nil
	}

	keep, err := dsl.NewEval(item, rctx).Evaluate(f.Expression)
	if err != nil {
		// 规则写错不应该拖垮请求：报错时保留文章，由 FilterNode 记录
		return false, err
	}
	return !keep, nil
}
