package filter

import (
	"context"
	"testing"

	"github.com/jibmusil/newsrec/core"
)

func item(a *core.Article) *core.Item {
	return core.NewItem(a)
}

func TestDSLFilter_ShouldFilter(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		article    *core.Article
		want       bool
	}{
		{
			name:       "keeps high fact check",
			expression: "article.fact_check >= 0.7",
			article:    &core.Article{ID: 1, FactCheck: 0.9},
			want:       false,
		},
		{
			name:       "filters low fact check",
			expression: "article.fact_check >= 0.7",
			article:    &core.Article{ID: 1, FactCheck: 0.2},
			want:       true,
		},
		{
			name:       "keyword membership",
			expression: `!("clickbait" in article.keywords)`,
			article:    &core.Article{ID: 1, Keywords: []string{"clickbait", "ai"}},
			want:       true,
		},
		{
			name:       "compound expression",
			expression: "article.sentiment > 0.0 && article.popularity > 10.0",
			article:    &core.Article{ID: 1, Sentiment: 0.5, Popularity: 50},
			want:       false,
		},
		{
			name:       "empty expression keeps everything",
			expression: "",
			article:    &core.Article{ID: 1},
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &DSLFilter{Expression: tt.expression}
			got, err := f.ShouldFilter(context.Background(), &core.RecommendContext{UserID: 1}, item(tt.article))
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDSLFilter_BrokenExpressionKeepsArticle(t *testing.T) {
	f := &DSLFilter{Expression: "article.fact_check >="}
	got, err := f.ShouldFilter(context.Background(), &core.RecommendContext{}, item(&core.Article{ID: 1}))
	if err == nil {
		t.Fatal("expected compile error")
	}
	if got {
		t.Error("broken expression must not filter the article")
	}
}

func TestFilterNode_Process(t *testing.T) {
	node := &FilterNode{
		Filters: []Filter{
			&DSLFilter{Expression: "article.fact_check >= 0.5"},
		},
	}

	items := []*core.Item{
		item(&core.Article{ID: 1, FactCheck: 0.9}),
		item(&core.Article{ID: 2, FactCheck: 0.1}),
		item(&core.Article{ID: 3, FactCheck: 0.6}),
	}

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: 1}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := []int64{1, 3}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i, it := range out {
		if it.ID != want[i] {
			t.Errorf("out[%d].ID = %d, want %d", i, it.ID, want[i])
		}
	}
}
