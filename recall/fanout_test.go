package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/jibmusil/newsrec/core"
)

// stubSource 是测试用召回源：固定返回一组文章 ID 或一个错误。
type stubSource struct {
	name string
	ids  []int64
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	items := make([]*core.Item, 0, len(s.ids))
	for _, id := range s.ids {
		items = append(items, core.NewItem(&core.Article{ID: id}))
	}
	return items, nil
}

func TestFanout_UnionTagsSourceMeta(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&stubSource{name: "recall.preference", ids: []int64{1, 2}},
			&stubSource{name: "recall.collaborative", ids: []int64{2, 3}},
		},
	}

	items, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: 1, Limit: 10}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// union 不去重：2+2 条，按源顺序拼接
	if len(items) != 4 {
		t.Fatalf("len = %d, want 4", len(items))
	}

	wantSources := []string{"recall.preference", "recall.preference", "recall.collaborative", "recall.collaborative"}
	wantRanks := []int{0, 1, 0, 1}
	for i, it := range items {
		if got := it.Meta["source"]; got != wantSources[i] {
			t.Errorf("items[%d] source = %v, want %v", i, got, wantSources[i])
		}
		if got := it.Meta["source_rank"]; got != wantRanks[i] {
			t.Errorf("items[%d] source_rank = %v, want %v", i, got, wantRanks[i])
		}
		if got := it.Meta["source_size"]; got != 2 {
			t.Errorf("items[%d] source_size = %v, want 2", i, got)
		}
	}
}

func TestFanout_DegradesFailedSource(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&stubSource{name: "recall.preference", err: errors.New("store down")},
			&stubSource{name: "recall.content", ids: []int64{7}},
		},
	}

	items, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: 1, Limit: 10}, nil)
	if err != nil {
		t.Fatalf("Process() should not fail when one source degrades: %v", err)
	}
	if len(items) != 1 || items[0].ID != 7 {
		t.Fatalf("expected only the healthy source's item, got %+v", items)
	}
}

func TestFanout_FirstMergeDedups(t *testing.T) {
	fanout := &Fanout{
		MergeStrategy: "first",
		Sources: []Source{
			&stubSource{name: "a", ids: []int64{1, 2}},
			&stubSource{name: "b", ids: []int64{2, 3}},
		},
	}

	items, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: 1, Limit: 10}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := []int64{1, 2, 3}
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for i, it := range items {
		if it.ID != want[i] {
			t.Errorf("items[%d].ID = %d, want %d", i, it.ID, want[i])
		}
	}
}

func TestFanout_NoSources(t *testing.T) {
	items, err := (&Fanout{}).Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty result, got %d", len(items))
	}
}
