package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"har-capture/internal/domain"
	"har-capture/internal/usecase"
)

func rec(id, url string) domain.CaptureRecord {
	return domain.CaptureRecord{ID: id, URL: url, Method: "GET", Entries: 1, HAR: &domain.HAR{}}
}

func TestCapacityEviction(t *testing.T) {
	s := NewStore(2, 0)
	evicted := 0
	s.SetEvictHook(func(n int) { evicted += n })
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("c%d", i)
		if err := s.SaveCapture(ctx, rec(id, "http://x.test/"+id)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if evicted != 1 {
		t.Fatalf("evicted: %d", evicted)
	}
	if _, ok, _ := s.GetCapture(ctx, "c1"); ok {
		t.Fatalf("oldest record must be gone")
	}
	items, total, _ := s.ListCaptures(ctx, usecase.CaptureFilter{})
	if total != 2 || items[0].ID != "c2" || items[1].ID != "c3" {
		t.Fatalf("order: %+v", items)
	}
}

func TestTTLEviction(t *testing.T) {
	s := NewStore(10, 10*time.Millisecond)
	ctx := context.Background()
	_ = s.SaveCapture(ctx, rec("old", "http://x.test/old"))
	time.Sleep(25 * time.Millisecond)
	_ = s.SaveCapture(ctx, rec("new", "http://x.test/new"))

	if _, ok, _ := s.GetCapture(ctx, "old"); ok {
		t.Fatalf("expired record must be gone")
	}
	if _, ok, _ := s.GetCapture(ctx, "new"); !ok {
		t.Fatalf("fresh record must remain")
	}
}

func TestListFilterAndPaging(t *testing.T) {
	s := NewStore(10, 0)
	ctx := context.Background()
	_ = s.SaveCapture(ctx, rec("a", "http://alpha.test/x"))
	_ = s.SaveCapture(ctx, rec("b", "http://beta.test/x"))
	_ = s.SaveCapture(ctx, rec("c", "http://ALPHA.test/y"))

	items, total, _ := s.ListCaptures(ctx, usecase.CaptureFilter{Q: "alpha"})
	if total != 2 || items[0].ID != "a" || items[1].ID != "c" {
		t.Fatalf("filter: total=%d items=%+v", total, items)
	}
	if items[0].HAR != nil {
		t.Fatalf("summaries must not carry the HAR document")
	}

	items, total, _ = s.ListCaptures(ctx, usecase.CaptureFilter{Limit: 1, Offset: 1})
	if total != 3 || len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("paging: total=%d items=%+v", total, items)
	}

	items, _, _ = s.ListCaptures(ctx, usecase.CaptureFilter{Offset: 99})
	if len(items) != 0 {
		t.Fatalf("past-the-end offset: %+v", items)
	}
}

func TestDeleteAndClear(t *testing.T) {
	s := NewStore(10, 0)
	ctx := context.Background()
	_ = s.SaveCapture(ctx, rec("a", "http://x.test/a"))
	_ = s.SaveCapture(ctx, rec("b", "http://x.test/b"))

	if err := s.DeleteCapture(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteCapture(ctx, "missing"); err != nil {
		t.Fatalf("deleting a missing id is not an error: %v", err)
	}
	if _, total, _ := s.ListCaptures(ctx, usecase.CaptureFilter{}); total != 1 {
		t.Fatalf("total after delete: %d", total)
	}

	if err := s.ClearAllCaptures(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, total, _ := s.ListCaptures(ctx, usecase.CaptureFilter{}); total != 0 {
		t.Fatalf("total after clear: %d", total)
	}
}
