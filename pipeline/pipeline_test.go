package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"
)

func TestFromSlice_Collect(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]int{1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestFromSlice_Empty(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]int{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestFromSlice_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Collect(ctx, FromSlice([]int{1})); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPipeline_RunsTwice(t *testing.T) {
	p := Enumerate(FromSlice([]string{"a", "b"}))
	for run := range 2 {
		got, err := Collect(context.Background(), p)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got[0].Index != 0 || got[1].Index != 1 || got[1].Value != "b" {
			t.Errorf("run %d: got %+v", run, got)
		}
	}
}

func TestMap(t *testing.T) {
	strs := Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (string, error) {
		return fmt.Sprintf("#%d", n), nil
	})
	got, err := Collect(context.Background(), strs)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != "#1" || got[2] != "#3" {
		t.Errorf("got %v", got)
	}
}

func TestMap_Error(t *testing.T) {
	fail := Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errors.New("bad value")
		}
		return n, nil
	})
	got, err := Collect(context.Background(), fail)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected [1] before error, got %v", got)
	}
}

func TestFilter(t *testing.T) {
	evens := Filter(FromSlice([]int{1, 2, 3, 4, 5, 6}), func(n int) bool { return n%2 == 0 })
	got, err := Collect(context.Background(), evens)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{2, 4, 6}) {
		t.Errorf("got %v, want [2 4 6]", got)
	}
}

func TestEnumerate(t *testing.T) {
	got, err := Collect(context.Background(), Enumerate(FromSlice([]string{"a", "b", "c"})))
	if err != nil {
		t.Fatal(err)
	}
	for i, item := range got {
		if item.Index != i {
			t.Errorf("item %d has index %d", i, item.Index)
		}
	}
	if got[2].Value != "c" {
		t.Errorf("unexpected value %q", got[2].Value)
	}
}

func TestReduce_First(t *testing.T) {
	sum := Reduce(FromSlice([]int{1, 2, 3, 4}), 0, func(acc, n int) int { return acc + n })
	got, ok, err := First(context.Background(), sum)
	if err != nil || !ok {
		t.Fatalf("First() = %v, %v, %v", got, ok, err)
	}
	if got != 10 {
		t.Errorf("got %d, want 10", got)
	}

	empty := Reduce(FromSlice([]int(nil)), 7, func(acc, n int) int { return acc + n })
	got, ok, err = First(context.Background(), empty)
	if err != nil || !ok || got != 7 {
		t.Errorf("expected initial accumulator for empty input, got %v %v %v", got, ok, err)
	}
}

func TestParallel(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}
	var calls atomic.Int64
	squared := Parallel(FromSlice(items), 4, func(_ context.Context, n int) (int, error) {
		calls.Add(1)
		return n * n, nil
	})
	got, err := Collect(context.Background(), squared)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 100 || calls.Load() != 100 {
		t.Fatalf("expected 100 results and calls, got %d / %d", len(got), calls.Load())
	}
	sort.Ints(got)
	if got[99] != 99*99 {
		t.Errorf("unexpected max %d", got[99])
	}
}

func TestParallel_IndexedWriteBack(t *testing.T) {
	words := []string{"zero", "one", "two", "three", "four", "five"}
	results := make([]string, len(words))
	upper := Parallel(Enumerate(FromSlice(words)), 3, func(_ context.Context, in Indexed[string]) (Indexed[string], error) {
		return Indexed[string]{Index: in.Index, Value: in.Value + "!"}, nil
	})
	err := ForEach(context.Background(), upper, func(_ context.Context, r Indexed[string]) error {
		results[r.Index] = r.Value
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range words {
		if results[i] != w+"!" {
			t.Errorf("results[%d] = %q", i, results[i])
		}
	}
}

func TestParallel_Error(t *testing.T) {
	failing := Parallel(FromSlice([]int{1, 2, 3, 4, 5}), 2, func(_ context.Context, n int) (int, error) {
		if n == 3 {
			return 0, errors.New("worker failed")
		}
		return n, nil
	})
	if _, err := Collect(context.Background(), failing); err == nil {
		t.Error("expected worker error")
	}
}

func TestParallel_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := Parallel(FromSlice([]int{1, 2, 3}), 2, func(_ context.Context, n int) (int, error) { return n, nil })
	if _, err := Collect(ctx, p); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestParallel_NonPositiveWorkers(t *testing.T) {
	p := Parallel(FromSlice([]int{1, 2}), 0, func(_ context.Context, n int) (int, error) { return n, nil })
	got, err := Collect(context.Background(), p)
	if err != nil || len(got) != 2 {
		t.Errorf("got %v, %v", got, err)
	}
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
