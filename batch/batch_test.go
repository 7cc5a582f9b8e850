package batch

import (
	"slices"
	"testing"
)

func TestDefaultCapacity(t *testing.T) {
	if got := DefaultCapacity[int64](); got != 1024 {
		t.Errorf("int64: expected 1024, got %d", got)
	}
	if got := DefaultCapacity[struct{}](); got != bufferSize {
		t.Errorf("struct{}: expected %d, got %d", bufferSize, got)
	}
	if got := DefaultCapacity[[1 << 14]byte](); got != 1 {
		t.Errorf("large record: expected 1, got %d", got)
	}
}

func TestNew_DefaultCapacity(t *testing.T) {
	b := New[int32](0)
	if b.Len() != 0 {
		t.Fatalf("expected empty batch, got %d records", b.Len())
	}
	if b.Cap() != DefaultCapacity[int32]() {
		t.Errorf("expected capacity %d, got %d", DefaultCapacity[int32](), b.Cap())
	}
}

func TestBatch_AppendExtend(t *testing.T) {
	b := New[int](4)
	b.Append(1, 2)
	b.Extend([]int{3, 4, 5})

	if !slices.Equal(b.Data(), []int{1, 2, 3, 4, 5}) {
		t.Errorf("expected [1 2 3 4 5], got %v", b.Data())
	}
}

func TestBatch_TakeKeepsCapacity(t *testing.T) {
	b := New[int](8)
	b.Append(1, 2, 3)

	got := b.Take()
	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("expected [1 2 3], got %v", got)
	}
	if b.Len() != 0 {
		t.Errorf("expected empty batch after Take, got %d records", b.Len())
	}
	if b.Cap() != 8 {
		t.Errorf("expected capacity 8 after Take, got %d", b.Cap())
	}

	// The taken slice must be independent of the batch storage.
	b.Append(9)
	if got[0] != 1 {
		t.Errorf("taken records changed after append: %v", got)
	}
}

func TestBatch_TakeReusesRecycled(t *testing.T) {
	b := New[int](4)
	b.Append(1, 2)
	first := b.Take()
	b.Recycle(first)

	b.Append(3, 4)
	second := b.Take()
	if !slices.Equal(second, []int{3, 4}) {
		t.Fatalf("expected [3 4], got %v", second)
	}

	b.Append(5)
	if &b.Data()[0] != &first[0] {
		t.Errorf("expected recycled storage to back the batch")
	}
}

func TestBatch_RecycleClearsContents(t *testing.T) {
	b := New[*int](2)
	v := 1
	b.Append(&v)
	buf := b.Take()
	b.Recycle(buf)

	if buf[0] != nil {
		t.Errorf("expected recycled storage to be zeroed")
	}
}

func TestBatch_ReplaceSwapsContents(t *testing.T) {
	b := From([]string{"a", "b"})
	prev := b.Replace([]string{"c"})

	if !slices.Equal(prev, []string{"a", "b"}) {
		t.Errorf("expected previous [a b], got %v", prev)
	}
	if !slices.Equal(b.Data(), []string{"c"}) {
		t.Errorf("expected [c], got %v", b.Data())
	}
}

func TestBatch_Each(t *testing.T) {
	b := From([]int{1, 2, 3})
	b.Each(func(d *int) { *d *= 10 })

	if !slices.Equal(b.Data(), []int{10, 20, 30}) {
		t.Errorf("expected [10 20 30], got %v", b.Data())
	}
}

func TestBatch_CloneIsIndependent(t *testing.T) {
	b := From([]int{1, 2, 3})
	c := b.Clone()
	c.Data()[0] = 100

	if b.Data()[0] != 1 {
		t.Errorf("mutating the clone changed the original: %v", b.Data())
	}
}

func TestBatch_ResetKeepsStorage(t *testing.T) {
	b := New[int](16)
	b.Append(1, 2, 3)
	b.Reset()

	if b.Len() != 0 || b.Cap() != 16 {
		t.Errorf("expected len 0 cap 16, got len %d cap %d", b.Len(), b.Cap())
	}
}

func TestBatch_StableCycleDoesNotGrow(t *testing.T) {
	b := New[int](32)
	records := make([]int, 32)

	for range 100 {
		b.Extend(records)
		b.Recycle(b.Take())
	}
	if b.Cap() != 32 {
		t.Errorf("expected capacity to stay 32, got %d", b.Cap())
	}
}
