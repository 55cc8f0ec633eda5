package batch

import (
	"fmt"

	"github.com/facewire/facewire/pkg/packet"
)

// Item is one decomposed tick: the companion clone paired with a list
// element. Each item tick is independent; the executor may process them
// concurrently or sequentially, and collectors restore input order either
// way because they observe ticks in sequence position.
type Item[C, R any] struct {
	Companion C
	Value     R
}

// Split is the per-tick semantics of BeginItemLoop: it turns a list and its
// companion into ordered item ticks plus the end-of-batch marker. An empty
// list yields no items and a Size-0 marker, never an absent marker.
func Split[C, R any](companion C, items []R) ([]Item[C, R], Marker) {
	out := make([]Item[C, R], len(items))
	for i, v := range items {
		out[i] = Item[C, R]{Companion: companion, Value: v}
	}
	return out, Marker{Size: len(items)}
}

// Collector is the per-tick semantics of EndItemLoop for one output
// channel. It buffers one result per item tick and emits the recomposed
// list when the batch marker arrives.
//
// A suppressed item (absent tick, e.g. landmarks gated off by a false
// presence flag) contributes the zero value of T as a placeholder. This
// keeps every recomposed list at exactly the batch length, so the parallel
// output channels of a body pipeline stay index-aligned with the input list
// and with each other; callers use the presence channel to tell placeholders
// from real values.
type Collector[T any] struct {
	buf []T
}

// Collect buffers the result of the next item tick, in order.
func (c *Collector[T]) Collect(item packet.Maybe[T]) {
	c.buf = append(c.buf, item.OrZero())
}

// Flush emits the recomposed list for the batch ending with end, and
// resets the collector for the next batch. The list length always equals
// end.Size; a mismatch means the executor delivered the wrong number of
// item ticks for this batch. The buffer is reset either way, so a bad
// batch does not bleed into the next one.
func (c *Collector[T]) Flush(end Marker) ([]T, error) {
	if got := len(c.buf); got != end.Size {
		c.buf = c.buf[:0]
		return nil, fmt.Errorf("batch: collected %d items for a batch of %d", got, end.Size)
	}
	out := make([]T, end.Size)
	copy(out, c.buf)
	c.buf = c.buf[:0]
	return out, nil
}
