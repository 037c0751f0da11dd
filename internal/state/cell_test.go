package state

import (
	"sync"
	"testing"
)

func TestCell_InitialValue(t *testing.T) {
	c := NewCell(42)

	if got := c.Load(); got != 42 {
		t.Errorf("Load() = %d, want 42", got)
	}
}

func TestCell_StoreReplacesWholeValue(t *testing.T) {
	type record struct {
		A, B int
	}

	c := NewCell(record{A: 1, B: 2})
	c.Store(record{A: 3})

	got := c.Load()
	if got.A != 3 || got.B != 0 {
		t.Errorf("Load() = %+v, want whole-value replacement {3 0}", got)
	}
}

func TestCell_ConcurrentReadersSeeConsistentRecords(t *testing.T) {
	type record struct {
		X, Y int
	}

	// The producer only ever stores records with X == Y. Readers must
	// never observe a record where the two halves disagree.
	c := NewCell(record{})

	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				c.Store(record{X: i, Y: i})
			}
		}
	}()

	var readers sync.WaitGroup
	for r := 0; r < 4; r++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for i := 0; i < 10000; i++ {
				got := c.Load()
				if got.X != got.Y {
					t.Errorf("observed torn record %+v", got)
					return
				}
			}
		}()
	}

	readers.Wait()
	close(stop)
	<-done
}
