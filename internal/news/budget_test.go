package news

import (
	"sync"
	"testing"
)

func TestCallBudgetExactness(t *testing.T) {
	b := NewCallBudget(3)

	for i := 0; i < 3; i++ {
		if !b.TryConsume() {
			t.Fatalf("TryConsume %d refused below ceiling", i+1)
		}
	}
	if b.TryConsume() {
		t.Error("TryConsume succeeded past the ceiling")
	}
	if b.Used() != 3 {
		t.Errorf("Used() = %d, want 3", b.Used())
	}
	if b.Remaining() {
		t.Error("Remaining() = true at ceiling")
	}
}

func TestCallBudgetZeroCeiling(t *testing.T) {
	b := NewCallBudget(0)
	if b.Remaining() {
		t.Error("zero-ceiling budget reports remaining")
	}
	if b.TryConsume() {
		t.Error("zero-ceiling budget allowed a consume")
	}
}

func TestCallBudgetConcurrent(t *testing.T) {
	b := NewCallBudget(50)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.TryConsume() {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 50 {
		t.Errorf("granted %d consumes, want exactly 50", granted)
	}
	if b.Used() != 50 {
		t.Errorf("Used() = %d, want 50", b.Used())
	}
}
