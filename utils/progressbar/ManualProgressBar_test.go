package progressbar

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestIncrementIsCapped(t *testing.T) {
	p := NewManualProgressBar(&bytes.Buffer{}, 10, 4)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Increment()
		}()
	}
	wg.Wait()

	if got := p.Progress(); got != 1 {
		t.Errorf("expected progress 1, got %v", got)
	}
}

func TestDisplay(t *testing.T) {
	var out bytes.Buffer
	p := NewManualProgressBar(&out, 4, 2)
	p.Increment()
	p.Display()

	if !strings.Contains(out.String(), "50.00%") {
		t.Errorf("unexpected progress bar %q", out.String())
	}
	if got := strings.Count(p.String(), "█"); got != 2 {
		t.Errorf("expected 2 filled cells, got %d", got)
	}
}
