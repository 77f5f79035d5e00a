package ui

import (
	"testing"
	"time"

	"github.com/rivo/tview"
)

func TestSchedulerDropsAfterClose(t *testing.T) {
	s := NewScheduler(tview.NewApplication())
	s.Close()
	s.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2*cap(s.queue); i++ {
			s.Schedule(func() { t.Error("ran after close") })
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Schedule blocked after Close")
	}
	if n := len(s.queue); n != 0 {
		t.Errorf("queued %d functions after close", n)
	}
}
