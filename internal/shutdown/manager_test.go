package shutdown

import (
	"os"
	"sync"
	"testing"
	"time"

	"hsv-range-finder/internal/logger"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

type component struct {
	name  string
	rec   *recorder
	block chan struct{}
}

func (c *component) Shutdown() {
	if c.block != nil {
		<-c.block
	}
	c.rec.add(c.name)
}

func TestShutdownRunsInReverseOrderOnce(t *testing.T) {
	rec := &recorder{}
	m := NewManager(logger.NewNop(), nil)
	for _, name := range []string{"repository", "cache", "coalescer"} {
		m.Register(name, &component{name: name, rec: rec})
	}
	completed := 0
	m.OnComplete(func() { completed++ })

	m.Shutdown()
	m.Shutdown()

	want := []string{"coalescer", "cache", "repository"}
	if len(rec.order) != len(want) {
		t.Fatalf("order = %v, want %v", rec.order, want)
	}
	for i := range want {
		if rec.order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, rec.order[i], want[i])
		}
	}
	if completed != 1 {
		t.Errorf("completion hooks ran %d times, want 1", completed)
	}
}

func TestShutdownSkipsStuckComponent(t *testing.T) {
	rec := &recorder{}
	block := make(chan struct{})
	defer close(block)

	m := NewManager(logger.NewNop(), nil)
	m.SetTimeout(20 * time.Millisecond)
	m.Register("first", &component{name: "first", rec: rec})
	m.Register("stuck", &component{name: "stuck", rec: rec, block: block})

	m.Shutdown()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.order) != 1 || rec.order[0] != "first" {
		t.Errorf("order = %v, want [first]", rec.order)
	}
}

func TestSignalShutdownRunsThroughDispatcher(t *testing.T) {
	rec := &recorder{}
	var queued []func()
	m := NewManager(logger.NewNop(), func(fn func()) { queued = append(queued, fn) })
	m.Register("cache", &component{name: "cache", rec: rec})
	m.Register("repository", &component{name: "repository", rec: rec})

	m.signalled(os.Interrupt)

	if len(rec.order) != 0 {
		t.Fatalf("components stopped on the signal goroutine: %v", rec.order)
	}
	if len(queued) != 1 {
		t.Fatalf("dispatched %d functions, want 1", len(queued))
	}

	queued[0]()

	if len(rec.order) != 2 || rec.order[0] != "repository" || rec.order[1] != "cache" {
		t.Errorf("order = %v, want [repository cache]", rec.order)
	}
}
