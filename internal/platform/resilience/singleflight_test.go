package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions int32
	var shared int32

	const callers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			value, err, wasShared := g.Do("standings-2024", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				time.Sleep(20 * time.Millisecond)
				return "loaded", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if value != "loaded" {
				t.Errorf("unexpected value: %v", value)
			}
			if wasShared {
				atomic.AddInt32(&shared, 1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Fatalf("expected one execution, got %d", got)
	}
	if got := atomic.LoadInt32(&shared); got != callers-1 {
		t.Fatalf("expected %d shared results, got %d", callers-1, got)
	}
}

func TestSingleFlight_SequentialCallsRunSeparately(t *testing.T) {
	var g SingleFlight
	runs := 0

	for i := 0; i < 2; i++ {
		_, err, wasShared := g.Do("standings-2024", func() (any, error) {
			runs++
			return nil, nil
		})
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if wasShared {
			t.Fatalf("call %d should not be shared", i)
		}
	}

	if runs != 2 {
		t.Fatalf("expected two executions, got %d", runs)
	}
}
