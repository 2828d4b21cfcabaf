package oscillo

import (
	"sync"
	"testing"
	"time"
)

func uniformSnapshot(v int16) *Snapshot {
	s := new(Snapshot)
	for ch := range s {
		for i := range s[ch].Samples {
			s[ch].Samples[i] = v
		}
		s[ch].Offset = uint32(v)
	}
	return s
}

func TestTryConsumeReturnsLastPublish(t *testing.T) {
	e := NewExchange()
	var got Snapshot

	if ok, fresh := e.TryConsume(&got); !ok || fresh {
		t.Fatalf("expected a stale copy before the first publish, got ok=%v fresh=%v", ok, fresh)
	}
	if !e.Publish(uniformSnapshot(7)) {
		t.Fatal("expected uncontended publish to succeed")
	}
	if ok, fresh := e.TryConsume(&got); !ok || !fresh {
		t.Fatalf("expected a fresh copy after publish, got ok=%v fresh=%v", ok, fresh)
	}
	if got[3].Samples[100] != 7 || got[10].Offset != 7 {
		t.Fatalf("expected published values, got sample %d offset %d", got[3].Samples[100], got[10].Offset)
	}
}

func TestTryConsumeCopiesAlreadySeenPublish(t *testing.T) {
	e := NewExchange()
	var got Snapshot

	e.Publish(uniformSnapshot(1))
	e.TryConsume(&got)

	got[0].Samples[0] = 99
	ok, fresh := e.TryConsume(&got)
	if !ok {
		t.Fatal("expected uncontended second consume to acquire the slot")
	}
	if fresh {
		t.Fatal("expected second consume to report a stale snapshot")
	}
	if got[0].Samples[0] != 1 {
		t.Fatalf("expected the last publish copied again, got %d", got[0].Samples[0])
	}
	if e.Stats().Consumed != 2 {
		t.Fatalf("expected two consumed snapshots, got %d", e.Stats().Consumed)
	}
}

func TestTryConsumeRefillsClearedDestination(t *testing.T) {
	e := NewExchange()
	var first, second Snapshot

	e.Publish(uniformSnapshot(4))
	e.TryConsume(&first)

	// A fresh destination, as after a display is torn down and rebuilt.
	if ok, _ := e.TryConsume(&second); !ok {
		t.Fatal("expected consume to succeed")
	}
	if second != first {
		t.Fatal("expected a new destination to receive the current slot")
	}
}

func TestPublishDropsWhileGuardHeld(t *testing.T) {
	e := NewExchange()
	e.Publish(uniformSnapshot(1))

	// Simulate a consumer in the middle of its copy.
	e.guard.Store(true)
	if e.Publish(uniformSnapshot(2)) {
		t.Fatal("expected publish to drop while the guard is held")
	}
	e.guard.Store(false)

	var got Snapshot
	if ok, _ := e.TryConsume(&got); !ok {
		t.Fatal("expected consume to succeed once the guard is free")
	}
	if got[0].Samples[0] != 1 {
		t.Fatalf("expected snapshot from the last successful publish, got %d", got[0].Samples[0])
	}

	stats := e.Stats()
	if stats.Published != 1 || stats.Dropped != 1 || stats.Consumed != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestTryConsumeMissesWhileGuardHeld(t *testing.T) {
	e := NewExchange()
	e.Publish(uniformSnapshot(5))

	var got Snapshot
	got[0].Samples[0] = -1

	e.guard.Store(true)
	if ok, _ := e.TryConsume(&got); ok {
		t.Fatal("expected consume to give up while the producer holds the guard")
	}
	e.guard.Store(false)

	if got[0].Samples[0] != -1 {
		t.Fatal("expected destination untouched on a missed consume")
	}
	if e.Stats().Missed != 1 {
		t.Fatalf("expected one missed consume, got %d", e.Stats().Missed)
	}
}

func TestExchangeNeverBlocks(t *testing.T) {
	e := NewExchange()
	e.guard.Store(true)
	defer e.guard.Store(false)

	done := make(chan struct{})
	go func() {
		var dst Snapshot
		for range 1000 {
			e.Publish(uniformSnapshot(3))
			e.TryConsume(&dst)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("expected publish and consume to return while the guard is held")
	}
}

func TestExchangeNeverTears(t *testing.T) {
	e := NewExchange()
	const publishes = 2000

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for v := range publishes {
			e.Publish(uniformSnapshot(int16(v)))
		}
		close(stop)
	}()

	var got Snapshot
	checked := 0
	for {
		select {
		case <-stop:
			wg.Wait()
			if checked == 0 {
				if ok, _ := e.TryConsume(&got); !ok {
					t.Fatal("expected at least one consumed snapshot")
				}
			}
			return
		default:
		}
		if ok, _ := e.TryConsume(&got); !ok {
			continue
		}
		checked++
		want := got[0].Samples[0]
		for ch := range got {
			if got[ch].Offset != uint32(want) {
				t.Fatalf("torn snapshot: channel %d offset %d, expected %d", ch, got[ch].Offset, want)
			}
			for i, v := range got[ch].Samples {
				if v != want {
					t.Fatalf("torn snapshot: channel %d sample %d is %d, expected %d", ch, i, v, want)
				}
			}
		}
	}
}
