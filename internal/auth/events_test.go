package auth

import (
	"sync"
	"testing"
)

func TestBus_PublishReachesSubscriber(t *testing.T) {
	bus := NewBus()

	var got *Session
	bus.Subscribe(func(s *Session) { got = s })

	sess := &Session{ID: "sess_1", UserID: "usr_1"}
	bus.Publish(sess)

	if got == nil {
		t.Fatal("subscriber was not called")
	}
	if got.UserID != "usr_1" {
		t.Errorf("expected user 'usr_1', got '%s'", got.UserID)
	}
}

func TestBus_SubscribersRunInSubscriptionOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(func(*Session) { order = append(order, "first") })
	bus.Subscribe(func(*Session) { order = append(order, "second") })
	bus.Subscribe(func(*Session) { order = append(order, "third") })

	bus.Publish(&Session{})

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("call %d: expected '%s', got '%s'", i, want[i], order[i])
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsubscribe := bus.Subscribe(func(*Session) { calls++ })

	bus.Publish(&Session{})
	unsubscribe()
	bus.Publish(&Session{})

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()
	unsubscribe := bus.Subscribe(func(*Session) {})
	unsubscribe()
	unsubscribe()

	bus.Publish(&Session{})
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	bus.Publish(&Session{ID: "sess_lonely"})
}

func TestBus_ConcurrentSubscribe(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := bus.Subscribe(func(*Session) {})
			unsub()
		}()
	}
	wg.Wait()

	bus.Publish(&Session{})
}
