package chat

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

var errGone = errors.New("connection gone")

// recorder is a Subscriber that keeps every message it is sent.
type recorder struct {
	id   string
	fail bool

	mu       sync.Mutex
	attempts int
	messages []string
}

func newRecorder(id string) *recorder {
	return &recorder{id: id}
}

func (r *recorder) ID() string { return r.id }

func (r *recorder) Send(message []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.fail {
		return errGone
	}
	r.messages = append(r.messages, string(message))
	return nil
}

func (r *recorder) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func (r *recorder) sendAttempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

func TestRoomSubscribeUnsubscribeCounts(t *testing.T) {
	room := NewRoom("general")
	a, b, c := newRecorder("a"), newRecorder("b"), newRecorder("c")

	steps := []struct {
		name      string
		apply     func() bool
		wantOK    bool
		wantCount int
	}{
		{"subscribe a", func() bool { return room.Subscribe(a) }, true, 1},
		{"subscribe b", func() bool { return room.Subscribe(b) }, true, 2},
		{"subscribe a again", func() bool { return room.Subscribe(a) }, false, 2},
		{"unsubscribe c never added", func() bool { return room.Unsubscribe(c) }, false, 2},
		{"unsubscribe a", func() bool { return room.Unsubscribe(a) }, true, 1},
		{"unsubscribe a twice", func() bool { return room.Unsubscribe(a) }, false, 1},
		{"subscribe c", func() bool { return room.Subscribe(c) }, true, 2},
		{"unsubscribe b", func() bool { return room.Unsubscribe(b) }, true, 1},
	}

	for _, step := range steps {
		if ok := step.apply(); ok != step.wantOK {
			t.Fatalf("%s: got %v, want %v", step.name, ok, step.wantOK)
		}
		if got := room.Len(); got != step.wantCount {
			t.Fatalf("%s: room has %d subscribers, want %d", step.name, got, step.wantCount)
		}
	}

	subs := room.Subscribers()
	if len(subs) != 1 || subs[0] != c {
		t.Fatalf("Expected only c to remain, got %v", subs)
	}
}

func TestRoomKeepsJoinOrder(t *testing.T) {
	room := NewRoom("ordered")
	subs := []*recorder{newRecorder("1"), newRecorder("2"), newRecorder("3"), newRecorder("4")}
	for _, s := range subs {
		room.Subscribe(s)
	}
	room.Unsubscribe(subs[1])

	got := room.Subscribers()
	want := []string{"1", "3", "4"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d subscribers, got %d", len(want), len(got))
	}
	for i, s := range got {
		if s.ID() != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], s.ID())
		}
	}
}

func TestRoomPublishAttemptsEverySubscriberOnce(t *testing.T) {
	room := NewRoom("general")
	subs := make([]*recorder, 5)
	for i := range subs {
		subs[i] = newRecorder(fmt.Sprintf("c%d", i))
		room.Subscribe(subs[i])
	}
	room.Unsubscribe(subs[0])
	room.Subscribe(subs[0])

	delivered := room.Publish([]byte("ping"))
	if delivered != len(subs) {
		t.Errorf("Expected %d deliveries, got %d", len(subs), delivered)
	}
	for _, s := range subs {
		if n := s.sendAttempts(); n != 1 {
			t.Errorf("Subscriber %s: expected 1 send attempt, got %d", s.id, n)
		}
	}
}

func TestRoomPublishIsolatesFailures(t *testing.T) {
	room := NewRoom("general")
	first, broken, last := newRecorder("first"), newRecorder("broken"), newRecorder("last")
	broken.fail = true
	room.Subscribe(first)
	room.Subscribe(broken)
	room.Subscribe(last)

	delivered := room.Publish([]byte("hello"))
	if delivered != 2 {
		t.Errorf("Expected 2 successful deliveries, got %d", delivered)
	}
	if broken.sendAttempts() != 1 {
		t.Errorf("Expected the broken subscriber to be attempted once, got %d", broken.sendAttempts())
	}
	for _, s := range []*recorder{first, last} {
		if got := s.received(); len(got) != 1 || got[0] != "hello" {
			t.Errorf("Subscriber %s received %v, want [hello]", s.id, got)
		}
	}
	if room.Len() != 3 {
		t.Errorf("Publish must not remove subscribers, room has %d", room.Len())
	}
}

func TestRoomPublishEmpty(t *testing.T) {
	room := NewRoom("empty")
	if delivered := room.Publish([]byte("nobody home")); delivered != 0 {
		t.Errorf("Expected 0 deliveries, got %d", delivered)
	}
}

func TestRoomPublishOrderIsSharedAcrossSubscribers(t *testing.T) {
	room := NewRoom("race")
	listeners := []*recorder{newRecorder("x"), newRecorder("y"), newRecorder("z")}
	for _, l := range listeners {
		room.Subscribe(l)
	}

	const publishers, perPublisher = 8, 50
	var wg sync.WaitGroup
	wg.Add(publishers)
	for p := 0; p < publishers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				room.Publish([]byte(fmt.Sprintf("%d-%d", p, i)))
			}
		}(p)
	}
	wg.Wait()

	reference := listeners[0].received()
	if len(reference) != publishers*perPublisher {
		t.Fatalf("Expected %d messages, got %d", publishers*perPublisher, len(reference))
	}
	for _, l := range listeners[1:] {
		got := l.received()
		if len(got) != len(reference) {
			t.Fatalf("Subscriber %s got %d messages, want %d", l.id, len(got), len(reference))
		}
		for i := range got {
			if got[i] != reference[i] {
				t.Fatalf("Subscriber %s diverged at %d: %q vs %q", l.id, i, got[i], reference[i])
			}
		}
	}
}

func TestRoomConcurrentMembershipChanges(t *testing.T) {
	room := NewRoom("busy")
	const workers = 20

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			s := newRecorder(fmt.Sprintf("w%d", i))
			room.Subscribe(s)
			room.Publish([]byte("tick"))
			if i%2 == 0 {
				room.Unsubscribe(s)
			}
		}(i)
	}
	wg.Wait()

	if got := room.Len(); got != workers/2 {
		t.Errorf("Expected %d subscribers left, got %d", workers/2, got)
	}
}
