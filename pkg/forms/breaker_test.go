package forms

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(maxErrors, successes int) (*Breaker, *fakeClock, *[]string) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	var transitions []string
	b := NewBreaker(BreakerConfig{
		MaxErrors:        maxErrors,
		ResetTimeout:     time.Second,
		SuccessThreshold: successes,
		OnStateChange: func(from, to CircuitState) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	b.now = clock.now
	return b, clock, &transitions
}

func TestBreaker_Initial(t *testing.T) {
	b := NewBreaker(DefaultBreakerConfig())

	if b.State() != CircuitClosed {
		t.Errorf("expected initial state closed, got %v", b.State())
	}
	if err := b.Allow(); err != nil {
		t.Errorf("expected Allow() to succeed, got %v", err)
	}
}

func TestBreaker_OpensAfterMaxErrors(t *testing.T) {
	b, _, transitions := newTestBreaker(3, 1)

	b.RecordError()
	b.RecordError()
	if b.State() != CircuitClosed {
		t.Fatalf("expected closed after 2 errors, got %v", b.State())
	}

	b.RecordError()
	if b.State() != CircuitOpen {
		t.Fatalf("expected open after 3 errors, got %v", b.State())
	}
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if len(*transitions) != 1 || (*transitions)[0] != "closed->open" {
		t.Errorf("unexpected transitions %v", *transitions)
	}
}

func TestBreaker_SuccessResetsErrorCount(t *testing.T) {
	b, _, _ := newTestBreaker(2, 1)

	b.RecordError()
	b.RecordSuccess()
	b.RecordError()

	if b.State() != CircuitClosed {
		t.Errorf("expected closed, got %v", b.State())
	}
}

func TestBreaker_HalfOpenRecovers(t *testing.T) {
	b, clock, transitions := newTestBreaker(1, 2)

	b.RecordError()
	clock.advance(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to be allowed, got %v", err)
	}
	if b.State() != CircuitHalfOpen {
		t.Fatalf("expected half-open, got %v", b.State())
	}

	b.RecordSuccess()
	if b.State() != CircuitHalfOpen {
		t.Errorf("expected half-open after one success, got %v", b.State())
	}
	b.RecordSuccess()
	if b.State() != CircuitClosed {
		t.Errorf("expected closed after two successes, got %v", b.State())
	}

	want := []string{"closed->open", "open->half-open", "half-open->closed"}
	if len(*transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", *transitions, want)
	}
	for i := range want {
		if (*transitions)[i] != want[i] {
			t.Errorf("transition %d = %s, want %s", i, (*transitions)[i], want[i])
		}
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, clock, _ := newTestBreaker(1, 1)

	b.RecordError()
	clock.advance(2 * time.Second)
	_ = b.Allow()
	b.RecordError()

	if b.State() != CircuitOpen {
		t.Errorf("expected open, got %v", b.State())
	}
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Errorf("expected ErrCircuitOpen right after reopening, got %v", err)
	}
}

func TestCircuitState_String(t *testing.T) {
	tests := map[CircuitState]string{
		CircuitClosed:    "closed",
		CircuitOpen:      "open",
		CircuitHalfOpen:  "half-open",
		CircuitState(42): "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}
