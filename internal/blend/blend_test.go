package blend

import (
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-planetarium/internal/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestState_FadeIn(t *testing.T) {
	clk := clock.NewManual(epoch)
	b := New(false, 1000*time.Millisecond, clk)

	if b.State() || b.Opacity() != 0 {
		t.Fatalf("initial state = %v, opacity = %v", b.State(), b.Opacity())
	}

	b.SetTargetState(true)

	clk.Advance(500 * time.Millisecond)
	if op := b.Opacity(); math.Abs(op-0.5) > 0.05 {
		t.Errorf("opacity at 500ms = %v, want ≈ 0.5", op)
	}
	if !b.State() {
		t.Error("State() at 500ms should report busy (true)")
	}

	clk.Advance(600 * time.Millisecond)
	if !b.State() {
		t.Error("State() at 1100ms should be true")
	}
	if op := b.Opacity(); op != 1 {
		t.Errorf("opacity at 1100ms = %v, want 1", op)
	}
}

func TestState_FadeOut(t *testing.T) {
	clk := clock.NewManual(epoch)
	b := New(true, time.Second, clk)

	b.SetTargetState(false)

	clk.Advance(250 * time.Millisecond)
	if op := b.Opacity(); math.Abs(op-0.75) > 1e-9 {
		t.Errorf("opacity at 250ms = %v, want 0.75", op)
	}
	if !b.State() {
		t.Error("State() while fading out should still report true")
	}

	clk.Advance(time.Second)
	if op := b.Opacity(); op != 0 {
		t.Errorf("opacity after fade-out = %v, want 0", op)
	}
	if b.State() {
		t.Error("State() after fade-out should be false")
	}
}

func TestState_SetTargetStateUnchanged(t *testing.T) {
	clk := clock.NewManual(epoch)
	b := New(false, time.Second, clk)

	b.SetTargetState(true)
	clk.Advance(400 * time.Millisecond)

	// Re-requesting the same target must not restart the ramp.
	b.SetTargetState(true)
	if op := b.Opacity(); math.Abs(op-0.4) > 1e-9 {
		t.Errorf("opacity = %v, want 0.4", op)
	}
}

func TestState_SetState(t *testing.T) {
	clk := clock.NewManual(epoch)
	b := New(false, time.Second, clk)

	b.SetTargetState(true)
	clk.Advance(100 * time.Millisecond)
	b.SetState(false)

	if b.State() {
		t.Error("SetState(false) should settle immediately")
	}
	if b.TargetState() {
		t.Error("SetState should also reset the target")
	}
	if op := b.Opacity(); op != 0 {
		t.Errorf("opacity = %v, want 0", op)
	}

	b.SetState(true)
	if !b.State() || b.Opacity() != 1 {
		t.Errorf("after SetState(true): state = %v, opacity = %v", b.State(), b.Opacity())
	}
}

func TestState_ZeroDelay(t *testing.T) {
	clk := clock.NewManual(epoch)
	b := New(false, 0, clk)

	b.SetTargetState(true)
	if op := b.Opacity(); op != 1 {
		t.Errorf("opacity with zero delay = %v, want 1", op)
	}
	if !b.State() {
		t.Error("state with zero delay should be true")
	}
}

func TestState_Delay(t *testing.T) {
	b := New(false, time.Second, nil)
	b.SetDelay(2 * time.Second)
	if b.Delay() != 2*time.Second {
		t.Errorf("Delay() = %v, want 2s", b.Delay())
	}
}
