package clock

import (
	"testing"
	"time"
)

func TestFake_AdvanceFiresInOrder(t *testing.T) {
	c := NewFake(time.Unix(0, 0))

	var got []string
	c.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	c.AfterFunc(1*time.Second, func() { got = append(got, "a") })
	c.AfterFunc(5*time.Second, func() { got = append(got, "c") })

	c.Advance(2 * time.Second)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("after 2s got %v, want [a b]", got)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending: got %d, want 1", c.Pending())
	}

	c.Advance(3 * time.Second)
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("after 5s got %v", got)
	}
	if !c.Now().Equal(time.Unix(5, 0)) {
		t.Errorf("Now: got %v", c.Now())
	}
}

func TestFake_ChainedCallbacksWithinOneAdvance(t *testing.T) {
	c := NewFake(time.Unix(0, 0))

	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		if ticks < 5 {
			c.AfterFunc(time.Second, tick)
		}
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(10 * time.Second)
	if ticks != 5 {
		t.Errorf("ticks: got %d, want 5", ticks)
	}
}

func TestFake_Stop(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })
	if !tm.Stop() {
		t.Fatal("Stop returned false for pending timer")
	}
	c.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if tm.Stop() {
		t.Error("second Stop should return false")
	}
}
