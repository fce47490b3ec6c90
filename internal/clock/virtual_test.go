package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtualClock_Advance(t *testing.T) {
	vc := NewVirtualClock(epoch)
	vc.Advance(5 * time.Minute)

	want := epoch.Add(5 * time.Minute)
	if got := vc.Now(); !got.Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestVirtualClock_AdvanceNegativePanics(t *testing.T) {
	vc := NewVirtualClock(epoch)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on negative advance")
		}
	}()
	vc.Advance(-1 * time.Second)
}

func TestVirtualClock_SetPastPanics(t *testing.T) {
	vc := NewVirtualClock(epoch)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on setting time to the past")
		}
	}()
	vc.Set(epoch.Add(-1 * time.Hour))
}

func TestVirtualClock_AfterFiresOnAdvance(t *testing.T) {
	vc := NewVirtualClock(epoch)
	ch := vc.After(10 * time.Second)

	vc.Advance(5 * time.Second)
	select {
	case <-ch:
		t.Fatal("After fired before its deadline")
	default:
	}
	if vc.pending() != 1 {
		t.Errorf("pending() = %d, want 1", vc.pending())
	}

	vc.Advance(5 * time.Second)
	select {
	case got := <-ch:
		if want := epoch.Add(10 * time.Second); !got.Equal(want) {
			t.Errorf("After delivered %v, want %v", got, want)
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestVirtualClock_AfterZeroFiresImmediately(t *testing.T) {
	vc := NewVirtualClock(epoch)
	select {
	case <-vc.After(0):
	default:
		t.Fatal("After(0) should fire immediately")
	}
}

func TestAutoClock_AfterAdvances(t *testing.T) {
	vc := NewAutoClock(epoch)
	start := vc.Now()

	<-vc.After(250 * time.Millisecond)
	<-vc.After(750 * time.Millisecond)

	if got := vc.Since(start); got != time.Second {
		t.Errorf("Since(start) = %v, want 1s", got)
	}
}

func TestRealClock(t *testing.T) {
	c := NewRealClock()
	start := c.Now()
	<-c.After(time.Millisecond)
	if c.Since(start) < time.Millisecond {
		t.Error("RealClock.After returned early")
	}
}
