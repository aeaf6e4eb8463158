package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	r := New()
	stop := r.Track("a")
	time.Sleep(time.Millisecond)
	stop()
	r.Track("a")()

	got := r.Snapshot()["a"]
	if got < time.Millisecond {
		t.Fatalf("got %v, want at least 1ms", got)
	}
}

func TestDisabledRecorderDropsSamples(t *testing.T) {
	r := New()
	r.SetEnabled(false)
	r.Track("a")()
	if n := len(r.Snapshot()); n != 0 {
		t.Fatalf("got %d entries, want 0", n)
	}
	if on := r.Toggle(); !on {
		t.Fatal("toggle should enable")
	}
	r.Track("a")()
	if _, ok := r.Snapshot()["a"]; !ok {
		t.Fatal("sample missing after enabling")
	}
}

func TestNilRecorderTrack(t *testing.T) {
	var r *Recorder
	r.Track("a")()
}

func TestResetFrame(t *testing.T) {
	r := New()
	r.Track("a")()
	r.ResetFrame()
	if n := len(r.Snapshot()); n != 0 {
		t.Fatalf("got %d entries after reset, want 0", n)
	}
	if f := r.Frames(); f != 1 {
		t.Fatalf("got %d frames, want 1", f)
	}
	if _, ok := r.LastFrame()["a"]; !ok {
		t.Fatal("previous frame lost its sample")
	}

	r.Track("b")()
	r.ResetFrame()
	last := r.LastFrame()
	if _, ok := last["a"]; ok {
		t.Fatal("sample from two frames ago survived")
	}
	if _, ok := last["b"]; !ok {
		t.Fatal("sample from last frame missing")
	}
}

func TestTopN(t *testing.T) {
	r := New()
	r.totals["slow"] = 4200 * time.Microsecond
	r.totals["fast"] = 300 * time.Microsecond
	r.totals["whole"] = 2 * time.Millisecond

	got := r.TopN(2)
	want := "slow:4.2ms, whole:2ms"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if all := r.TopN(10); strings.Count(all, ",") != 2 {
		t.Fatalf("got %q, want three entries", all)
	}
}
