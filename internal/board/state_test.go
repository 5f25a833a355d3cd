package board

import "testing"

func TestSnapshot(t *testing.T) {
	var s Snapshot[[]string]
	if s.Loaded() {
		t.Error("zero snapshot reported loaded")
	}
	if _, ok := s.Get(); ok {
		t.Error("zero snapshot Get reported ok")
	}

	s.Set(nil)
	if !s.Loaded() {
		t.Error("an empty delivery still counts as loaded")
	}
	s.Set([]string{"RD"})
	v, ok := s.Get()
	if !ok || len(v) != 1 || v[0] != "RD" {
		t.Errorf("Get() = %v, %v", v, ok)
	}
	if s.Version() != 2 {
		t.Errorf("Version() = %d, want 2", s.Version())
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseUninitialized, "uninitialized"},
		{PhaseConfigError, "config-error"},
		{PhaseAwaitingFirstData, "awaiting-first-data"},
		{PhaseReady, "ready"},
		{Phase(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestScheduler(t *testing.T) {
	var s Scheduler
	if s.IsOpen() {
		t.Fatal("zero scheduler should start closed")
	}
	for i := 0; i < 3; i++ {
		if s.Request() {
			t.Fatal("closed scheduler allowed a render")
		}
	}
	if n := s.Open(); n != 3 {
		t.Errorf("Open() = %d coalesced, want 3", n)
	}
	if !s.Request() {
		t.Error("open scheduler refused a render")
	}
	if n := s.Open(); n != 0 {
		t.Errorf("second Open() = %d, want 0", n)
	}
}

func TestStateHasData(t *testing.T) {
	newState := func() State { return State{Phase: PhaseAwaitingFirstData} }
	if newState().HasData() {
		t.Error("fresh state reported data")
	}

	var s State
	s.Buses.Set(nil)
	if !s.HasData() {
		t.Error("a delivered stream should count as data")
	}
	copied := s
	if !copied.HasData() {
		t.Error("copy lost the delivered stream")
	}
}
