package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/bountyclock/internal/bounty"
	"github.com/five82/bountyclock/internal/stats"
)

func TestStore_PublishAndSnapshotClone(t *testing.T) {
	s := NewStore("/tmp/EE.log")

	view := bounty.View{
		Status:    "Tent A: Capture",
		Bounty:    bounty.Bounty{Names: []string{"Capture"}},
		HasBounty: true,
		Best:      stats.NewBestTimes(),
	}
	view.Best.OfferStage(stats.KindCapture, 30)

	before := time.Now()
	s.Publish(view)

	snap := s.Snapshot()
	if !snap.HasView || snap.View.Status != "Tent A: Capture" {
		t.Fatalf("snapshot view = %#v, want published status", snap.View)
	}
	if snap.LogPath != "/tmp/EE.log" {
		t.Fatalf("LogPath = %q", snap.LogPath)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	snap.View.Bounty.Names[0] = "mutated"
	snap.View.Best.Stages[stats.KindCapture] = stats.Record{}
	snap2 := s.Snapshot()
	if snap2.View.Bounty.Names[0] != "Capture" {
		t.Fatal("Snapshot should clone bounty names")
	}
	if !snap2.View.Best.Stage(stats.KindCapture).Set {
		t.Fatal("Snapshot should clone best records")
	}
}

func TestStore_TickAndGenerationReset(t *testing.T) {
	s := NewStore("")

	if s.Tick(time.Second) {
		t.Fatal("Tick() = true while idle, want false")
	}

	running := bounty.View{MissionGen: 1, Session: bounty.Session{MissionActive: true}}
	s.Publish(running)
	s.Tick(time.Second)
	s.Tick(time.Second)
	if got := s.Snapshot().MissionTimer(); got != 2*time.Second {
		t.Fatalf("MissionTimer = %v, want 2s", got)
	}

	// Same generation keeps counting.
	s.Publish(running)
	s.Tick(time.Second)
	if got := s.Snapshot().LiveMission; got != 3*time.Second {
		t.Fatalf("LiveMission = %v, want 3s", got)
	}

	// New mission restarts the counter.
	running.MissionGen = 2
	s.Publish(running)
	if got := s.Snapshot().LiveMission; got != 0 {
		t.Fatalf("LiveMission = %v, want 0 after new mission", got)
	}

	staged := running
	staged.StageGen = 1
	staged.Session.StageActive = true
	s.Publish(staged)
	if !s.Tick(time.Second) {
		t.Fatal("Tick() = false while running")
	}
	if got := s.Snapshot().StageTimer(); got != time.Second {
		t.Fatalf("StageTimer = %v, want 1s", got)
	}
}

func TestSnapshot_TimersUseFrozenValuesWhenIdle(t *testing.T) {
	snap := Snapshot{
		LiveMission: 9 * time.Second,
		LiveStage:   9 * time.Second,
		View: bounty.View{Session: bounty.Session{
			Elapsed:      61.5,
			StageElapsed: 4.25,
		}},
	}
	if got := snap.MissionTimer(); got != 61500*time.Millisecond {
		t.Fatalf("MissionTimer = %v, want 61.5s", got)
	}
	if got := snap.StageTimer(); got != 4250*time.Millisecond {
		t.Fatalf("StageTimer = %v, want 4.25s", got)
	}
}

func TestStore_ReportErrorKeepsPreviousData(t *testing.T) {
	s := NewStore("")
	s.Publish(bounty.View{Status: "Waiting for bounty"})

	origErr := errors.New("boom")
	s.ReportError(origErr)

	snap := s.Snapshot()
	if snap.View.Status != "Waiting for bounty" {
		t.Fatalf("status changed on error: %q", snap.View.Status)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	s := NewStore("")

	if s.Snapshot().IsStalled() {
		t.Fatal("IsStalled() = true, want false with 0 failures")
	}
	s.ReportError(errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsStalled() {
		t.Fatalf("after 1 failure: %d stalled=%v", snap.ConsecutiveFailures, snap.IsStalled())
	}
	s.ReportError(errors.New("fail 2"))
	if !s.Snapshot().IsStalled() {
		t.Fatal("IsStalled() = false, want true with 2 failures")
	}
	s.ReportError(nil)
	if got := s.Snapshot().ConsecutiveFailures; got != 2 {
		t.Fatalf("nil error counted: %d", got)
	}

	s.ClearError()
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.LastError != nil || snap.IsStalled() {
		t.Fatalf("after ClearError: %+v", snap)
	}
}
