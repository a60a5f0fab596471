package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/bountyclock/internal/bounty"
)

// Snapshot represents the latest data available to the UI and status API.
type Snapshot struct {
	View                bounty.View
	HasView             bool
	LiveMission         time.Duration // ticks counted since the mission started
	LiveStage           time.Duration // ticks counted since the stage started
	LogPath             string
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive tail failures
}

// IsStalled returns true when the log has been unreadable for multiple polls.
func (s Snapshot) IsStalled() bool {
	return s.ConsecutiveFailures >= 2
}

// MissionTimer is the value the overlay shows for the mission: the live tick
// counter while running, otherwise the frozen elapsed time.
func (s Snapshot) MissionTimer() time.Duration {
	if s.View.Session.MissionActive {
		return s.LiveMission
	}
	return seconds(s.View.Session.Elapsed)
}

// StageTimer is the stage counterpart of MissionTimer.
func (s Snapshot) StageTimer() time.Duration {
	if s.View.Session.StageActive {
		return s.LiveStage
	}
	return seconds(s.View.Session.StageElapsed)
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore returns a store describing the tailed log path.
func NewStore(logPath string) *Store {
	return &Store{snapshot: Snapshot{LogPath: logPath}}
}

// Publish replaces the tracker view. The live counters restart whenever the
// mission or stage generation moves.
func (s *Store) Publish(view bounty.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snapshot.View
	if !s.snapshot.HasView || prev.MissionGen != view.MissionGen {
		s.snapshot.LiveMission = 0
	}
	if !s.snapshot.HasView || prev.StageGen != view.StageGen {
		s.snapshot.LiveStage = 0
	}
	s.snapshot.View = view.Clone()
	s.snapshot.HasView = true
	s.snapshot.LastUpdated = time.Now()
}

// Tick advances the live counters of running timers by d and reports
// whether any timer was running.
func (s *Store) Tick(d time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	running := false
	if s.snapshot.View.Session.MissionActive {
		s.snapshot.LiveMission += d
		running = true
	}
	if s.snapshot.View.Session.StageActive {
		s.snapshot.LiveStage += d
		running = true
	}
	return running
}

// ReportError records a tail failure while keeping the previous data.
func (s *Store) ReportError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// ClearError marks the log readable again.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.View = s.snapshot.View.Clone()
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
