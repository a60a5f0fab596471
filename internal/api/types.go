package api

import (
	"time"

	"github.com/five82/bountyclock/internal/bounty"
	"github.com/five82/bountyclock/internal/history"
	"github.com/five82/bountyclock/internal/state"
	"github.com/five82/bountyclock/internal/stats"
)

// StatusResponse mirrors the overlay state.
type StatusResponse struct {
	Status        string           `json:"status"`
	Validity      string           `json:"validity"`
	Stages        []string         `json:"stages,omitempty"`
	MissionActive bool             `json:"missionActive"`
	StageActive   bool             `json:"stageActive"`
	StageKind     string           `json:"stageKind,omitempty"`
	Completed     int              `json:"completed"`
	Expected      int              `json:"expected"`
	Cycles        int              `json:"cycles"`
	TimerMS       int64            `json:"timerMs"`
	StageTimerMS  int64            `json:"stageTimerMs"`
	BestMS        *int64           `json:"bestMs,omitempty"`
	AverageMS     int64            `json:"averageMs"`
	MedianMS      int64            `json:"medianMs"`
	Samples       int              `json:"samples"`
	StageBestMS   map[string]int64 `json:"stageBestMs"`
	LogPath       string           `json:"logPath"`
	LastError     string           `json:"lastError,omitempty"`
	Failures      int              `json:"failures"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// HistoryItem is one stored completion.
type HistoryItem struct {
	ID         string    `json:"id"`
	FinishedAt time.Time `json:"finishedAt"`
	DurationMS int64     `json:"durationMs"`
	Tent       string    `json:"tent"`
	Tier       string    `json:"tier"`
	Stages     []string  `json:"stages"`
	Wanted     bool      `json:"wanted"`
}

// HistoryResponse wraps /api/history.
type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
}

func validityName(snap state.Snapshot) string {
	if !snap.View.HasBounty {
		return "unknown"
	}
	switch snap.View.Bounty.Validity {
	case bounty.ValidityWanted:
		return "wanted"
	case bounty.ValidityUnwanted:
		return "unwanted"
	default:
		return "unknown"
	}
}

func secondsToMS(v float64) int64 {
	return int64(v * 1000)
}

// NewStatusResponse converts a store snapshot.
func NewStatusResponse(snap state.Snapshot) StatusResponse {
	v := snap.View
	resp := StatusResponse{
		Status:        v.Status,
		Validity:      validityName(snap),
		Stages:        v.Bounty.Names,
		MissionActive: v.Session.MissionActive,
		StageActive:   v.Session.StageActive,
		StageKind:     string(v.Session.StageKind),
		Completed:     v.Session.Completed,
		Expected:      v.Session.Expected,
		Cycles:        v.Session.Cycles,
		TimerMS:       snap.MissionTimer().Milliseconds(),
		StageTimerMS:  snap.StageTimer().Milliseconds(),
		AverageMS:     secondsToMS(v.Average),
		MedianMS:      secondsToMS(v.Median),
		Samples:       v.Samples,
		StageBestMS:   map[string]int64{},
		LogPath:       snap.LogPath,
		Failures:      snap.ConsecutiveFailures,
		UpdatedAt:     snap.LastUpdated,
	}
	if v.Best.Overall.Set {
		ms := secondsToMS(v.Best.Overall.Value)
		resp.BestMS = &ms
	}
	for _, k := range stats.TrackedKinds {
		if rec := v.Best.Stage(k); rec.Set {
			resp.StageBestMS[string(k)] = secondsToMS(rec.Value)
		}
	}
	if snap.LastError != nil {
		resp.LastError = snap.LastError.Error()
	}
	return resp
}

func newHistoryItem(c history.Completion) HistoryItem {
	stages := c.Stages
	if stages == nil {
		stages = []string{}
	}
	return HistoryItem{
		ID:         c.ID,
		FinishedAt: c.FinishedAt,
		DurationMS: c.Duration.Milliseconds(),
		Tent:       c.Tent,
		Tier:       c.Tier,
		Stages:     stages,
		Wanted:     c.Wanted,
	}
}
