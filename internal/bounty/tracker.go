package bounty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/five82/bountyclock/internal/refdata"
	"github.com/five82/bountyclock/internal/stats"
)

const (
	statusStarting = "starting..."
	statusWaiting  = "Waiting for bounty"
	defaultTent    = "Konzu"
)

var tents = []struct {
	code  string
	label string
}{
	{"TentA", "Tent A"},
	{"TentB", "Tent B"},
	{"TentC", "Tent C"},
}

// Validity is the advisory colour class of the current bounty.
type Validity int

const (
	ValidityUnknown Validity = iota
	ValidityWanted
	ValidityUnwanted
)

// Session is the mission and stage timer state. Times are log timestamps in
// seconds; durations are seconds.
type Session struct {
	MissionActive bool
	MissionStart  float64
	MissionEnd    float64
	Elapsed       float64
	Completed     int
	Expected      int
	Cycles        int

	StageActive  bool
	StageKind    stats.Kind
	StageStart   float64
	StageStarted bool
	StageElapsed float64
}

// Bounty is the display form of the current descriptor.
type Bounty struct {
	Descriptor Descriptor
	Tent       string
	Names      []string
	Label      string
	Validity   Validity
}

// Completion is emitted when the final stage reward of a bounty arrives.
type Completion struct {
	EndedAt     float64
	Duration    float64
	Averaged    bool
	BestChanged bool
	Bounty      Bounty
}

// StageResult is emitted when a stage end follows a recorded stage start.
type StageResult struct {
	Kind        stats.Kind
	Duration    float64
	BestChanged bool
}

// Outcome describes the effect of one line.
type Outcome struct {
	Event      Event
	Changed    bool
	Completion *Completion
	Stage      *StageResult
	// Err is a per-line diagnostic. The tracker keeps running.
	Err error
}

// View is an immutable copy of tracker state for readers.
type View struct {
	Status     string
	Session    Session
	Bounty     Bounty
	HasBounty  bool
	Best       stats.BestTimes
	Average    float64
	Median     float64
	Samples    int
	MissionGen uint64
	StageGen   uint64
	Lines      uint64
}

// Tracker is the bounty state machine. It is owned by a single goroutine.
type Tracker struct {
	tables refdata.Tables

	status      string
	session     Session
	bounty      Bounty
	hasBounty   bool
	best        stats.BestTimes
	average     *stats.RunningAverage
	lastElapsed float64
	missionGen  uint64
	stageGen    uint64
	lines       uint64
}

// NewTracker returns an idle tracker using tables for stage names and the
// wanted classification.
func NewTracker(tables refdata.Tables) *Tracker {
	return &Tracker{
		tables:  tables,
		status:  statusStarting,
		best:    stats.NewBestTimes(),
		average: stats.NewRunningAverage(),
	}
}

// MarkReady switches the status text from the startup message to waiting.
func (t *Tracker) MarkReady() {
	if t.status == statusStarting {
		t.status = statusWaiting
	}
}

// Apply feeds one raw log line through the state machine.
func (t *Tracker) Apply(line string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Event: Event{Raw: line}, Err: fmt.Errorf("interpret line: %v", r)}
		}
	}()

	t.lines++
	ev := Classify(line)
	out.Event = ev

	switch ev.Kind {
	case EventDescriptor:
		out.Changed, out.Err = t.applyDescriptor(ev)
	case EventAbort, EventBountyFail:
		t.reset()
		out.Changed = true
	case EventMissionReady:
		t.session.MissionActive = true
		t.session.MissionStart = ev.Timestamp
		t.session.Elapsed = 0
		t.session.Completed = 0
		t.missionGen++
		out.Changed = true
	case EventStageStart:
		t.session.StageActive = true
		t.session.StageStarted = true
		t.session.StageStart = ev.Timestamp
		t.session.StageKind = ev.Stage
		t.stageGen++
		out.Changed = true
	case EventStageEnd:
		out.Stage = t.endStage(ev)
		out.Changed = true
	case EventReward:
		out.Completion = t.reward(ev)
		out.Changed = true
	}
	return out
}

func (t *Tracker) applyDescriptor(ev Event) (bool, error) {
	d, err := ParseDescriptor(ev.Payload)
	if err != nil {
		if errors.Is(err, ErrNoPayload) {
			return false, nil
		}
		return false, err
	}

	names := make([]string, len(d.Stages))
	for i, id := range d.Stages {
		names[i] = t.tables.Translate(id)
	}
	tent := defaultTent
	for _, tn := range tents {
		if strings.Contains(d.JobID, tn.code) {
			tent = tn.label
			break
		}
	}
	validity := ValidityUnwanted
	if t.tables.AllWanted(d.Stages) {
		validity = ValidityWanted
	}

	t.session.Expected = len(d.Stages)
	t.bounty = Bounty{
		Descriptor: d,
		Tent:       tent,
		Names:      names,
		Label:      tent + ": " + strings.Join(names, " -> "),
		Validity:   validity,
	}
	t.hasBounty = true
	t.status = t.bounty.Label
	return true, nil
}

func (t *Tracker) reset() {
	t.session.MissionActive = false
	t.session.Elapsed = 0
	t.session.Completed = 0
	t.session.StageActive = false
	t.session.StageStarted = false
	t.session.StageElapsed = 0
	t.missionGen++
	t.stageGen++
}

func (t *Tracker) endStage(ev Event) *StageResult {
	started := t.session.StageStarted
	if started {
		t.session.StageElapsed = ev.Timestamp - t.session.StageStart
	}
	t.session.StageKind = ev.Stage
	t.session.StageActive = false
	t.session.StageStarted = false
	if !started {
		return nil
	}
	res := &StageResult{Kind: ev.Stage, Duration: t.session.StageElapsed}
	if ev.Stage.Tracked() {
		res.BestChanged = t.best.OfferStage(ev.Stage, t.session.StageElapsed)
	}
	return res
}

func (t *Tracker) reward(ev Event) *Completion {
	t.session.Completed++
	if t.session.Completed != t.session.Expected {
		return nil
	}

	t.session.MissionEnd = ev.Timestamp
	t.session.MissionActive = false
	if t.session.MissionEnd > t.session.MissionStart {
		t.session.Elapsed = t.session.MissionEnd - t.session.MissionStart
	}
	t.session.Cycles++

	c := &Completion{
		EndedAt:  ev.Timestamp,
		Duration: t.session.Elapsed,
		Bounty:   t.bounty.clone(),
	}
	if t.session.Elapsed > 0 {
		c.BestChanged = t.best.Overall.Offer(t.session.Elapsed)
	}
	if t.session.Elapsed != 0 && t.session.Elapsed != t.lastElapsed {
		t.average.Update(t.session.Elapsed)
		c.Averaged = true
	}
	t.lastElapsed = t.session.Elapsed
	return c
}

// View returns a copy of the current state.
func (t *Tracker) View() View {
	return View{
		Status:     t.status,
		Session:    t.session,
		Bounty:     t.bounty.clone(),
		HasBounty:  t.hasBounty,
		Best:       t.best.Clone(),
		Average:    t.average.Mean(),
		Median:     t.average.Quantile(0.5),
		Samples:    t.average.Count(),
		MissionGen: t.missionGen,
		StageGen:   t.stageGen,
		Lines:      t.lines,
	}
}

// Clone returns a deep copy of v.
func (v View) Clone() View {
	out := v
	out.Bounty = v.Bounty.clone()
	out.Best = v.Best.Clone()
	return out
}

func (b Bounty) clone() Bounty {
	out := b
	if b.Names != nil {
		out.Names = append([]string(nil), b.Names...)
	}
	if b.Descriptor.Stages != nil {
		out.Descriptor.Stages = append([]string(nil), b.Descriptor.Stages...)
	}
	return out
}
