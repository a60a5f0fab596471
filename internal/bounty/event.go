package bounty

import (
	"math"
	"strconv"
	"strings"

	"github.com/five82/bountyclock/internal/stats"
)

// EventKind is the closed set of log events the tracker reacts to.
type EventKind int

const (
	EventNone EventKind = iota
	EventDescriptor
	EventAbort
	EventMissionReady
	EventBountyFail
	EventStageStart
	EventStageEnd
	EventReward
)

func (k EventKind) String() string {
	switch k {
	case EventDescriptor:
		return "descriptor"
	case EventAbort:
		return "abort"
	case EventMissionReady:
		return "mission_ready"
	case EventBountyFail:
		return "bounty_fail"
	case EventStageStart:
		return "stage_start"
	case EventStageEnd:
		return "stage_end"
	case EventReward:
		return "reward"
	default:
		return "none"
	}
}

// Event is one classified log line.
type Event struct {
	Kind      EventKind
	Timestamp float64
	// HasTimestamp is false for descriptor lines whose first token is not numeric.
	HasTimestamp bool
	Stage        stats.Kind
	Payload      string
	Raw          string
}

var descriptorPrefixes = map[string]struct{}{
	"Net [Info]: Set squad mission:": {},
	"Script [Info]: ThemedSquadOverlay.lua: LoadLevelMsg received. Client joining mission in-progress:": {},
	"Net [Info]: MatchingServiceWeb::ProcessSquadMessage received MISSION message":                      {},
}

var abortMessages = map[string]struct{}{
	"Script [Info]: EidolonMP.lua: EIDOLONMP: Going back to hub": {},
	"Script [Info]: EidolonMP.lua: EIDOLONMP: Abort: no session": {},
}

var missionReadyMessages = map[string]struct{}{
	"Net [Info]: MISSION_READY message: 1": {},
	"Net [Info]: SetSquadMissionReady(1)":  {},
}

const (
	transmissionMarker = "Script [Info]: HudRedux.lua: Queuing new transmission:"
	rewardMarker       = "Script [Info]: EidolonMissionComplete.lua: EidolonMissionComplete:: Got Reward:"
	bountyFailKeyword  = "BountyFail"
)

type stageKeyword struct {
	keyword string
	kind    stats.Kind
}

var stageStartKeywords = []stageKeyword{
	{"ResIntro", stats.KindRescue},
	{"AssIntro", stats.KindAssassinate},
	{"CapIntro", stats.KindCapture},
	{"CacheIntro", stats.KindCache},
	{"HijackIntro", stats.KindDrone},
	{"ExtermIntro", stats.KindExterminate},
}

var stageEndKeywords = []stageKeyword{
	{"ResWin", stats.KindRescue},
	{"AssWin", stats.KindAssassinate},
	{"CapWin", stats.KindCapture},
	{"CacheWin", stats.KindCache},
	{"HijackWin", stats.KindDrone},
	{"ExtermWin", stats.KindExterminate},
}

// Classify turns a raw log line into an Event. Lines that match nothing, and
// non-descriptor lines without a numeric leading token, return EventNone.
func Classify(line string) Event {
	fields := strings.Fields(line)
	ev := Event{Raw: line}
	if len(fields) == 0 {
		return ev
	}

	if len(fields) > 1 {
		key := strings.Join(fields[1:len(fields)-1], " ")
		if _, ok := descriptorPrefixes[key]; ok {
			ev.Kind = EventDescriptor
			ev.Payload = fields[len(fields)-1]
			ev.Timestamp, ev.HasTimestamp = parseTimestamp(fields[0])
			return ev
		}
	}

	ts, ok := parseTimestamp(fields[0])
	if !ok {
		return ev
	}
	ev.Timestamp = ts
	ev.HasTimestamp = true
	message := strings.Join(fields[1:], " ")

	if _, ok := abortMessages[message]; ok {
		ev.Kind = EventAbort
		return ev
	}
	if _, ok := missionReadyMessages[message]; ok {
		ev.Kind = EventMissionReady
		return ev
	}
	if strings.Contains(message, transmissionMarker) {
		if strings.Contains(message, bountyFailKeyword) {
			ev.Kind = EventBountyFail
			return ev
		}
		if kind, ok := matchKeyword(message, stageStartKeywords); ok {
			ev.Kind = EventStageStart
			ev.Stage = kind
			return ev
		}
		if kind, ok := matchKeyword(message, stageEndKeywords); ok {
			ev.Kind = EventStageEnd
			ev.Stage = kind
			return ev
		}
		return ev
	}
	if strings.Contains(message, rewardMarker) {
		ev.Kind = EventReward
	}
	return ev
}

func matchKeyword(message string, keywords []stageKeyword) (stats.Kind, bool) {
	for _, k := range keywords {
		if strings.Contains(message, k.keyword) {
			return k.kind, true
		}
	}
	return "", false
}

func parseTimestamp(token string) (float64, bool) {
	ts, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(ts) || math.IsInf(ts, 0) {
		return 0, false
	}
	return ts, true
}
