package bounty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrNoPayload means the payload token holds no {...} object.
	ErrNoPayload = errors.New("no structured payload")
	// ErrMalformedPayload means the embedded object is not valid JSON.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrMissingKeys means the object lacks jobTier, jobStages or job.
	ErrMissingKeys = errors.New("payload missing bounty keys")
)

// Descriptor is the bounty announced by a mission-set log line.
type Descriptor struct {
	Tier      string
	Stages    []string
	Job       string
	JobID     string
	SquadSlot string
}

// ParseDescriptor extracts the bounty descriptor from a payload token.
func ParseDescriptor(payload string) (Descriptor, error) {
	start := strings.Index(payload, "{")
	end := strings.LastIndex(payload, "}")
	if start < 0 || end < 0 || end < start {
		return Descriptor{}, ErrNoPayload
	}

	raw := normalizeLiterals(payload[start : end+1])
	if !gjson.Valid(raw) {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrMalformedPayload, raw)
	}

	fields := gjson.GetMany(raw, "jobTier", "jobStages", "job", "jobId", "squadSlot")
	tier, stages, job, jobID, slot := fields[0], fields[1], fields[2], fields[3], fields[4]
	if !tier.Exists() || !stages.IsArray() || !job.Exists() {
		return Descriptor{}, ErrMissingKeys
	}

	d := Descriptor{
		Tier:      tier.String(),
		Job:       job.String(),
		JobID:     jobID.String(),
		SquadSlot: slot.String(),
	}
	if d.JobID == "" {
		d.JobID = d.Job
	}
	for _, s := range stages.Array() {
		d.Stages = append(d.Stages, s.String())
	}
	return d, nil
}

// normalizeLiterals rewrites bare None/True/False outside string literals to
// their JSON spelling. String contents are never touched.
func normalizeLiterals(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			i++
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			i++
			continue
		}
		if isIdentByte(c) && (i == 0 || !isIdentByte(s[i-1])) {
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			word := s[i:j]
			switch word {
			case "None":
				word = "null"
			case "True":
				word = "true"
			case "False":
				word = "false"
			}
			b.WriteString(word)
			i = j
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
