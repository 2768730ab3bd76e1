package domain

import (
	"encoding/json"
	"fmt"
)

type PublishStatus int

const (
	StatusIdle PublishStatus = iota
	StatusPosting
	StatusPosted
	StatusFailed
)

var statusNames = map[PublishStatus]string{
	StatusIdle:    "idle",
	StatusPosting: "posting",
	StatusPosted:  "posted",
	StatusFailed:  "failed",
}

func (s PublishStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func ParsePublishStatus(s string) (PublishStatus, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return StatusIdle, fmt.Errorf("unknown publish status %q", s)
}

func (s PublishStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PublishStatus) UnmarshalText(text []byte) error {
	parsed, err := ParsePublishStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PublishState is Idle, Posting, Posted or Failed(Reason).
type PublishState struct {
	Status PublishStatus
	Reason string
}

func Idle() PublishState    { return PublishState{Status: StatusIdle} }
func Posting() PublishState { return PublishState{Status: StatusPosting} }
func Posted() PublishState  { return PublishState{Status: StatusPosted} }

func Failed(reason string) PublishState {
	return PublishState{Status: StatusFailed, Reason: reason}
}

func (s PublishState) IsPosted() bool  { return s.Status == StatusPosted }
func (s PublishState) IsPosting() bool { return s.Status == StatusPosting }
func (s PublishState) IsFailed() bool  { return s.Status == StatusFailed }

// Terminal reports whether a publish attempt has finished for this state.
func (s PublishState) Terminal() bool {
	return s.Status == StatusPosted || s.Status == StatusFailed
}

// CanTransition encodes the lifecycle:
//
//	Idle -> Posting -> Posted | Failed, Failed -> Posting
//
// Posted is terminal for the batch.
func (s PublishState) CanTransition(to PublishStatus) bool {
	switch s.Status {
	case StatusIdle, StatusFailed:
		return to == StatusPosting
	case StatusPosting:
		return to == StatusPosted || to == StatusFailed
	default:
		return false
	}
}

func (s PublishState) String() string {
	if s.Status == StatusFailed && s.Reason != "" {
		return fmt.Sprintf("failed(%s)", s.Reason)
	}
	return s.Status.String()
}

type publishStateJSON struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (s PublishState) MarshalJSON() ([]byte, error) {
	return json.Marshal(publishStateJSON{Status: s.Status.String(), Reason: s.Reason})
}

func (s *PublishState) UnmarshalJSON(data []byte) error {
	var raw publishStateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	status, err := ParsePublishStatus(raw.Status)
	if err != nil {
		return err
	}
	*s = PublishState{Status: status, Reason: raw.Reason}
	return nil
}
