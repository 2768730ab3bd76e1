package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Platform string

const (
	PlatformTwitter        Platform = "twitter"
	PlatformLinkedIn       Platform = "linkedin"
	PlatformInstagram      Platform = "instagram"
	PlatformTikTok         Platform = "tiktok"
	PlatformFacebook       Platform = "facebook"
	PlatformGoogleBusiness Platform = "googlebusiness"
)

// Platforms returns every supported platform in display order.
func Platforms() []Platform {
	return []Platform{
		PlatformTwitter,
		PlatformLinkedIn,
		PlatformInstagram,
		PlatformTikTok,
		PlatformFacebook,
		PlatformGoogleBusiness,
	}
}

var platformLabels = map[Platform]string{
	PlatformTwitter:        "Twitter",
	PlatformLinkedIn:       "LinkedIn",
	PlatformInstagram:      "Instagram",
	PlatformTikTok:         "TikTok",
	PlatformFacebook:       "Facebook",
	PlatformGoogleBusiness: "Google Business",
}

// ParsePlatform accepts any casing and surrounding whitespace.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}

func (p Platform) Valid() bool {
	_, ok := platformLabels[p]
	return ok
}

func (p Platform) String() string { return string(p) }

func (p Platform) Label() string {
	if l, ok := platformLabels[p]; ok {
		return l
	}
	return string(p)
}

// PrimaryField names the credential field whose presence means "connected".
func (p Platform) PrimaryField() string {
	if p == PlatformTwitter {
		return FieldBearerToken
	}
	return FieldAccessToken
}

// PlatformSet is an ordered set of platforms. Adding a member twice is a no-op,
// toggling a member removes it.
type PlatformSet struct {
	items []Platform
}

func NewPlatformSet(platforms ...Platform) PlatformSet {
	var s PlatformSet
	for _, p := range platforms {
		s.Add(p)
	}
	return s
}

// ParsePlatformSet builds a set from raw identifiers, failing on the first unknown one.
func ParsePlatformSet(raw []string) (PlatformSet, error) {
	var s PlatformSet
	for _, r := range raw {
		p, err := ParsePlatform(r)
		if err != nil {
			return PlatformSet{}, err
		}
		s.Add(p)
	}
	return s, nil
}

func (s *PlatformSet) Add(p Platform) bool {
	if s.Has(p) {
		return false
	}
	s.items = append(s.items, p)
	return true
}

func (s *PlatformSet) Remove(p Platform) bool {
	for i, item := range s.items {
		if item == p {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle adds p if absent and removes it otherwise. It reports whether p is a member afterwards.
func (s *PlatformSet) Toggle(p Platform) bool {
	if s.Remove(p) {
		return false
	}
	s.items = append(s.items, p)
	return true
}

func (s PlatformSet) Has(p Platform) bool {
	for _, item := range s.items {
		if item == p {
			return true
		}
	}
	return false
}

func (s PlatformSet) Len() int { return len(s.items) }

func (s PlatformSet) Empty() bool { return len(s.items) == 0 }

func (s PlatformSet) List() []Platform {
	out := make([]Platform, len(s.items))
	copy(out, s.items)
	return out
}

func (s PlatformSet) Strings() []string {
	out := make([]string, len(s.items))
	for i, p := range s.items {
		out[i] = string(p)
	}
	return out
}

func (s PlatformSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *PlatformSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParsePlatformSet(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
