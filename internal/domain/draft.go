package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

type MediaKind string

const (
	MediaNone  MediaKind = "none"
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	switch k {
	case MediaNone, MediaImage, MediaVideo:
		return true
	}
	return false
}

// Draft is the user-authored seed content. Media is either a data URI or a
// public URL.
type Draft struct {
	Text        string     `json:"text"`
	Media       string     `json:"media,omitempty"`
	MediaKind   MediaKind  `json:"mediaKind"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

var (
	ErrEmptyDraft        = errors.New("draft needs text or media")
	ErrMediaKindMismatch = errors.New("media kind does not match media presence")
)

// Normalize fills the media kind for drafts without media.
func (d Draft) Normalize() Draft {
	if d.MediaKind == "" && d.Media == "" {
		d.MediaKind = MediaNone
	}
	return d
}

// Validate checks the draft invariants: a known media kind that agrees with
// whether media is attached, and non-empty content overall.
func (d Draft) Validate() error {
	d = d.Normalize()
	if !d.MediaKind.Valid() {
		return fmt.Errorf("unknown media kind %q", d.MediaKind)
	}
	hasMedia := d.Media != ""
	if hasMedia == (d.MediaKind == MediaNone) {
		return ErrMediaKindMismatch
	}
	if strings.TrimSpace(d.Text) == "" && !hasMedia {
		return ErrEmptyDraft
	}
	return nil
}

func (d Draft) HasMedia() bool { return d.Media != "" }

// Clone returns a copy that shares nothing mutable with d.
func (d Draft) Clone() Draft {
	if d.ScheduledAt != nil {
		at := *d.ScheduledAt
		d.ScheduledAt = &at
	}
	return d
}

// InlineImage is image media decoded from a data URI, ready to attach to a
// provider request.
type InlineImage struct {
	MIMEType string
	Data     string // base64
}

const defaultImageMIME = "image/jpeg"

// InlineImage splits a data URI into MIME type and base64 payload. Media without
// a data URI header is treated as a bare base64 JPEG. It returns false when the
// draft carries no image or the media is a remote URL.
func (d Draft) InlineImage() (InlineImage, bool) {
	if d.MediaKind != MediaImage || d.Media == "" || IsRemoteURL(d.Media) {
		return InlineImage{}, false
	}

	media := d.Media
	img := InlineImage{MIMEType: defaultImageMIME}
	if strings.HasPrefix(media, "data:") {
		header, payload, ok := strings.Cut(media, ",")
		if !ok {
			return InlineImage{}, false
		}
		mime := strings.TrimPrefix(header, "data:")
		mime = strings.TrimSuffix(mime, ";base64")
		if mime != "" {
			img.MIMEType = mime
		}
		media = payload
	} else if _, payload, ok := strings.Cut(media, ","); ok {
		media = payload
	}

	if _, err := base64.StdEncoding.DecodeString(media); err != nil {
		return InlineImage{}, false
	}
	img.Data = media
	return img, true
}

// IsRemoteURL reports whether media points at an http(s) location rather than
// embedding bytes.
func IsRemoteURL(media string) bool {
	return strings.HasPrefix(media, "https://") || strings.HasPrefix(media, "http://")
}
