package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdaptedPost is one platform-specific rendering of a draft. Everything except
// State is fixed once the generator assembles it.
type AdaptedPost struct {
	Platform    Platform     `json:"platform"`
	Content     string       `json:"content"`
	Hashtags    []string     `json:"hashtags"`
	MediaURL    string       `json:"mediaUrl,omitempty"`
	MediaKind   MediaKind    `json:"mediaKind"`
	ScheduledAt *time.Time   `json:"scheduledAt,omitempty"`
	State       PublishState `json:"publishState"`
}

// NewAdaptedPost copies media and schedule from the draft and starts Idle.
func NewAdaptedPost(draft Draft, platform Platform, content string, hashtags []string) AdaptedPost {
	draft = draft.Normalize().Clone()
	if hashtags == nil {
		hashtags = []string{}
	}
	return AdaptedPost{
		Platform:    platform,
		Content:     content,
		Hashtags:    hashtags,
		MediaURL:    draft.Media,
		MediaKind:   draft.MediaKind,
		ScheduledAt: draft.ScheduledAt,
		State:       Idle(),
	}
}

// Batch is the set of posts produced by one generate call.
type Batch struct {
	ID        uuid.UUID     `json:"id"`
	Draft     Draft         `json:"draft"`
	Posts     []AdaptedPost `json:"posts"`
	CreatedAt time.Time     `json:"createdAt"`
}

func NewBatch(draft Draft, posts []AdaptedPost) *Batch {
	return &Batch{
		ID:        uuid.New(),
		Draft:     draft.Clone(),
		Posts:     posts,
		CreatedAt: time.Now(),
	}
}

func (b *Batch) Platforms() []Platform {
	out := make([]Platform, len(b.Posts))
	for i, p := range b.Posts {
		out[i] = p.Platform
	}
	return out
}

func (b *Batch) Post(platform Platform) (AdaptedPost, bool) {
	for _, p := range b.Posts {
		if p.Platform == platform {
			return p, true
		}
	}
	return AdaptedPost{}, false
}

// PublishRecord is one terminal publish transition kept for history.
type PublishRecord struct {
	ID        int           `json:"id"`
	BatchID   uuid.UUID     `json:"batchId"`
	Platform  Platform      `json:"platform"`
	Status    PublishStatus `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	Simulated bool          `json:"simulated"`
	CreatedAt time.Time     `json:"createdAt"`
}
