package publisherimpl

import (
	"errors"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/pkg/formatter"
)

const tiktokTitleLimit = 2200

type tiktokPostInfo struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	PrivacyLevel string `json:"privacy_level"`
}

type tiktokSourceInfo struct {
	Source          string   `json:"source"`
	VideoURL        string   `json:"video_url,omitempty"`
	PhotoImages     []string `json:"photo_images,omitempty"`
	PhotoCoverIndex *int     `json:"photo_cover_index,omitempty"`
}

type tiktokInit struct {
	PostInfo   tiktokPostInfo   `json:"post_info"`
	SourceInfo tiktokSourceInfo `json:"source_info"`
	PostMode   string           `json:"post_mode,omitempty"`
	MediaType  string           `json:"media_type,omitempty"`
}

// buildTikTok asks TikTok to pull the media from its public URL.
func buildTikTok(p *PublisherImpl, post domain.AdaptedPost, _ domain.Credential) (apiRequest, error) {
	if !domain.IsRemoteURL(post.MediaURL) || post.MediaKind == domain.MediaNone {
		return apiRequest{}, errors.New("TikTok requires a video or photo at a public URL.")
	}

	caption := formatter.Truncate(formatter.JoinBody(post.Content, post.Hashtags, " "), tiktokTitleLimit)

	if post.MediaKind == domain.MediaVideo {
		return apiRequest{
			url: p.endpoints.TikTok + "/v2/post/publish/video/init/",
			body: tiktokInit{
				PostInfo:   tiktokPostInfo{Title: caption, PrivacyLevel: "PUBLIC_TO_EVERYONE"},
				SourceInfo: tiktokSourceInfo{Source: "PULL_FROM_URL", VideoURL: post.MediaURL},
			},
			bearer: true,
		}, nil
	}

	cover := 0
	return apiRequest{
		url: p.endpoints.TikTok + "/v2/post/publish/content/init/",
		body: tiktokInit{
			PostInfo: tiktokPostInfo{Description: caption, PrivacyLevel: "PUBLIC_TO_EVERYONE"},
			SourceInfo: tiktokSourceInfo{
				Source:          "PULL_FROM_URL",
				PhotoImages:     []string{post.MediaURL},
				PhotoCoverIndex: &cover,
			},
			PostMode:  "DIRECT_POST",
			MediaType: "PHOTO",
		},
		bearer: true,
	}, nil
}
