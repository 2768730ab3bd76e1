package publisherimpl

import (
	"errors"
	"strings"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/pkg/formatter"
)

const linkedInPersonPrefix = "urn:li:person:"

type ugcPost struct {
	Author          string              `json:"author"`
	LifecycleState  string              `json:"lifecycleState"`
	SpecificContent map[string]ugcShare `json:"specificContent"`
	Visibility      map[string]string   `json:"visibility"`
}

type ugcShare struct {
	ShareCommentary    ugcText `json:"shareCommentary"`
	ShareMediaCategory string  `json:"shareMediaCategory"`
}

type ugcText struct {
	Text string `json:"text"`
}

func buildLinkedIn(p *PublisherImpl, post domain.AdaptedPost, cred domain.Credential) (apiRequest, error) {
	id := strings.TrimPrefix(cred.Field(domain.FieldPersonURN), linkedInPersonPrefix)
	if id == "" {
		return apiRequest{}, errors.New("LinkedIn needs a person URN to publish. Add it in connection settings.")
	}

	body := ugcPost{
		Author:         linkedInPersonPrefix + id,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]ugcShare{
			"com.linkedin.ugc.ShareContent": {
				ShareCommentary:    ugcText{Text: formatter.JoinBody(post.Content, post.Hashtags, "\n\n")},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: map[string]string{"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"},
	}

	return apiRequest{
		url:     p.endpoints.LinkedIn + "/v2/ugcPosts",
		body:    body,
		headers: map[string]string{"X-Restli-Protocol-Version": "2.0.0"},
		bearer:  true,
	}, nil
}
