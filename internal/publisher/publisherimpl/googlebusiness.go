package publisherimpl

import (
	"errors"
	"strings"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/pkg/formatter"
)

const googleSummaryLimit = 1500

type localPost struct {
	LanguageCode string           `json:"languageCode"`
	Summary      string           `json:"summary"`
	TopicType    string           `json:"topicType"`
	CallToAction *callToAction    `json:"callToAction,omitempty"`
	Media        []localPostMedia `json:"media,omitempty"`
}

type callToAction struct {
	ActionType string `json:"actionType"`
	URL        string `json:"url"`
}

type localPostMedia struct {
	MediaFormat string `json:"mediaFormat"`
	SourceURL   string `json:"sourceUrl"`
}

// buildGoogleBusiness creates a STANDARD local post. The location id is the
// resource name, e.g. accounts/1/locations/2.
func buildGoogleBusiness(p *PublisherImpl, post domain.AdaptedPost, cred domain.Credential) (apiRequest, error) {
	location := strings.Trim(cred.Field(domain.FieldLocationID), "/")
	if location == "" {
		return apiRequest{}, errors.New("Google Business needs a location id to publish. Add it in connection settings.")
	}

	body := localPost{
		LanguageCode: "en-US",
		Summary:      formatter.Truncate(post.Content, googleSummaryLimit),
		TopicType:    "STANDARD",
	}
	if p.ctaURL != "" {
		body.CallToAction = &callToAction{ActionType: "LEARN_MORE", URL: p.ctaURL}
	}
	if post.MediaKind == domain.MediaImage && domain.IsRemoteURL(post.MediaURL) {
		body.Media = []localPostMedia{{MediaFormat: "PHOTO", SourceURL: post.MediaURL}}
	}

	return apiRequest{
		url:    p.endpoints.GoogleBusiness + "/v4/" + location + "/localPosts",
		body:   body,
		bearer: true,
	}, nil
}
