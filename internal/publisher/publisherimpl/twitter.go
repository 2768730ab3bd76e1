package publisherimpl

import (
	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/pkg/formatter"
)

type tweetPayload struct {
	Text string `json:"text"`
}

func buildTwitter(p *PublisherImpl, post domain.AdaptedPost, _ domain.Credential) (apiRequest, error) {
	return apiRequest{
		url:    p.endpoints.Twitter + "/2/tweets",
		body:   tweetPayload{Text: formatter.JoinBody(post.Content, post.Hashtags, " ")},
		bearer: true,
	}, nil
}
