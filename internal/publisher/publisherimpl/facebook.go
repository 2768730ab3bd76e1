package publisherimpl

import (
	"errors"
	"net/url"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/pkg/formatter"
)

type facebookFeedPost struct {
	Message     string `json:"message"`
	Link        string `json:"link,omitempty"`
	AccessToken string `json:"access_token"`
}

// buildFacebook posts to the page feed. The page token travels in the body.
func buildFacebook(p *PublisherImpl, post domain.AdaptedPost, cred domain.Credential) (apiRequest, error) {
	pageID := cred.Field(domain.FieldPageID)
	if pageID == "" {
		return apiRequest{}, errors.New("Facebook needs a page id to publish. Add it in connection settings.")
	}

	body := facebookFeedPost{
		Message:     formatter.JoinBody(post.Content, post.Hashtags, "\n\n"),
		AccessToken: cred.Token(),
	}
	if domain.IsRemoteURL(post.MediaURL) {
		body.Link = post.MediaURL
	}

	return apiRequest{
		url:  p.endpoints.Graph + "/" + url.PathEscape(pageID) + "/feed",
		body: body,
	}, nil
}
