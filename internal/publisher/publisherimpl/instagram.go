package publisherimpl

import (
	"errors"
	"net/url"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/pkg/formatter"
)

var errInstagramMedia = errors.New("Instagram requires a public media URL, not embedded data.")

type instagramMedia struct {
	Caption     string `json:"caption"`
	ImageURL    string `json:"image_url,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	MediaType   string `json:"media_type,omitempty"`
	AccessToken string `json:"access_token"`
}

// buildInstagram creates the media container for the post on the account.
func buildInstagram(p *PublisherImpl, post domain.AdaptedPost, cred domain.Credential) (apiRequest, error) {
	if !domain.IsRemoteURL(post.MediaURL) {
		return apiRequest{}, errInstagramMedia
	}
	accountID := cred.Field(domain.FieldAccountID)
	if accountID == "" {
		return apiRequest{}, errors.New("Instagram needs a business account id to publish. Add it in connection settings.")
	}

	body := instagramMedia{
		Caption:     formatter.JoinBody(post.Content, post.Hashtags, "\n\n"),
		AccessToken: cred.Token(),
	}
	if post.MediaKind == domain.MediaVideo {
		body.VideoURL = post.MediaURL
		body.MediaType = "REELS"
	} else {
		body.ImageURL = post.MediaURL
	}

	return apiRequest{
		url:  p.endpoints.Graph + "/" + url.PathEscape(accountID) + "/media",
		body: body,
	}, nil
}
