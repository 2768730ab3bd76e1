package generatorimpl

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/pkg/formatter"
)

var errMissingVariants = errors.New(`response has no "variants" array`)

type variantsResponse struct {
	Variants *[]variantItem `json:"variants"`
}

type variantItem struct {
	Platform *string  `json:"platform"`
	Content  *string  `json:"content"`
	Hashtags []string `json:"hashtags"`
}

// stripCodeFence removes a surrounding Markdown code fence some models add
// even when asked for raw JSON.
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

type parsedVariant struct {
	platform domain.Platform
	content  string
	hashtags []string
}

// skippedVariants lists the raw platform names of items parseVariants left out.
type skippedVariants struct {
	unrequested []string
	duplicates  []string
}

// parseVariants decodes the provider reply and keeps, in reply order, the first
// item for each requested platform. Items naming other platforms and repeats
// of a platform are skipped.
func parseVariants(text string, requested domain.PlatformSet) ([]parsedVariant, skippedVariants, error) {
	var resp variantsResponse
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &resp); err != nil {
		return nil, skippedVariants{}, fmt.Errorf("malformed JSON: %w", err)
	}
	if resp.Variants == nil {
		return nil, skippedVariants{}, errMissingVariants
	}

	var (
		out     []parsedVariant
		skipped skippedVariants
		seen    = make(map[domain.Platform]bool)
	)
	for i, item := range *resp.Variants {
		if item.Platform == nil {
			return nil, skippedVariants{}, fmt.Errorf("variant %d: missing platform", i)
		}
		if item.Content == nil {
			return nil, skippedVariants{}, fmt.Errorf("variant %d: missing content", i)
		}

		platform := domain.Platform(strings.ToLower(strings.TrimSpace(*item.Platform)))
		if !requested.Has(platform) {
			skipped.unrequested = append(skipped.unrequested, *item.Platform)
			continue
		}
		if seen[platform] {
			skipped.duplicates = append(skipped.duplicates, *item.Platform)
			continue
		}
		seen[platform] = true

		tags := make([]string, 0, len(item.Hashtags))
		for _, tag := range item.Hashtags {
			if tag = formatter.NormalizeTag(tag); tag != "" {
				tags = append(tags, tag)
			}
		}

		out = append(out, parsedVariant{
			platform: platform,
			content:  strings.TrimSpace(*item.Content),
			hashtags: tags,
		})
	}
	return out, skipped, nil
}
