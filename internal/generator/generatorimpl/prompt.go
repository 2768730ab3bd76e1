package generatorimpl

import (
	"fmt"
	"strings"

	"github.com/orgball2608/omnipost/internal/domain"
)

var styleRules = map[domain.Platform]string{
	domain.PlatformTwitter: "Twitter/X: Concise, conversational, and punchy. Under 280 characters including hashtags. " +
		"Use 1-2 relevant hashtags. Focus on what is happening or one key insight.",
	domain.PlatformLinkedIn: "LinkedIn: Professional yet personal. Use a Hook -> Value -> CTA storytelling structure. " +
		"Focus on industry insights, professional growth, or business lessons. Use 3-5 professional hashtags.",
	domain.PlatformInstagram: "Instagram: Visually descriptive and engaging. Use emojis and line breaks for readability. " +
		"Include a block of 15-25 mixed volume hashtags.",
	domain.PlatformTikTok: "TikTok: Viral, high-energy, and short. Open with a strong hook in the first sentence. " +
		"Suggest a trending sound vibe in brackets if applicable. Use trending tags like fyp plus niche tags.",
	domain.PlatformFacebook: "Facebook: Warm and conversational, written for friends and followers. " +
		"End with a question that invites comments. Use 2-3 hashtags at most.",
	domain.PlatformGoogleBusiness: "Google Business Profile: Written for local customers deciding whether to visit or buy. " +
		"Lead with the offer or news, keep it under 1500 characters, plain text, no hashtags.",
}

const emptyTextPlaceholder = "No text provided. Generate a caption based on the context of the attached media."

// responseSchema mirrors the {variants: [{platform, content, hashtags[]}]} reply.
var responseSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"variants": map[string]any{
			"type": "ARRAY",
			"items": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"platform": map[string]any{"type": "STRING"},
					"content":  map[string]any{"type": "STRING"},
					"hashtags": map[string]any{
						"type":  "ARRAY",
						"items": map[string]any{"type": "STRING"},
					},
				},
				"required": []string{"platform", "content", "hashtags"},
			},
		},
	},
	"required": []string{"variants"},
}

func buildPrompt(draft domain.Draft, platforms []domain.Platform) string {
	names := make([]string, len(platforms))
	rules := make([]string, 0, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
		if rule, ok := styleRules[p]; ok {
			rules = append(rules, "- "+rule)
		}
	}

	text := draft.Text
	if strings.TrimSpace(text) == "" {
		text = emptyTextPlaceholder
	}

	var b strings.Builder
	b.WriteString("You are an expert Social Media Manager and Content Strategist.\n")
	fmt.Fprintf(&b, "Adapt the following draft content into optimized posts for these platforms: %s.\n\n", strings.Join(names, ", "))

	b.WriteString("ORIGINAL DRAFT:\n")
	fmt.Fprintf(&b, "%q\n\n", text)

	b.WriteString("MEDIA CONTEXT:\n")
	fmt.Fprintf(&b, "Has Media: %t\n", draft.HasMedia())
	fmt.Fprintf(&b, "Media Type: %s\n", draft.MediaKind)
	switch draft.MediaKind {
	case domain.MediaImage:
		b.WriteString("Note: The user has uploaded an image. Ensure the caption references or complements the visual elements.\n")
	case domain.MediaVideo:
		b.WriteString("Note: The user has uploaded a video. The caption should encourage watching the video (e.g. \"Wait for the end\", \"Sound on\").\n")
	}

	b.WriteString("\nPLATFORM INSTRUCTIONS:\n")
	b.WriteString(strings.Join(rules, "\n"))

	b.WriteString("\n\nReturn a JSON object containing an array \"variants\".\n")
	b.WriteString("Each item in \"variants\" must have:\n")
	b.WriteString("- \"platform\": string (one of the requested platforms, lowercase)\n")
	b.WriteString("- \"content\": string (the post text/caption without hashtags)\n")
	b.WriteString("- \"hashtags\": array of strings (hashtags without the # symbol)\n")
	return b.String()
}
