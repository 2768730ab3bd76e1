package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashtags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{"empty", nil, ""},
		{"plain", []string{"launch", "startup"}, "#launch #startup"},
		{"already prefixed", []string{"#launch", "##go"}, "#launch #go"},
		{"blank entries skipped", []string{" ", "ai", "#"}, "#ai"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Hashtags(tt.tags))
		})
	}
}

func TestJoinBody(t *testing.T) {
	assert.Equal(t, "Launch day! #go", JoinBody("Launch day!", []string{"go"}, " "))
	assert.Equal(t, "Launch day!\n\n#go #ai", JoinBody("Launch day!", []string{"go", "ai"}, "\n\n"))
	assert.Equal(t, "Launch day!", JoinBody("Launch day!", nil, " "))
	assert.Equal(t, "#go", JoinBody("", []string{"go"}, " "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "héllo w...", Truncate("héllo wörld again", 10))
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `Posted to twitter\!`, EscapeMarkdownV2("Posted to twitter!"))
	assert.Equal(t, `\#tag \(1\)`, EscapeMarkdownV2("#tag (1)"))
}
