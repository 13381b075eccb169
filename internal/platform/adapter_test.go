package platform

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapt_ShortBodyUnchanged(t *testing.T) {
	post, err := Adapt("Fresh release notes are up.", Twitter, nil)
	require.NoError(t, err)

	assert.Equal(t, Twitter, post.Platform)
	assert.Equal(t, "Fresh release notes are up.", post.Body)
	assert.False(t, post.Truncated)
	assert.Empty(t, post.Hashtags)
	assert.Equal(t, 27, post.CharacterCount)
	assert.Equal(t, 280, post.CharacterLimit)
}

func TestAdapt_TruncatesLongBodyAtWordBoundary(t *testing.T) {
	// 300 characters, no hashtags, word boundary every 7th rune.
	text := strings.TrimSpace(strings.Repeat("update ", 43))
	require.Equal(t, 300, utf8.RuneCountInString(text))

	post, err := Adapt(text, Twitter, nil)
	require.NoError(t, err)

	assert.True(t, post.Truncated)
	assert.LessOrEqual(t, post.CharacterCount, 280)
	assert.True(t, strings.HasSuffix(post.Body, "update…"),
		"truncation must land on a word boundary, got tail %q", post.Body[len(post.Body)-12:])
	assert.Equal(t, 280, post.CharacterCount)
}

func TestAdapt_HardCutsOversizedToken(t *testing.T) {
	post, err := Adapt(strings.Repeat("a", 300), Twitter, nil)
	require.NoError(t, err)

	assert.True(t, post.Truncated)
	assert.Equal(t, 280, post.CharacterCount)
	assert.True(t, strings.HasSuffix(post.Body, "…"))
	assert.NotContains(t, post.Body, " ")
}

func TestAdapt_CountsRunesNotBytes(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("café ", 60))
	require.Equal(t, 299, utf8.RuneCountInString(text))

	post, err := Adapt(text, Twitter, nil)
	require.NoError(t, err)

	assert.True(t, post.Truncated)
	assert.Equal(t, 280, post.CharacterCount)
	assert.Equal(t, 280, utf8.RuneCountInString(post.Body))
	assert.Greater(t, len(post.Body), 280, "byte length should exceed the rune count for multibyte text")
}

func TestAdapt_MergesCustomHashtags(t *testing.T) {
	post, err := Adapt("Check out our launch! #launch #ai", LinkedIn, []string{"#startup"})
	require.NoError(t, err)

	assert.Equal(t, "Check out our launch! #launch #ai", post.Body)
	assert.Equal(t, []string{"#launch", "#ai", "#startup"}, post.Hashtags)
	assert.False(t, post.Truncated)
}

func TestAdapt_DeduplicatesHashtagsCaseInsensitively(t *testing.T) {
	post, err := Adapt("Check #GoLang and #golang and #GOLANG", LinkedIn, []string{"golang"})
	require.NoError(t, err)

	assert.Equal(t, []string{"#GoLang"}, post.Hashtags)
}

func TestAdapt_NormalizesCustomHashtags(t *testing.T) {
	post, err := Adapt("Big release day.", LinkedIn, []string{"launch", "#Shipped", "bad tag", ""})
	require.NoError(t, err)

	assert.Equal(t, []string{"#launch", "#Shipped"}, post.Hashtags)
}

func TestAdapt_DropsHashtagsOverCharacterBudget(t *testing.T) {
	// 269 runes of body leave room for one trailing hashtag but not two.
	text := strings.TrimSpace(strings.Repeat("abcdefghi ", 27))
	require.Equal(t, 269, utf8.RuneCountInString(text))

	post, err := Adapt(text, Twitter, []string{"#releases", "#golang"})
	require.NoError(t, err)

	assert.False(t, post.Truncated)
	assert.Equal(t, []string{"#releases"}, post.Hashtags)
}

func TestAdapt_DropsCustomHashtagsBeforeExtracted(t *testing.T) {
	// Truncation cuts the inline #golang out of the body, so neither it nor
	// the custom tag fits as a trailing block. The custom one goes first.
	text := strings.TrimSpace(strings.Repeat("update ", 43)) + " #golang"

	post, err := Adapt(text, Twitter, []string{"#news"})
	require.NoError(t, err)

	assert.True(t, post.Truncated)
	assert.NotContains(t, post.Body, "#golang")
	assert.Empty(t, post.Hashtags)
}

func TestAdapt_CapsHashtagCount(t *testing.T) {
	custom := []string{"#one", "#two", "#three", "#four", "#five", "#six", "#seven"}

	post, err := Adapt("Morning release notes.", LinkedIn, custom)
	require.NoError(t, err)

	assert.Equal(t, []string{"#one", "#two", "#three", "#four", "#five"}, post.Hashtags)
}

func TestAdapt_InlineHashtagsSurviveCap(t *testing.T) {
	post, err := Adapt("Ship day #go #web #api #cli #dev #ops", LinkedIn, nil)
	require.NoError(t, err)

	// All six live inline in the body and are already counted there, so none
	// can be dropped.
	assert.Len(t, post.Hashtags, 6)
}

func TestAdapt_Deterministic(t *testing.T) {
	text := strings.Repeat("steady output ", 30) + "#go #Go"
	custom := []string{"#extra", "release"}

	first, err := Adapt(text, Twitter, custom)
	require.NoError(t, err)
	second, err := Adapt(text, Twitter, custom)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAdapt_EmptyContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "whitespace only", input: "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Adapt(tt.input, Twitter, nil)
			assert.ErrorIs(t, err, ErrEmptyContent)
		})
	}
}

func TestAdapt_UnknownPlatform(t *testing.T) {
	_, err := Adapt("hello", "mastodon", nil)
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestAdapt_LimitHoldsAcrossPlatforms(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("stress testing every limit ", 3000))

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			post, err := Adapt(text, name, []string{"#load"})
			require.NoError(t, err)
			assert.LessOrEqual(t, post.CharacterCount, post.CharacterLimit)
			assert.True(t, post.Truncated)
		})
	}
}

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "order of first appearance",
			text:     "Try #beta now, #alpha later, #beta again",
			expected: []string{"#beta", "#alpha"},
		},
		{
			name:     "case-insensitive dedup keeps first casing",
			text:     "Go #DevOps then #devops then #DEVOPS",
			expected: []string{"#DevOps"},
		},
		{
			name:     "punctuation ends a tag",
			text:     "Done. #Go! Right, #go?",
			expected: []string{"#Go"},
		},
		{
			name:     "underscore and digits allowed",
			text:     "See #tag_1 and #2024",
			expected: []string{"#tag_1", "#2024"},
		},
		{
			name:     "no hashtags",
			text:     "plain text only",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractHashtags(tt.text))
		})
	}
}

func TestNormalizeHashtag(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare word", input: "launch", expected: "#launch"},
		{name: "already prefixed", input: "#Launch", expected: "#Launch"},
		{name: "surrounding whitespace", input: "  go  ", expected: "#go"},
		{name: "double hash", input: "##go", expected: "#go"},
		{name: "inner space rejected", input: "bad tag", expected: ""},
		{name: "hyphen rejected", input: "go-lang", expected: ""},
		{name: "empty", input: "", expected: ""},
		{name: "lone hash", input: "#", expected: ""},
		{name: "digits", input: "123", expected: "#123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeHashtag(tt.input))
		})
	}
}
