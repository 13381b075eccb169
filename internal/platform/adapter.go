package platform

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/postforge/postforge/internal/models"
)

var (
	hashtagPattern = regexp.MustCompile(`#[A-Za-z0-9_]+`)
	hashtagExact   = regexp.MustCompile(`^#[A-Za-z0-9_]+$`)
)

// ellipsis marks truncated bodies; one rune is reserved for it.
const ellipsis = "…"

// Adapt converts raw generated text into a Post guaranteed valid for its
// target platform. Inline hashtags stay in the body and count toward the
// character budget; custom hashtags are merged behind the extracted ones.
// Bodies longer than the platform limit are shortened at a word boundary and
// flagged Truncated. The trailing hashtag block must fit the same budget:
// hashtags are dropped from the end of the list, custom before extracted,
// until it does. Hashtags still inline in the final body are never dropped.
//
// Adapt is pure: no I/O, no shared state, identical inputs yield identical
// Posts.
func Adapt(rawText, platformName string, customHashtags []string) (models.Post, error) {
	spec, err := SpecFor(platformName)
	if err != nil {
		return models.Post{}, err
	}

	body := strings.TrimSpace(rawText)
	if body == "" {
		return models.Post{}, fmt.Errorf("%w: nothing to adapt for %s", ErrEmptyContent, spec.Name)
	}

	extracted := ExtractHashtags(body)
	merged := mergeHashtags(extracted, customHashtags)

	body, truncated := truncate(body, spec.CharacterLimit)
	merged = enforceHashtagBudget(merged, len(extracted), body, spec)

	return models.Post{
		Platform:       spec.Name,
		Body:           body,
		Hashtags:       merged,
		Truncated:      truncated,
		CharacterCount: utf8.RuneCountInString(body),
		CharacterLimit: spec.CharacterLimit,
	}, nil
}

// ExtractHashtags returns the hashtags of text in order of first appearance,
// deduplicated case-insensitively while preserving the first-seen casing.
func ExtractHashtags(text string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, tag := range hashtagPattern.FindAllString(text, -1) {
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}
	return tags
}

// NormalizeHashtag turns user input like "launch" or "#Launch" into a
// well-formed hashtag token. Input that cannot form a valid hashtag yields "".
func NormalizeHashtag(s string) string {
	s = strings.TrimLeft(strings.TrimSpace(s), "#")
	if s == "" || !hashtagExact.MatchString("#"+s) {
		return ""
	}
	return "#" + s
}

// mergeHashtags appends custom hashtags not already present (case-insensitive)
// behind the extracted ones, preserving caller order. Malformed custom entries
// are dropped.
func mergeHashtags(extracted, custom []string) []string {
	merged := make([]string, 0, len(extracted)+len(custom))
	seen := make(map[string]bool, len(extracted))
	for _, tag := range extracted {
		seen[strings.ToLower(tag)] = true
		merged = append(merged, tag)
	}
	for _, raw := range custom {
		tag := NormalizeHashtag(raw)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, tag)
	}
	return merged
}

// truncate shortens text to at most limit runes, cutting at the nearest word
// boundary before the limit and appending the ellipsis marker. A single token
// longer than the whole limit has no boundary to cut at and is hard-cut: the
// limit always wins.
func truncate(text string, limit int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= limit {
		return text, false
	}

	budget := limit - 1 // reserve one rune for the ellipsis
	cut := 0
	for i := 0; i < len(runes) && i <= budget; i++ {
		if unicode.IsSpace(runes[i]) {
			cut = i
		}
	}
	if cut == 0 {
		return string(runes[:budget]) + ellipsis, true
	}

	prefix := strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace)
	return prefix + ellipsis, true
}

// enforceHashtagBudget drops hashtags from the end of the merged list, custom
// before extracted, until the list fits both the MaxHashtags cap and the
// character budget left next to body. Hashtags inline in body are already
// counted there and are never dropped; the first extractedCount entries of
// tags are the extracted ones.
func enforceHashtagBudget(tags []string, extractedCount int, body string, spec Spec) []string {
	inline := make(map[string]bool)
	for _, tag := range ExtractHashtags(body) {
		inline[strings.ToLower(tag)] = true
	}
	bodyLen := utf8.RuneCountInString(body)

	for len(tags) > 0 {
		overCap := len(tags) > spec.MaxHashtags
		overBudget := bodyLen+trailingCost(tags, inline) > spec.CharacterLimit
		if !overCap && !overBudget {
			break
		}
		victim := lastDroppable(tags, extractedCount, inline)
		if victim < 0 {
			break
		}
		if victim < extractedCount {
			extractedCount--
		}
		tags = append(tags[:victim], tags[victim+1:]...)
	}
	return tags
}

// trailingCost is the rune cost of appending the non-inline hashtags to a
// body: one newline before the block and a space between each pair.
func trailingCost(tags []string, inline map[string]bool) int {
	cost, count := 0, 0
	for _, tag := range tags {
		if inline[strings.ToLower(tag)] {
			continue
		}
		count++
		cost += utf8.RuneCountInString(tag)
	}
	if count == 0 {
		return 0
	}
	return cost + count
}

// lastDroppable picks the next hashtag to drop: the last custom entry first,
// then the last extracted entry that no longer appears inline in the final
// body. Returns -1 when only inline hashtags remain.
func lastDroppable(tags []string, extractedCount int, inline map[string]bool) int {
	if len(tags) > extractedCount {
		return len(tags) - 1
	}
	for i := extractedCount - 1; i >= 0; i-- {
		if !inline[strings.ToLower(tags[i])] {
			return i
		}
	}
	return -1
}
