package platform

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/postforge/postforge/internal/models"
)

// Validation rule identifiers reported in Violation.Rule.
const (
	RulePlatformKnown   = "platform_known"
	RuleBodyWithinLimit = "body_within_limit"
	RuleHashtagWellForm = "hashtag_well_formed"
	RuleHashtagUnique   = "hashtag_unique"
)

// Violation describes a single validation failure.
type Violation struct {
	Rule   string `json:"rule"`
	Detail string `json:"detail"`
}

// ValidationResult reports whether a post satisfies its platform rules.
type ValidationResult struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

// Validate checks a post against the rules of its platform: the body must fit
// the character limit and every hashtag must be well-formed and unique. Posts
// produced by Adapt always pass; Validate exists for posts arriving from
// elsewhere.
func Validate(post models.Post) ValidationResult {
	var violations []Violation

	spec, err := SpecFor(post.Platform)
	if err != nil {
		violations = append(violations, Violation{
			Rule:   RulePlatformKnown,
			Detail: fmt.Sprintf("unsupported platform %q", post.Platform),
		})
		return ValidationResult{Valid: false, Violations: violations}
	}

	if n := utf8.RuneCountInString(post.Body); n > spec.CharacterLimit {
		violations = append(violations, Violation{
			Rule:   RuleBodyWithinLimit,
			Detail: fmt.Sprintf("body is %d characters, limit is %d", n, spec.CharacterLimit),
		})
	}

	seen := make(map[string]bool, len(post.Hashtags))
	for _, tag := range post.Hashtags {
		if !hashtagExact.MatchString(tag) {
			violations = append(violations, Violation{
				Rule:   RuleHashtagWellForm,
				Detail: fmt.Sprintf("malformed hashtag %q", tag),
			})
		}
		key := strings.ToLower(tag)
		if seen[key] {
			violations = append(violations, Violation{
				Rule:   RuleHashtagUnique,
				Detail: fmt.Sprintf("duplicate hashtag %q", tag),
			})
		}
		seen[key] = true
	}

	return ValidationResult{Valid: len(violations) == 0, Violations: violations}
}
