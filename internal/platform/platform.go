package platform

import (
	"errors"
	"fmt"
)

// Supported platform identifiers
const (
	Twitter   = "twitter"
	LinkedIn  = "linkedin"
	Facebook  = "facebook"
	Instagram = "instagram"
)

// Adapter error conditions. Both indicate a caller-side problem and are never
// retried; over-length content is not an error and is resolved by truncation.
var (
	ErrEmptyContent    = errors.New("empty content")
	ErrUnknownPlatform = errors.New("unknown platform")
)

// Spec holds the fixed posting constraints of a platform. Specs are constants;
// nothing mutates them at runtime.
type Spec struct {
	Name           string
	CharacterLimit int
	MaxHashtags    int
}

var specs = map[string]Spec{
	Twitter:   {Name: Twitter, CharacterLimit: 280, MaxHashtags: 5},
	LinkedIn:  {Name: LinkedIn, CharacterLimit: 3000, MaxHashtags: 5},
	Facebook:  {Name: Facebook, CharacterLimit: 63206, MaxHashtags: 5},
	Instagram: {Name: Instagram, CharacterLimit: 2200, MaxHashtags: 5},
}

// displayOrder keeps platform listings stable across the service.
var displayOrder = []string{Twitter, LinkedIn, Facebook, Instagram}

// SpecFor resolves a platform identifier to its Spec. Identifiers outside the
// supported set fail with ErrUnknownPlatform.
func SpecFor(name string) (Spec, error) {
	spec, ok := specs[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}
	return spec, nil
}

// IsSupported reports whether name is a known platform identifier.
func IsSupported(name string) bool {
	_, ok := specs[name]
	return ok
}

// Names returns the supported platform identifiers in display order.
func Names() []string {
	names := make([]string, len(displayOrder))
	copy(names, displayOrder)
	return names
}

// DisplayName returns the human-facing name for a platform identifier.
func DisplayName(name string) string {
	switch name {
	case Twitter:
		return "Twitter (X)"
	case LinkedIn:
		return "LinkedIn"
	case Facebook:
		return "Facebook"
	case Instagram:
		return "Instagram"
	}
	return name
}
