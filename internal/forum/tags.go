package forum

import (
	"strings"
	"sync"
)

// TagAnswered is the sentinel moderation tag that drives Post.IsAnswered.
const TagAnswered = "answered"

// moderationVocabulary is the closed set of tags only privileged users may
// attach. Community tags live in a separate, open-ended namespace.
var moderationVocabulary = []string{
	TagAnswered, "verified", "urgent", "official", "resolved", "important",
}

// DefaultCommunityTags seeds the known-tag registry on first start.
var DefaultCommunityTags = []string{
	"evacuation", "shelter", "supplies", "routes", "safety", "preparation",
	"volunteer", "family", "pets", "medical", "transportation", "communication",
}

// ModerationTags returns the moderation vocabulary as a fresh slice.
func ModerationTags() []string {
	out := make([]string, len(moderationVocabulary))
	copy(out, moderationVocabulary)
	return out
}

// IsModerationTag reports whether tag belongs to the moderation vocabulary.
// The tag is normalized before comparison.
func IsModerationTag(tag string) bool {
	tag = NormalizeTag(tag)
	for _, known := range moderationVocabulary {
		if tag == known {
			return true
		}
	}
	return false
}

// NormalizeTag trims and lower-cases a tag. An empty result means the tag
// should be discarded.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeCommunityTags normalizes every tag, drops empties, and dedupes
// while preserving first-seen order.
func NormalizeCommunityTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = NormalizeTag(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// SplitTagList parses the comma-separated tag field of the question form.
func SplitTagList(raw string) []string {
	return NormalizeCommunityTags(strings.Split(raw, ","))
}

// TagRegistry is the process-wide record of community tags seen so far,
// used to populate filter menus. It is advisory only: it never gates which
// tags a post may carry. Inject an instance rather than sharing a global so
// tests can run isolated.
type TagRegistry struct {
	mu    sync.RWMutex
	order []string
	seen  map[string]bool
}

// NewTagRegistry creates a registry seeded with the given tags.
func NewTagRegistry(seed []string) *TagRegistry {
	r := &TagRegistry{seen: make(map[string]bool)}
	r.Register(seed)
	return r
}

// Register adds any previously unseen tags and returns the ones that were
// actually new. Tags are normalized; empties are discarded.
func (r *TagRegistry) Register(tags []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var added []string
	for _, tag := range tags {
		tag = NormalizeTag(tag)
		if tag == "" || r.seen[tag] {
			continue
		}
		r.seen[tag] = true
		r.order = append(r.order, tag)
		added = append(added, tag)
	}
	return added
}

// Known returns all registered tags in registration order.
func (r *TagRegistry) Known() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
