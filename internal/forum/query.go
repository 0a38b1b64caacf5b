package forum

import (
	"sort"
	"strings"

	"flood-watch/internal/models"
)

// SortMode selects the ordering of a board query.
type SortMode string

const (
	SortVotes  SortMode = "votes"
	SortRecent SortMode = "recent"
	// SortAnswered puts unanswered questions first, then sorts by score
	// within each group. The mode is named after the flag it inspects even
	// though the UI labels it "Unanswered".
	SortAnswered SortMode = "answered"
)

// TagFilterAll passes every post through the tag filter.
const TagFilterAll = "all"

// QueryOptions describes one search/filter/sort request.
type QueryOptions struct {
	Search    string
	TagFilter string
	Sort      SortMode
}

// Query filters the collection by search text and tag selector, then sorts
// by the requested mode. The input slice is never mutated; the result is a
// fresh slice, empty (not nil-checked by callers as an error) when nothing
// matches.
func Query(posts []*models.Post, opts QueryOptions) []*models.Post {
	search := strings.ToLower(strings.TrimSpace(opts.Search))
	tag := NormalizeTag(opts.TagFilter)

	out := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if matchesSearch(post, search) && matchesTag(post, tag) {
			out = append(out, post)
		}
	}

	sortPosts(out, opts.Sort)
	return out
}

// matchesSearch reports whether the post matches a case-insensitive
// substring search over title, content, and both tag sets. An empty search
// matches everything.
func matchesSearch(post *models.Post, search string) bool {
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(post.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(post.Content), search) {
		return true
	}
	for _, tag := range post.CommunityTags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	for _, tag := range post.ModerationTags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// matchesTag applies the tag selector. Moderation and community tags share
// one namespace for filtering purposes.
func matchesTag(post *models.Post, tag string) bool {
	if tag == "" || tag == TagFilterAll {
		return true
	}
	return hasTag(post.CommunityTags, tag) || hasTag(post.ModerationTags, tag)
}

func sortPosts(posts []*models.Post, mode SortMode) {
	switch mode {
	case SortVotes:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Score > posts[j].Score
		})
	case SortAnswered:
		sort.SliceStable(posts, func(i, j int) bool {
			if posts[i].IsAnswered != posts[j].IsAnswered {
				return !posts[i].IsAnswered
			}
			return posts[i].Score > posts[j].Score
		})
	default:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		})
	}
}

// DisplayOrder returns the answers in render order: official answers before
// community answers, highest score first within each group. This tie-break
// deliberately differs from the recency rule applied to the stored order at
// submission time; clients depend on both.
func DisplayOrder(answers []*models.Answer) []*models.Answer {
	out := make([]*models.Answer, len(answers))
	copy(out, answers)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsOfficial != out[j].IsOfficial {
			return out[i].IsOfficial
		}
		return out[i].Score > out[j].Score
	})
	return out
}
