package forum

import (
	"testing"
	"time"

	"flood-watch/internal/models"

	"github.com/stretchr/testify/assert"
)

func boardFixture() []*models.Post {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	evac := &models.Post{
		Title:          "Best evacuation routes from downtown?",
		Content:        "Water is rising near the river district",
		CommunityTags:  []string{"evacuation", "routes"},
		ModerationTags: []string{"answered", "verified"},
		Score:          15,
		CreatedAt:      base,
	}
	supplies := &models.Post{
		Title:          "Where to get sandbags?",
		Content:        "Hardware stores are sold out",
		CommunityTags:  []string{"supplies"},
		ModerationTags: []string{},
		Score:          23,
		CreatedAt:      base.Add(2 * time.Hour),
	}
	shelter := &models.Post{
		Title:          "Is the high school shelter pet friendly?",
		Content:        "Two dogs and a cat",
		CommunityTags:  []string{"shelter", "pets"},
		ModerationTags: []string{},
		Score:          4,
		CreatedAt:      base.Add(time.Hour),
	}

	for _, post := range []*models.Post{evac, supplies, shelter} {
		RecomputeDerived(post)
	}
	return []*models.Post{evac, supplies, shelter}
}

func titles(posts []*models.Post) []string {
	out := make([]string, len(posts))
	for i, post := range posts {
		out[i] = post.Title
	}
	return out
}

func TestQuerySearchMatchesAllTextFields(t *testing.T) {
	posts := boardFixture()

	// Title match, case-insensitive.
	got := Query(posts, QueryOptions{Search: "SANDBAGS"})
	assert.Equal(t, []string{"Where to get sandbags?"}, titles(got))

	// Content match.
	got = Query(posts, QueryOptions{Search: "river district"})
	assert.Equal(t, []string{"Best evacuation routes from downtown?"}, titles(got))

	// Community tag match.
	got = Query(posts, QueryOptions{Search: "pets"})
	assert.Equal(t, []string{"Is the high school shelter pet friendly?"}, titles(got))

	// Moderation tag match.
	got = Query(posts, QueryOptions{Search: "verified"})
	assert.Equal(t, []string{"Best evacuation routes from downtown?"}, titles(got))

	got = Query(posts, QueryOptions{Search: "nothing matches this"})
	assert.Empty(t, got)
}

func TestQueryTagFilterSharesNamespace(t *testing.T) {
	posts := boardFixture()

	got := Query(posts, QueryOptions{TagFilter: "routes"})
	assert.Equal(t, []string{"Best evacuation routes from downtown?"}, titles(got))

	// Moderation tags are reachable through the same selector.
	got = Query(posts, QueryOptions{TagFilter: "verified"})
	assert.Equal(t, []string{"Best evacuation routes from downtown?"}, titles(got))

	// The wildcard and the empty selector pass everything.
	assert.Len(t, Query(posts, QueryOptions{TagFilter: TagFilterAll}), 3)
	assert.Len(t, Query(posts, QueryOptions{TagFilter: ""}), 3)
}

func TestQuerySortModes(t *testing.T) {
	posts := boardFixture()

	got := Query(posts, QueryOptions{Sort: SortVotes})
	assert.Equal(t, []string{
		"Where to get sandbags?",
		"Best evacuation routes from downtown?",
		"Is the high school shelter pet friendly?",
	}, titles(got))

	got = Query(posts, QueryOptions{Sort: SortRecent})
	assert.Equal(t, []string{
		"Where to get sandbags?",
		"Is the high school shelter pet friendly?",
		"Best evacuation routes from downtown?",
	}, titles(got))

	// Unanswered first, then score within each group.
	got = Query(posts, QueryOptions{Sort: SortAnswered})
	assert.Equal(t, []string{
		"Where to get sandbags?",
		"Is the high school shelter pet friendly?",
		"Best evacuation routes from downtown?",
	}, titles(got))

	// Unknown modes fall back to recency.
	got = Query(posts, QueryOptions{Sort: SortMode("bogus")})
	assert.Equal(t, titles(Query(posts, QueryOptions{Sort: SortRecent})), titles(got))
}

// Filtering then sorting by votes must give the same order as sorting the
// whole board and then dropping the non-matching posts.
func TestQueryFilterSortCommute(t *testing.T) {
	posts := boardFixture()

	filteredThenSorted := Query(posts, QueryOptions{Search: "s", Sort: SortVotes})

	sorted := Query(posts, QueryOptions{Sort: SortVotes})
	kept := make([]*models.Post, 0, len(sorted))
	for _, post := range sorted {
		if matchesSearch(post, "s") {
			kept = append(kept, post)
		}
	}

	assert.Equal(t, titles(kept), titles(filteredThenSorted))
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	posts := boardFixture()
	originalOrder := titles(posts)

	_ = Query(posts, QueryOptions{Sort: SortVotes})

	assert.Equal(t, originalOrder, titles(posts))
}

func TestDisplayOrder(t *testing.T) {
	official := &models.Answer{Content: "official low score", IsOfficial: true, Score: 2}
	popular := &models.Answer{Content: "community high score", Score: 50}
	quiet := &models.Answer{Content: "community low score", Score: 1}

	stored := []*models.Answer{popular, quiet, official}
	got := DisplayOrder(stored)

	assert.Equal(t, official, got[0])
	assert.Equal(t, popular, got[1])
	assert.Equal(t, quiet, got[2])

	// The stored slice keeps its order.
	assert.Equal(t, []*models.Answer{popular, quiet, official}, stored)
}
