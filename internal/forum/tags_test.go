package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCommunityTags(t *testing.T) {
	got := NormalizeCommunityTags([]string{"a", "B", "a", "  ", "c "})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSplitTagList(t *testing.T) {
	got := SplitTagList("Evacuation, routes ,, EVACUATION")
	assert.Equal(t, []string{"evacuation", "routes"}, got)
}

func TestIsModerationTag(t *testing.T) {
	assert.True(t, IsModerationTag("answered"))
	assert.True(t, IsModerationTag(" Verified "))
	assert.False(t, IsModerationTag("evacuation"))
	assert.False(t, IsModerationTag(""))
}

func TestTagRegistry(t *testing.T) {
	registry := NewTagRegistry([]string{"shelter", "routes"})

	added := registry.Register([]string{"Routes", "sandbags", ""})
	assert.Equal(t, []string{"sandbags"}, added)

	assert.Equal(t, []string{"shelter", "routes", "sandbags"}, registry.Known())

	// Registering nothing new returns nothing.
	assert.Empty(t, registry.Register([]string{"shelter"}))
}
