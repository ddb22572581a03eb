package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonster_Names(t *testing.T) {
	t.Parallel()

	japanese := "フシギダネ"
	empty := ""

	tests := []struct {
		name     string
		monster  Monster
		expected []string
	}{
		{
			name:     "english only",
			monster:  Monster{NameEnglish: "Bulbasaur"},
			expected: []string{"Bulbasaur"},
		},
		{
			name:     "empty japanese name is skipped",
			monster:  Monster{NameEnglish: "Bulbasaur", NameJapanese: &empty},
			expected: []string{"Bulbasaur"},
		},
		{
			name:     "both names",
			monster:  Monster{NameEnglish: "Bulbasaur", NameJapanese: &japanese},
			expected: []string{"Bulbasaur", "フシギダネ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.monster.Names())
		})
	}
}

func TestMonster_IsSpawnable(t *testing.T) {
	t.Parallel()

	art := "https://example.com/art/1.png"
	empty := ""

	assert.True(t, (&Monster{NameEnglish: "Bulbasaur", ArtworkURL: &art}).IsSpawnable())
	assert.False(t, (&Monster{NameEnglish: "Bulbasaur"}).IsSpawnable(), "missing artwork")
	assert.False(t, (&Monster{NameEnglish: "Bulbasaur", ArtworkURL: &empty}).IsSpawnable(), "empty artwork")
	assert.False(t, (&Monster{ArtworkURL: &art}).IsSpawnable(), "missing name")
}

func TestMonster_CanEvolve(t *testing.T) {
	t.Parallel()

	target := int64(2)
	zero := int64(0)

	assert.True(t, (&Monster{ID: 1, EvolvesTo: &target}).CanEvolve())
	assert.False(t, (&Monster{ID: 1}).CanEvolve())
	assert.False(t, (&Monster{ID: 1, EvolvesTo: &zero}).CanEvolve())
}
