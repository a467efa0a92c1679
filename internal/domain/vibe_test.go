package domain

import (
	"reflect"
	"testing"
)

func TestVibeMatch(t *testing.T) {
	cozy := &CatalogItem{
		Source:  SourceRAWG,
		Name:    "Garden Story",
		Summary: "A cozy adventure about tending a village.",
		Genres:  []string{"Adventure", "Indie"},
	}
	doom := &CatalogItem{
		Source:  SourceIGDB,
		Name:    "Doom Eternal",
		Summary: "Rip and tear.",
		Genres:  []string{"Shooter"},
	}

	tests := []struct {
		name            string
		item            *CatalogItem
		vibes           []Vibe
		expectedScore   float64
		expectedMatched []Vibe
	}{
		{"relax matches cozy", cozy, []Vibe{VibeRelax}, 1, []Vibe{VibeRelax}},
		{"no vibes is neutral", cozy, nil, NeutralVibeMatch, nil},
		{"half the vibes matched", cozy, []Vibe{VibeRelax, VibeCompetitive}, 0.5, []Vibe{VibeRelax}},
		{"nothing matches", doom, []Vibe{VibeRelax}, 0, []Vibe{}},
		{"genre name matches anger release", doom, []Vibe{VibeAngerRelease}, 1, []Vibe{VibeAngerRelease}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, matched := VibeMatch(tt.item, tt.vibes)
			if !almostEqual(score, tt.expectedScore) {
				t.Errorf("VibeMatch() score = %v, want %v", score, tt.expectedScore)
			}
			if len(matched) != len(tt.expectedMatched) || (len(matched) > 0 && !reflect.DeepEqual(matched, tt.expectedMatched)) {
				t.Errorf("VibeMatch() matched = %v, want %v", matched, tt.expectedMatched)
			}
		})
	}
}

func TestVibeMatch_SourceSpecificKeywords(t *testing.T) {
	item := &CatalogItem{Source: SourceRAWG, Name: "Valheim", Tags: []string{"online-co-op"}}

	score, _ := VibeMatch(item, []Vibe{VibeCoop})
	if score != 1 {
		t.Errorf("expected RAWG tag slug to match coop, got %v", score)
	}
}

func TestGenreOverlap(t *testing.T) {
	item := &CatalogItem{Genres: []string{"Adventure", "Action", "Indie"}}

	tests := []struct {
		name     string
		item     *CatalogItem
		vibes    []Vibe
		expected float64
	}{
		{"one of three genres on theme", item, []Vibe{VibeStory}, 1.0 / 3.0},
		{"two of three genres on theme", item, []Vibe{VibeStory, VibeHard}, 2.0 / 3.0},
		{"no vibes is neutral", item, nil, NeutralVibeMatch},
		{"no genres is neutral", &CatalogItem{Name: "Bare"}, []Vibe{VibeStory}, NeutralVibeMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenreOverlap(tt.item, tt.vibes); !almostEqual(got, tt.expected) {
				t.Errorf("GenreOverlap() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseVibes(t *testing.T) {
	got := ParseVibes([]string{"anger-release", "Co-op", "relax", "RELAX", "zen", "quick casual"})
	want := []Vibe{VibeAngerRelease, VibeCoop, VibeRelax, VibeQuickCasual}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseVibes() = %v, want %v", got, want)
	}
}

func TestKnownVibes(t *testing.T) {
	known := KnownVibes()
	if len(known) != 10 {
		t.Fatalf("expected 10 vibes, got %d", len(known))
	}
	for i := 1; i < len(known); i++ {
		if known[i-1] >= known[i] {
			t.Errorf("KnownVibes not sorted at %d: %q >= %q", i, known[i-1], known[i])
		}
	}
}
