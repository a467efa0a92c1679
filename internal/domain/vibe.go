package domain

import (
	"sort"
	"strings"
)

// Vibe is a user-facing mood or intent tag.
type Vibe string

const (
	VibeRelax        Vibe = "relax"
	VibeStory        Vibe = "story"
	VibeAngerRelease Vibe = "anger_release"
	VibeIntellect    Vibe = "intellect"
	VibeCompetitive  Vibe = "competitive"
	VibeCoop         Vibe = "coop"
	VibeExplore      Vibe = "explore"
	VibeNostalgia    Vibe = "nostalgia"
	VibeHard         Vibe = "hard"
	VibeQuickCasual  Vibe = "quick_casual"
)

// vibeVocabulary is the controlled vocabulary shared by every catalog.
// Genres are matched exactly against an item's genre list; keywords are
// matched as substrings of the item's text.
type vibeVocabulary struct {
	Genres   []string
	Keywords []string
}

var vibes = map[Vibe]vibeVocabulary{
	VibeRelax: {
		Genres:   []string{"simulation", "casual", "puzzle"},
		Keywords: []string{"cozy", "relaxing", "chill", "farming", "wholesome", "peaceful", "cute"},
	},
	VibeStory: {
		Genres:   []string{"adventure", "rpg", "role-playing (rpg)", "visual novel"},
		Keywords: []string{"story rich", "narrative", "story", "choices matter", "cinematic"},
	},
	VibeAngerRelease: {
		Genres:   []string{"action", "shooter", "fighting", "hack and slash/beat 'em up"},
		Keywords: []string{"violent", "gore", "hack and slash", "beat 'em up", "destruction", "fps"},
	},
	VibeIntellect: {
		Genres:   []string{"puzzle", "strategy", "turn-based strategy (tbs)", "real time strategy (rts)"},
		Keywords: []string{"puzzle", "strategy", "logic", "tactical", "management", "deckbuilding"},
	},
	VibeCompetitive: {
		Genres:   []string{"sports", "racing", "fighting", "moba"},
		Keywords: []string{"pvp", "competitive", "esports", "multiplayer", "ranked"},
	},
	VibeCoop: {
		Genres:   []string{"massively multiplayer"},
		Keywords: []string{"co-op", "coop", "cooperative", "local co-op", "online co-op", "split screen"},
	},
	VibeExplore: {
		Genres:   []string{"adventure", "rpg", "role-playing (rpg)"},
		Keywords: []string{"open world", "exploration", "sandbox", "survival", "metroidvania"},
	},
	VibeNostalgia: {
		Genres:   []string{"platform", "platformer", "arcade"},
		Keywords: []string{"retro", "pixel graphics", "classic", "old school", "8-bit", "16-bit"},
	},
	VibeHard: {
		Genres:   []string{"action", "platform", "platformer"},
		Keywords: []string{"difficult", "souls-like", "soulslike", "roguelike", "roguelite", "permadeath", "hardcore"},
	},
	VibeQuickCasual: {
		Genres:   []string{"casual", "arcade", "card & board game"},
		Keywords: []string{"casual", "short", "arcade", "party", "minigames", "score attack"},
	},
}

// sourceKeywords adds the spellings a particular catalog uses for a vibe.
// IGDB exposes themes and game modes, RAWG exposes tag slugs.
var sourceKeywords = map[Source]map[Vibe][]string{
	SourceIGDB: {
		VibeRelax:       {"kids", "party"},
		VibeStory:       {"drama", "mystery"},
		VibeCompetitive: {"battle royale"},
		VibeCoop:        {"co-operative", "split screen"},
		VibeExplore:     {"open world", "sandbox"},
		VibeHard:        {"survival"},
	},
	SourceRAWG: {
		VibeRelax:       {"relaxing", "atmospheric"},
		VibeStory:       {"story-rich", "great-soundtrack"},
		VibeCompetitive: {"pvp", "online-pvp"},
		VibeCoop:        {"online-co-op", "local-co-op"},
		VibeExplore:     {"open-world", "exploration"},
		VibeHard:        {"difficult", "souls-like"},
	},
	SourceSteam: {
		VibeStory: {"story rich"},
		VibeCoop:  {"online co-op", "local co-op"},
		VibeHard:  {"difficult"},
	},
}

// KnownVibes returns every vibe in a stable order.
func KnownVibes() []Vibe {
	out := make([]Vibe, 0, len(vibes))
	for v := range vibes {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseVibes normalises raw tags, dropping unknown ones and duplicates while
// keeping request order. "anger-release" and "anger release" both map to
// VibeAngerRelease.
func ParseVibes(raw []string) []Vibe {
	seen := make(map[Vibe]struct{}, len(raw))
	out := make([]Vibe, 0, len(raw))
	for _, r := range raw {
		v := Vibe(strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(r))))
		if v == "co_op" {
			v = VibeCoop
		}
		if _, ok := vibes[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Terms returns the keywords that signal v for items from source src.
func (v Vibe) Terms(src Source) []string {
	vocab := vibes[v]
	terms := make([]string, 0, len(vocab.Keywords)+len(vocab.Genres)+4)
	terms = append(terms, vocab.Keywords...)
	terms = append(terms, vocab.Genres...)
	terms = append(terms, sourceKeywords[src][v]...)
	return terms
}

// Genres returns the genre names associated with v.
func (v Vibe) Genres() []string {
	return vibes[v].Genres
}

// VibeMatch measures how many of the requested vibes an item satisfies:
// matched vibes / requested vibes. A vibe matches when any of its terms
// appears in the item's name, summary, genres or tags. No requested vibes
// yields NeutralVibeMatch. The matched vibes are returned in request order.
func VibeMatch(item *CatalogItem, requested []Vibe) (float64, []Vibe) {
	if len(requested) == 0 {
		return NeutralVibeMatch, nil
	}
	if item == nil {
		return 0, nil
	}

	text := itemText(item)
	matched := make([]Vibe, 0, len(requested))
	for _, v := range requested {
		for _, term := range v.Terms(item.Source) {
			if strings.Contains(text, term) {
				matched = append(matched, v)
				break
			}
		}
	}

	return Clamp01(float64(len(matched)) / float64(len(requested))), matched
}

// GenreOverlap measures how much of an item's own genre list falls inside
// the genres derived from the requested vibes: overlapping genres / item
// genres. Unlike VibeMatch the denominator is the item's genre count, so it
// answers "how on-theme is this game" rather than "how much of the request
// does it cover". No vibes or no item genres yields NeutralVibeMatch.
func GenreOverlap(item *CatalogItem, requested []Vibe) float64 {
	if len(requested) == 0 || item == nil || len(item.Genres) == 0 {
		return NeutralVibeMatch
	}

	wanted := make(map[string]struct{})
	for _, v := range requested {
		for _, g := range v.Genres() {
			wanted[g] = struct{}{}
		}
	}

	hits := 0
	for _, g := range item.Genres {
		if _, ok := wanted[strings.ToLower(strings.TrimSpace(g))]; ok {
			hits++
		}
	}

	return Clamp01(float64(hits) / float64(len(item.Genres)))
}

func itemText(item *CatalogItem) string {
	var sb strings.Builder
	sb.WriteString(item.Name)
	sb.WriteByte(' ')
	sb.WriteString(item.Summary)
	for _, g := range item.Genres {
		sb.WriteByte(' ')
		sb.WriteString(g)
	}
	for _, t := range item.Tags {
		sb.WriteByte(' ')
		sb.WriteString(t)
	}
	return strings.ToLower(sb.String())
}
