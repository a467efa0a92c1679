package igdb

import (
	"fmt"
	"strconv"
	"strings"

	"game-recommendation-service/internal/domain"
)

const gameFields = "name,summary,aggregated_rating,aggregated_rating_count,total_rating," +
	"genres.name,themes.name,game_modes.name,keywords.name,cover.image_id,url," +
	"external_games.category,external_games.uid"

// genreNames maps the vibe vocabulary onto IGDB genre names.
var genreNames = map[string]string{
	"adventure":                  "Adventure",
	"rpg":                        "Role-playing (RPG)",
	"role-playing (rpg)":         "Role-playing (RPG)",
	"visual novel":               "Visual Novel",
	"simulation":                 "Simulator",
	"puzzle":                     "Puzzle",
	"strategy":                   "Strategy",
	"turn-based strategy (tbs)":  "Turn-based strategy (TBS)",
	"real time strategy (rts)":   "Real Time Strategy (RTS)",
	"shooter":                    "Shooter",
	"fighting":                   "Fighting",
	"hack and slash/beat 'em up": "Hack and slash/Beat 'em up",
	"sports":                     "Sport",
	"racing":                     "Racing",
	"moba":                       "MOBA",
	"platform":                   "Platform",
	"platformer":                 "Platform",
	"arcade":                     "Arcade",
	"card & board game":          "Card & Board Game",
}

// themeNames and modeNames map vocabulary genres IGDB models as themes or
// game modes.
var (
	themeNames = map[string]string{
		"action": "Action",
	}
	modeNames = map[string]string{
		"massively multiplayer": "Massively Multiplayer Online (MMO)",
	}
)

// buildGamesQuery renders an Apicalypse body for the catalog query. Games
// must have at least one critic rating so discovery has a quality signal.
func buildGamesQuery(q domain.CatalogQuery) string {
	genres := mapNames(q.Genres, genreNames)
	themes := mapNames(q.Genres, themeNames)
	modes := mapNames(q.Genres, modeNames)

	var keywords []string
	for _, k := range q.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, strconv.Quote(k))
		}
	}

	var anyOf []string
	for _, f := range []struct {
		field  string
		values []string
	}{
		{"genres.name", genres},
		{"themes.name", themes},
		{"game_modes.name", modes},
		{"keywords.name", keywords},
	} {
		if len(f.values) > 0 {
			anyOf = append(anyOf, fmt.Sprintf("%s = (%s)", f.field, strings.Join(f.values, ",")))
		}
	}

	where := "aggregated_rating_count > 0"
	if len(anyOf) > 0 {
		where += " & (" + strings.Join(anyOf, " | ") + ")"
	}

	limit := q.PageSize
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	return fmt.Sprintf("fields %s; where %s; sort aggregated_rating desc; limit %d;", gameFields, where, limit)
}

// mapNames translates vocabulary names through names, quoted and deduplicated.
func mapNames(in []string, names map[string]string) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range in {
		name, ok := names[strings.ToLower(strings.TrimSpace(v))]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, strconv.Quote(name))
	}
	return out
}

// buildTimeToBeatQuery renders an Apicalypse body fetching completion times.
func buildTimeToBeatQuery(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("fields game_id,hastily,normally; where game_id = (%s); limit %d;", strings.Join(parts, ","), len(ids))
}
