package steam

import (
	"fmt"
	"strconv"
	"time"

	"game-recommendation-service/internal/domain"
)

// OwnedGamesResponse is the IPlayerService/GetOwnedGames payload. A private
// profile answers with an empty "response" object.
type OwnedGamesResponse struct {
	Response struct {
		GameCount *int        `json:"game_count"`
		Games     []OwnedGame `json:"games"`
	} `json:"response"`
}

// OwnedGame is a single library entry.
type OwnedGame struct {
	AppID            int    `json:"appid"`
	Name             string `json:"name"`
	PlaytimeForever  int    `json:"playtime_forever"` // minutes
	Playtime2Weeks   int    `json:"playtime_2weeks"`  // minutes
	ImgIconURL       string `json:"img_icon_url"`
	RTimeLastPlayed  int64  `json:"rtime_last_played"` // unix seconds, 0 when never
	HasCommunityStat bool   `json:"has_community_visible_stats"`
}

// PlayerAchievementsResponse is the ISteamUserStats/GetPlayerAchievements payload.
type PlayerAchievementsResponse struct {
	PlayerStats struct {
		SteamID      string        `json:"steamID"`
		GameName     string        `json:"gameName"`
		Achievements []Achievement `json:"achievements"`
		Success      bool          `json:"success"`
		Error        string        `json:"error"`
	} `json:"playerstats"`
}

// Achievement is one achievement state.
type Achievement struct {
	APIName    string `json:"apiname"`
	Achieved   int    `json:"achieved"`
	UnlockTime int64  `json:"unlocktime"`
}

// Counts returns total and unlocked achievements.
func (r *PlayerAchievementsResponse) Counts() (total, unlocked int) {
	for _, a := range r.PlayerStats.Achievements {
		total++
		if a.Achieved == 1 {
			unlocked++
		}
	}
	return total, unlocked
}

// ToDomain converts a library entry to an owned game with a minimal catalog record.
func (g *OwnedGame) ToDomain(steamID string) domain.OwnedGame {
	var lastPlayed *time.Time
	if g.RTimeLastPlayed > 0 {
		t := time.Unix(g.RTimeLastPlayed, 0).UTC()
		lastPlayed = &t
	}

	return domain.OwnedGame{
		Ownership: domain.Ownership{
			SteamID:         steamID,
			AppID:           g.AppID,
			PlaytimeMinutes: g.PlaytimeForever,
			LastPlayedAt:    lastPlayed,
		},
		Game: &domain.CatalogItem{
			AppID:      g.AppID,
			ExternalID: strconv.Itoa(g.AppID),
			Source:     domain.SourceSteam,
			Name:       g.Name,
			ImageURL:   HeaderImageURL(g.AppID),
			StoreURL:   StoreURL(g.AppID),
		},
	}
}

// HeaderImageURL returns the CDN header image of an app.
func HeaderImageURL(appID int) string {
	return fmt.Sprintf("https://cdn.cloudflare.steamstatic.com/steam/apps/%d/header.jpg", appID)
}

// StoreURL returns the store page of an app.
func StoreURL(appID int) string {
	return fmt.Sprintf("https://store.steampowered.com/app/%d", appID)
}
