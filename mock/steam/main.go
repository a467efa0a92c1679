// Command steam is a local stand-in for the Steam Web API, the Steam Store
// and SteamSpy. Point provider.steam, provider.steam_store and
// provider.steamspy base URLs at it for offline development.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"
)

type mockGame struct {
	AppID        int
	Name         string
	Minutes      int
	LastPlayed   time.Time
	Achievements int
	Unlocked     int
	Metacritic   int
	Genres       []string
	Positive     int
	Negative     int
	Tags         map[string]int
}

var library = []mockGame{
	{AppID: 620, Name: "Portal 2", Minutes: 0, Achievements: 51, Metacritic: 95,
		Genres: []string{"Action", "Adventure"}, Positive: 380000, Negative: 4000,
		Tags: map[string]int{"Puzzle": 9000, "Co-op": 6000, "Story Rich": 4000}},
	{AppID: 413150, Name: "Stardew Valley", Minutes: 3600, LastPlayed: time.Now().AddDate(0, 0, -3), Achievements: 40, Unlocked: 31, Metacritic: 89,
		Genres: []string{"Indie", "RPG", "Simulation"}, Positive: 600000, Negative: 9000,
		Tags: map[string]int{"Farming Sim": 9000, "Relaxing": 7000, "Cozy": 5000}},
	{AppID: 1145360, Name: "Hades", Minutes: 1500, LastPlayed: time.Now().AddDate(0, -8, 0), Achievements: 49, Unlocked: 12, Metacritic: 93,
		Genres: []string{"Action", "Indie", "RPG"}, Positive: 250000, Negative: 4500,
		Tags: map[string]int{"Roguelike": 8000, "Difficult": 4000, "Hack and Slash": 3000}},
	{AppID: 292030, Name: "The Witcher 3: Wild Hunt", Minutes: 5400, LastPlayed: time.Now().AddDate(0, 0, -40),
		Genres: []string{"RPG"}, Positive: 700000, Negative: 30000,
		Tags: map[string]int{"Open World": 9000, "Story Rich": 8000}},
}

func byAppID(r *http.Request, key string) (mockGame, bool) {
	id, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return mockGame{}, false
	}
	for _, g := range library {
		if g.AppID == id {
			return g, true
		}
	}
	return mockGame{}, false
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	// Simulate network latency (50-200ms)
	time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Steam mock] write error: %v", err)
	}
	log.Printf("[Steam mock] %s %s", r.Method, r.URL.RequestURI())
}

func ownedGames(w http.ResponseWriter, r *http.Request) {
	games := make([]map[string]any, 0, len(library))
	for _, g := range library {
		var last int64
		if !g.LastPlayed.IsZero() {
			last = g.LastPlayed.Unix()
		}
		games = append(games, map[string]any{
			"appid":                       g.AppID,
			"name":                        g.Name,
			"playtime_forever":            g.Minutes,
			"rtime_last_played":           last,
			"has_community_visible_stats": g.Achievements > 0,
		})
	}
	writeJSON(w, r, map[string]any{"response": map[string]any{"game_count": len(games), "games": games}})
}

func achievements(w http.ResponseWriter, r *http.Request) {
	g, ok := byAppID(r, "appid")
	if !ok || g.Achievements == 0 {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, r, map[string]any{"playerstats": map[string]any{"success": false, "error": "Requested app has no stats"}})
		return
	}

	list := make([]map[string]any, g.Achievements)
	for i := range list {
		achieved := 0
		if i < g.Unlocked {
			achieved = 1
		}
		list[i] = map[string]any{"apiname": "ACH_" + strconv.Itoa(i), "achieved": achieved}
	}
	writeJSON(w, r, map[string]any{"playerstats": map[string]any{
		"steamID": r.URL.Query().Get("steamid"), "gameName": g.Name, "achievements": list, "success": true,
	}})
}

func appDetails(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("appids")
	g, ok := byAppID(r, "appids")
	if !ok {
		writeJSON(w, r, map[string]any{id: map[string]any{"success": false}})
		return
	}

	genres := make([]map[string]any, len(g.Genres))
	for i, name := range g.Genres {
		genres[i] = map[string]any{"id": strconv.Itoa(i + 1), "description": name}
	}
	data := map[string]any{
		"type":              "game",
		"name":              g.Name,
		"steam_appid":       g.AppID,
		"short_description": g.Name + " is a game.",
		"genres":            genres,
	}
	if g.Metacritic > 0 {
		data["metacritic"] = map[string]any{"score": g.Metacritic}
	}
	writeJSON(w, r, map[string]any{id: map[string]any{"success": true, "data": data}})
}

func steamSpy(w http.ResponseWriter, r *http.Request) {
	g, ok := byAppID(r, "appid")
	if !ok {
		writeJSON(w, r, map[string]any{"appid": 0, "name": nil, "tags": []any{}})
		return
	}
	writeJSON(w, r, map[string]any{
		"appid": g.AppID, "name": g.Name, "positive": g.Positive, "negative": g.Negative, "tags": g.Tags,
	})
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/IPlayerService/GetOwnedGames/v1/", ownedGames)
	mux.HandleFunc("/ISteamUserStats/GetPlayerAchievements/v1/", achievements)
	mux.HandleFunc("/ISteamWebAPIUtil/GetServerInfo/v1/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, map[string]any{"servertime": time.Now().Unix()})
	})
	mux.HandleFunc("/api/appdetails", appDetails)
	mux.HandleFunc("/api.php", steamSpy)

	log.Println("Mock Steam running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
