// Command youtube serves a local stand-in for the YouTube Data API search
// and videoCategories methods.
package main

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"net/http"
	"strconv"
	"time"
)

type searchResult struct {
	Kind string `json:"kind"`
	ID   struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId,omitempty"`
	} `json:"id"`
	Snippet struct {
		Title string `json:"title"`
	} `json:"snippet"`
}

func main() {
	http.HandleFunc("/youtube/v3/search", func(w http.ResponseWriter, r *http.Request) {
		// Simulate network latency (50-200ms)
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		if r.Header.Get("X-Goog-Api-Key") == "" && r.URL.Query().Get("key") == "" {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error": map[string]any{"code": 403, "message": "The request is missing a valid API key."},
			})
			log.Printf("[YouTube] %s %s - 403 missing key", r.Method, r.URL.Path)

			return
		}

		term := r.URL.Query().Get("q")
		maxResults, err := strconv.Atoi(r.URL.Query().Get("maxResults"))
		if err != nil || maxResults <= 0 {
			maxResults = 5
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"kind":  "youtube#searchListResponse",
			"items": results(term, maxResults),
		})
		log.Printf("[YouTube] %s %s q=%q maxResults=%d - 200 OK", r.Method, r.URL.Path, term, maxResults)
	})

	http.HandleFunc("/youtube/v3/videoCategories", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"kind": "youtube#videoCategoryListResponse", "items": []any{}})
	})

	log.Println("Mock YouTube running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// results derives stable fake video ids from the search term.
func results(term string, n int) []searchResult {
	h := fnv.New64a()
	_, _ = h.Write([]byte(term))
	seed := h.Sum64()

	items := make([]searchResult, n)
	for i := range items {
		items[i].Kind = "youtube#searchResult"
		items[i].ID.Kind = "youtube#video"
		id := strconv.FormatUint(seed+uint64(i), 36)
		if len(id) > 11 {
			id = id[:11]
		}
		items[i].ID.VideoID = id
		items[i].Snippet.Title = fmt.Sprintf("%s #%d", term, i+1)
	}

	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[YouTube] Write error: %v", err)
	}
}
