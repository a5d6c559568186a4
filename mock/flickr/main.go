// Command flickr serves a local stand-in for the Flickr public photo feed.
package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const feedSize = 20

func main() {
	http.HandleFunc("/services/feeds/photos_public.gne", func(w http.ResponseWriter, r *http.Request) {
		// Simulate network latency (50-200ms)
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		tags := r.URL.Query().Get("tags")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(feed(tags))); err != nil {
			log.Printf("[Flickr] Write error: %v", err)
		}

		log.Printf("[Flickr] %s %s tags=%q - 200 OK", r.Method, r.URL.Path, tags)
	})

	log.Println("Mock Flickr running on :8082")
	server := &http.Server{
		Addr:         ":8082",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// feed renders the body the real feed returns, including its
// non-standard \' escapes.
func feed(tags string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `{"title":"Recent Uploads tagged %s","items":[`, tags)
	for i := 0; i < feedSize; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b,
			`{"title":"%s\'s photo %d","link":"https://www.flickr.com/photos/mock/%d/","media":{"m":"https://live.staticflickr.com/65535/%d_mock_m.jpg"},"tags":"%s"}`,
			tags, i+1, i+1, 5000000+i, tags,
		)
	}
	b.WriteString("]}")

	return b.String()
}
