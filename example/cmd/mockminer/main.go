// Standalone mock miner for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockminer
//
// Then in another terminal:
//
//	go run ./cmd/flatline watch localhost:9101 -i 5s
//
// or with a config file:
//
//	go run ./cmd/flatline watch -c example/config.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"
)

func main() {
	addr := flag.String("addr", ":9101", "listen address")
	hostname := flag.String("hostname", "bitaxe-mock", "reported hostname")
	stallAfter := flag.Int("stall-after", 5, "freeze the share counter after N polls (0 never stalls)")
	flag.Parse()

	fmt.Printf("Mock Bitaxe %q starting on %s\n", *hostname, *addr)
	if *stallAfter > 0 {
		fmt.Printf("Share counter freezes after %d polls; a restart unfreezes it\n", *stallAfter)
	}
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	var (
		mu       sync.Mutex
		shares   uint64
		polls    int
		bootedAt = time.Now()
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/system/info", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		polls++
		if *stallAfter == 0 || polls <= *stallAfter {
			shares += uint64(1 + rand.Intn(5))
		}
		resp := map[string]any{
			"hostname":       *hostname,
			"hashRate":       480.0 + rand.Float64()*60,
			"sharesAccepted": shares,
			"temp":           55.0 + rand.Float64()*8,
			"vrTemp":         42.0 + rand.Float64()*6,
			"uptimeSeconds":  int64(time.Since(bootedAt).Seconds()),
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("POST /api/system/restart", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		polls = 0
		bootedAt = time.Now()
		mu.Unlock()
		slog.Info("restart received, share counter unfrozen")
		w.WriteHeader(http.StatusOK)
	})

	if err := http.ListenAndServe(*addr, mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
