package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// minerState tracks the share counter and stall behavior for a mock miner.
type minerState struct {
	mu         sync.Mutex
	hostname   string
	shares     uint64
	bootedAt   time.Time
	polls      int
	stallAfter int // freeze the share counter after this many polls; 0 never stalls
}

// StartMockMiner runs a fake Bitaxe system API on addr.
//
// The miner reports a growing accepted-share counter. When stallAfter is
// positive, the counter freezes after that many info requests, simulating
// a flatlined miner; a restart request unfreezes it and resets uptime.
// Call this in a goroutine before creating the monitor.
func StartMockMiner(addr, hostname string, stallAfter int) {
	state := &minerState{
		hostname:   hostname,
		bootedAt:   time.Now(),
		stallAfter: stallAfter,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/system/info", func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		state.polls++
		stalled := state.stallAfter > 0 && state.polls > state.stallAfter
		if !stalled {
			state.shares += uint64(1 + rand.Intn(5))
		}
		resp := map[string]any{
			"hostname":       state.hostname,
			"hashRate":       480.0 + rand.Float64()*60,
			"sharesAccepted": state.shares,
			"temp":           55.0 + rand.Float64()*8,
			"vrTemp":         42.0 + rand.Float64()*6,
			"uptimeSeconds":  int64(time.Since(state.bootedAt).Seconds()),
		}
		state.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})
	mux.HandleFunc("POST /api/system/restart", func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		state.polls = 0
		state.bootedAt = time.Now()
		slog.Info("mock miner restarted", "hostname", state.hostname)
		state.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock miner error", "error", err)
	}
}
