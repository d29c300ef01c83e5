package server

import (
	"sync"

	"github.com/cinewatch/cinewatch/embed"
)

// Relay is an embed.Frame living in a browser page. The page polls the relay
// for the URL to show and posts the iframe's events back, tagged with the
// attempt they belong to.
type Relay struct {
	mu         sync.Mutex
	url        string
	attempt    int
	sink       embed.Sink
	fullscreen bool
	closed     bool
}

// frameState is what the page polls.
type frameState struct {
	URL        string `json:"url"`
	Attempt    int    `json:"attempt"`
	Fullscreen bool   `json:"fullscreen"`
	Failed     bool   `json:"failed"`
	Error      string `json:"error,omitempty"`
}

func (r *Relay) Load(url string, sink embed.Sink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errRelayClosed
	}
	r.attempt++
	r.url, r.sink = url, sink
	return nil
}

func (r *Relay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.sink = nil
	r.url = ""
	return nil
}

// RequestFullscreen asks the page to enter or leave fullscreen on its next poll.
func (r *Relay) RequestFullscreen(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errRelayClosed
	}
	r.fullscreen = on
	return nil
}

func (r *Relay) state() frameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return frameState{URL: r.url, Attempt: r.attempt, Fullscreen: r.fullscreen}
}

// sinkFor returns the sink of attempt, or nil when the attempt is stale.
func (r *Relay) sinkFor(attempt int) embed.Sink {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || attempt != r.attempt {
		return nil
	}
	return r.sink
}

// fullscreenChanged records a fullscreen change made in the page itself.
func (r *Relay) fullscreenChanged(on bool) {
	r.mu.Lock()
	r.fullscreen = on
	r.mu.Unlock()
}

var _ embed.FullscreenFrame = (*Relay)(nil)
