// Package embed plays EmbedProvider sources through a third-party embed page,
// walking the mirror domains until one loads.
package embed

import (
	"errors"
	"fmt"
	"time"

	"github.com/cinewatch/cinewatch/constant"
)

var (
	// ErrExhausted is reported when every candidate domain failed.
	ErrExhausted = errors.New("all embed mirrors failed")
	// ErrNoCandidates is returned when mounting without candidate domains.
	ErrNoCandidates = errors.New("no embed domains configured")
)

// Default timings of the fallback state machine.
const (
	DefaultLoadTimeout = 12 * time.Second
	DefaultGraceWindow = 3 * time.Second
)

// Phase is the state of the fallback state machine.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// FallbackState tracks progress through the candidate domains of one mount.
// Index never decreases and stays within Candidates.
type FallbackState struct {
	Candidates []string `json:"candidates"`
	Index      int      `json:"index"`
	Exhausted  bool     `json:"exhausted"`
}

// Current returns the domain being tried.
func (s FallbackState) Current() string {
	if s.Index < len(s.Candidates) {
		return s.Candidates[s.Index]
	}
	return ""
}

// Settings configures an adapter.
type Settings struct {
	Domains     []string
	LoadTimeout time.Duration
	GraceWindow time.Duration
}

// DefaultSettings returns the built-in mirrors and timings.
func DefaultSettings() Settings {
	return Settings{
		Domains:     append([]string(nil), constant.DefaultEmbedDomains...),
		LoadTimeout: DefaultLoadTimeout,
		GraceWindow: DefaultGraceWindow,
	}
}

func (s Settings) withDefaults() Settings {
	if s.LoadTimeout <= 0 {
		s.LoadTimeout = DefaultLoadTimeout
	}
	if s.GraceWindow <= 0 {
		s.GraceWindow = DefaultGraceWindow
	}
	return s
}

// Hooks observe the state machine. Any of them may be nil.
type Hooks struct {
	OnAttempt func(index int, domain, url string)
	OnAdvance func(from int, reason string)
	OnLoaded  func(domain string)
	OnFailed  func(err error)
}
