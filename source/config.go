package source

import (
	"fmt"
	"strings"
)

// MissingPolicy decides what happens when no source resolves.
type MissingPolicy int

const (
	// MissingSample substitutes the sample stream.
	MissingSample MissingPolicy = iota
	// MissingUnavailable reports the title as unavailable.
	MissingUnavailable
)

func (p MissingPolicy) String() string {
	if p == MissingUnavailable {
		return "unavailable"
	}
	return "sample"
}

// ParseMissingPolicy parses "sample" or "unavailable".
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sample":
		return MissingSample, nil
	case "unavailable", "strict":
		return MissingUnavailable, nil
	default:
		return 0, fmt.Errorf("unknown missing policy %q", s)
	}
}

// EmbedConfig switches the embed provider.
type EmbedConfig struct {
	Enabled bool
	Domains []string
}

// Config is the static input of Resolve.
type Config struct {
	Embed EmbedConfig

	// DirectFiles maps a title key such as "movie/550" to a media URL.
	DirectFiles map[string]string

	Missing   MissingPolicy
	SampleURL string
}
