// Package metadata fetches title details and their attached videos from TMDB.
package metadata

import "strings"

// Video types as reported by TMDB.
const (
	TypeTrailer = "Trailer"
	TypeTeaser  = "Teaser"
	TypeClip    = "Clip"
)

// Video hosting sites as reported by TMDB.
const (
	SiteYouTube = "YouTube"
	SiteVimeo   = "Vimeo"
)

// VideoRef is a video attached to a title, hosted on an external site.
type VideoRef struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Supported reports whether the hosting site can be played by the native player.
func (v VideoRef) Supported() bool {
	return strings.EqualFold(v.Site, SiteYouTube) || strings.EqualFold(v.Site, SiteVimeo)
}

// Detail is the slice of title metadata the player needs.
type Detail struct {
	Title  string     `json:"title"`
	Videos []VideoRef `json:"videos"`
}
