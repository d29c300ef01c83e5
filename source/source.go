// Package source decides which playable source backs a title.
package source

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/cinewatch/cinewatch/metadata"
	"github.com/cinewatch/cinewatch/title"
	"github.com/samber/mo"
)

// Tag names a VideoSource variant.
type Tag string

const (
	TagDirect      Tag = "direct"
	TagEmbed       Tag = "embed"
	TagTrailer     Tag = "trailer"
	TagUnavailable Tag = "unavailable"
)

// VideoSource is one of DirectFile, EmbedProvider, TrailerFallback or Unavailable.
type VideoSource interface {
	Tag() Tag
	fmt.Stringer

	sealed()
}

// Container formats of direct files.
const (
	ContainerHLS  = "hls"
	ContainerMP4  = "mp4"
	ContainerDASH = "dash"
)

// DirectFile is a media file or manifest playable by the native player.
type DirectFile struct {
	URL       string
	Container string

	// Sample marks the built-in demo stream used when nothing else resolves.
	Sample bool
}

func (DirectFile) Tag() Tag { return TagDirect }
func (DirectFile) sealed() {}

func (d DirectFile) String() string {
	if d.Sample {
		return "sample stream " + d.URL
	}
	return fmt.Sprintf("%s file %s", d.Container, d.URL)
}

// NewDirectFile guesses the container from the URL path.
func NewDirectFile(rawURL string) DirectFile {
	return DirectFile{URL: rawURL, Container: ContainerOf(rawURL)}
}

// ContainerOf maps a URL extension to a container name. Unknown extensions map to mp4.
func ContainerOf(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".m3u8":
		return ContainerHLS
	case ".mpd":
		return ContainerDASH
	default:
		return ContainerMP4
	}
}

// EmbedProvider is full content served by a third-party embed page.
type EmbedProvider struct {
	TMDBID  int
	Kind    title.Kind
	Episode mo.Option[title.EpisodeRef]
}

func (EmbedProvider) Tag() Tag { return TagEmbed }
func (EmbedProvider) sealed() {}

func (e EmbedProvider) String() string {
	if ep, ok := e.Episode.Get(); ok {
		return fmt.Sprintf("embed %s/%d S%02dE%02d", e.Kind, e.TMDBID, ep.Season, ep.Episode)
	}
	return fmt.Sprintf("embed %s/%d", e.Kind, e.TMDBID)
}

// URL renders the embed address on the given mirror domain.
func (e EmbedProvider) URL(domain string) string {
	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(domain)
	b.WriteString("/embed/")
	b.WriteString(e.Kind.String())
	b.WriteString("?tmdb=")
	b.WriteString(strconv.Itoa(e.TMDBID))

	if ep, ok := e.Episode.Get(); ok {
		b.WriteString("&season=")
		b.WriteString(strconv.Itoa(ep.Season))
		b.WriteString("&episode=")
		b.WriteString(strconv.Itoa(ep.Episode))
	}

	b.WriteString("&autoplay=1")
	return b.String()
}

// TrailerFallback is a trailer hosted on an external video platform.
type TrailerFallback struct {
	Key  string
	Site string
}

func (TrailerFallback) Tag() Tag { return TagTrailer }
func (TrailerFallback) sealed() {}

func (t TrailerFallback) String() string {
	return fmt.Sprintf("%s trailer %s", t.Site, t.Key)
}

// URL returns the watch page of the trailer on its platform.
func (t TrailerFallback) URL() string {
	if strings.EqualFold(t.Site, metadata.SiteVimeo) {
		return "https://vimeo.com/" + t.Key
	}
	return "https://www.youtube.com/watch?v=" + t.Key
}

// Unavailable is returned only under the strict missing-content policy.
type Unavailable struct {
	Reason string
}

func (Unavailable) Tag() Tag { return TagUnavailable }
func (Unavailable) sealed() {}

func (u Unavailable) String() string {
	return "unavailable: " + u.Reason
}
