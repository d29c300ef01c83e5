// Package native plays DirectFile and TrailerFallback sources in a local
// media engine and bridges its events into playback state.
package native

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cinewatch/cinewatch/metadata"
	"github.com/cinewatch/cinewatch/source"
	"golang.org/x/exp/slices"
)

// ErrUnsupportedSource is returned for sources the native player cannot play.
var ErrUnsupportedSource = errors.New("source cannot be played natively")

// Tech is the playback technology of a mount. Exactly one is used per mount.
type Tech string

const (
	// TechHTML5 plays direct files and adaptive manifests.
	TechHTML5 Tech = "html5"
	// TechYouTube plays YouTube-hosted clips.
	TechYouTube Tech = "youtube"
	// TechVimeo plays Vimeo-hosted clips.
	TechVimeo Tech = "vimeo"
)

// Mime types of native sources.
const (
	MimeHLS     = "application/x-mpegURL"
	MimeMP4     = "video/mp4"
	MimeDASH    = "application/dash+xml"
	MimeYouTube = "video/youtube"
	MimeVimeo   = "video/vimeo"
)

// Preload strategies.
const (
	PreloadAuto     = "auto"
	PreloadMetadata = "metadata"
	PreloadNone     = "none"
)

// SourceOption is one entry of the source list.
type SourceOption struct {
	URL      string `json:"src"`
	MimeType string `json:"type"`
}

// Options configure a native mount.
type Options struct {
	Title     string         `json:"title,omitempty"`
	Preload   string         `json:"preload"`
	Autoplay  bool           `json:"autoplay"`
	Controls  bool           `json:"controls"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	TechOrder []Tech         `json:"techOrder"`
	Sources   []SourceOption `json:"sources"`
}

// DefaultOptions are used when configuration leaves a field empty.
func DefaultOptions() Options {
	return Options{
		Preload:  PreloadAuto,
		Autoplay: true,
		Controls: false,
		Width:    1280,
		Height:   720,
	}
}

// Equal reports whether o and other are identical.
func (o Options) Equal(other Options) bool {
	return o.Title == other.Title &&
		o.Preload == other.Preload &&
		o.Autoplay == other.Autoplay &&
		o.Controls == other.Controls &&
		o.Width == other.Width &&
		o.Height == other.Height &&
		slices.Equal(o.TechOrder, other.TechOrder) &&
		slices.Equal(o.Sources, other.Sources)
}

// Source returns the first source, which is the one played.
func (o Options) Source() SourceOption {
	if len(o.Sources) == 0 {
		return SourceOption{}
	}
	return o.Sources[0]
}

// Tech returns the first technology of the tech order.
func (o Options) Tech() Tech {
	if len(o.TechOrder) == 0 {
		return TechHTML5
	}
	return o.TechOrder[0]
}

func (o Options) clone() Options {
	o.TechOrder = slices.Clone(o.TechOrder)
	o.Sources = slices.Clone(o.Sources)
	return o
}

// MimeForContainer maps a direct file container to its mime type.
func MimeForContainer(container string) string {
	switch container {
	case source.ContainerHLS:
		return MimeHLS
	case source.ContainerDASH:
		return MimeDASH
	default:
		return MimeMP4
	}
}

// TechFor selects the technology from the source variant.
func TechFor(src source.VideoSource) (Tech, error) {
	switch s := src.(type) {
	case source.DirectFile:
		return TechHTML5, nil
	case source.TrailerFallback:
		if strings.EqualFold(s.Site, metadata.SiteVimeo) {
			return TechVimeo, nil
		}
		return TechYouTube, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedSource, src.Tag())
	}
}

// OptionsFor fills the tech order and source list of base for src.
func OptionsFor(src source.VideoSource, base Options) (Options, error) {
	tech, err := TechFor(src)
	if err != nil {
		return Options{}, err
	}

	opts := base.clone()
	opts.TechOrder = []Tech{tech}

	switch s := src.(type) {
	case source.DirectFile:
		opts.Sources = []SourceOption{{URL: s.URL, MimeType: MimeForContainer(s.Container)}}
	case source.TrailerFallback:
		mime := MimeYouTube
		if tech == TechVimeo {
			mime = MimeVimeo
		}
		opts.Sources = []SourceOption{{URL: s.URL(), MimeType: mime}}
	}

	return opts, nil
}
