package source

import (
	"strings"

	"github.com/cinewatch/cinewatch/metadata"
	"github.com/cinewatch/cinewatch/title"
	"github.com/samber/mo"
)

// trailerRank orders video types. Lower is better.
var trailerRank = map[string]int{
	metadata.TypeTrailer: 0,
	metadata.TypeTeaser:  1,
	metadata.TypeClip:    2,
}

const otherRank = 3

// Resolve picks exactly one source for ref. It performs no I/O and never fails.
// A nil detail is treated as a title without videos.
func Resolve(ref title.Ref, detail *metadata.Detail, cfg Config) VideoSource {
	if cfg.Embed.Enabled {
		embed := EmbedProvider{TMDBID: ref.ID, Kind: ref.Kind}
		if ref.Kind == title.Series {
			embed.Episode = ref.Episode
		}
		return embed
	}

	if u, ok := cfg.DirectFiles[ref.Key()]; ok && u != "" {
		return NewDirectFile(u)
	}

	if detail != nil {
		if trailer, ok := BestTrailer(detail.Videos).Get(); ok {
			return TrailerFallback{Key: trailer.Key, Site: trailer.Site}
		}
	}

	if cfg.Missing == MissingUnavailable {
		return Unavailable{Reason: "no playable source for " + ref.Route()}
	}

	return DirectFile{URL: cfg.SampleURL, Container: ContainerOf(cfg.SampleURL), Sample: true}
}

// BestTrailer returns the best playable video: Trailer, then Teaser, then Clip,
// then anything else. Ties keep metadata order.
func BestTrailer(videos []metadata.VideoRef) mo.Option[metadata.VideoRef] {
	best := -1
	bestRank := otherRank + 1

	for i, v := range videos {
		if strings.TrimSpace(v.Key) == "" || !v.Supported() {
			continue
		}

		rank, ok := trailerRank[v.Type]
		if !ok {
			rank = otherRank
		}

		if rank < bestRank {
			best, bestRank = i, rank
		}
	}

	if best < 0 {
		return mo.None[metadata.VideoRef]()
	}
	return mo.Some(videos[best])
}
