// Package title addresses a movie or a TV episode by its TMDB id.
package title

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// ErrMalformed is returned when a route cannot be parsed into a Ref.
var ErrMalformed = errors.New("malformed title route")

// Kind is the media kind of a title.
type Kind int

const (
	Movie Kind = iota
	Series
)

// String returns the route form of the kind: "movie" or "tv".
func (k Kind) String() string {
	if k == Series {
		return "tv"
	}
	return "movie"
}

// ParseKind parses the route form of a kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "movie":
		return Movie, nil
	case "tv":
		return Series, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrMalformed, s)
	}
}

// EpisodeRef points at a single episode of a series. Both numbers start at 1.
type EpisodeRef struct {
	Season  int
	Episode int
}

// Ref identifies what the user asked to watch. It is immutable for a session.
type Ref struct {
	ID      int
	Kind    Kind
	Episode mo.Option[EpisodeRef]
}

// NewMovie returns a movie reference.
func NewMovie(id int) Ref {
	return Ref{ID: id, Kind: Movie}
}

// NewEpisode returns a reference to a series episode.
func NewEpisode(id, season, episode int) Ref {
	return Ref{ID: id, Kind: Series, Episode: mo.Some(EpisodeRef{Season: season, Episode: episode})}
}

// Key is the lookup key used for direct file mappings, e.g. "movie/550".
func (r Ref) Key() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Route renders the full route, including season and episode for series.
func (r Ref) Route() string {
	if ep, ok := r.Episode.Get(); ok && r.Kind == Series {
		return fmt.Sprintf("%s/%d/%d", r.Key(), ep.Season, ep.Episode)
	}
	return r.Key()
}

func (r Ref) String() string {
	return r.Route()
}

// Parse parses a route of the form {movie|tv}/{id}[/{season}/{episode}].
func Parse(route string) (Ref, error) {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	switch len(parts) {
	case 2:
		return FromParams(parts[0], parts[1], "", "")
	case 4:
		return FromParams(parts[0], parts[1], parts[2], parts[3])
	default:
		return Ref{}, fmt.Errorf("%w: %q", ErrMalformed, route)
	}
}

// FromParams builds a Ref from individual route parameters.
// Season and episode must be given together and only for series.
func FromParams(kind, id, season, episode string) (Ref, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Ref{}, err
	}

	n, err := positive(id)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: id %q", ErrMalformed, id)
	}

	ref := Ref{ID: n, Kind: k}
	if season == "" && episode == "" {
		return ref, nil
	}

	if k != Series {
		return Ref{}, fmt.Errorf("%w: season and episode apply to tv only", ErrMalformed)
	}

	s, err := positive(season)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: season %q", ErrMalformed, season)
	}
	e, err := positive(episode)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: episode %q", ErrMalformed, episode)
	}

	ref.Episode = mo.Some(EpisodeRef{Season: s, Episode: e})
	return ref, nil
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}
