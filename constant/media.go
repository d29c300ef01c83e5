package constant

// SampleStreamURL is the built-in diagnostic stream used when no other source is configured.
const SampleStreamURL = "https://test-streams.mux.dev/x36xhzz/x36xhzz.m3u8"

// TMDBBaseURL is the root of the TMDB v3 REST API.
const TMDBBaseURL = "https://api.themoviedb.org/3"

// DefaultEmbedDomains are the mirror hosts of the embed provider, tried in order.
var DefaultEmbedDomains = []string{
	"vidsrc.xyz",
	"vidsrc.in",
	"vidsrc.pm",
	"vidsrc.net",
}
