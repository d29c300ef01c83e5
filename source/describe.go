package source

// Description is the flat, serializable form of a VideoSource.
type Description struct {
	Tag       Tag    `json:"tag" jsonschema:"enum=direct,enum=embed,enum=trailer,enum=unavailable"`
	Summary   string `json:"summary"`
	URL       string `json:"url,omitempty" jsonschema:"description=Playable URL. For embeds the first mirror is used"`
	Container string `json:"container,omitempty"`
	Sample    bool   `json:"sample,omitempty"`
	TMDBID    int    `json:"tmdb_id,omitempty"`
	Kind      string `json:"kind,omitempty" jsonschema:"enum=movie,enum=tv"`
	Season    int    `json:"season,omitempty"`
	Episode   int    `json:"episode,omitempty"`
	Key       string `json:"key,omitempty"`
	Site      string `json:"site,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Describe flattens src. Embed URLs are rendered on domain when it is not empty.
func Describe(src VideoSource, domain string) Description {
	d := Description{Tag: src.Tag(), Summary: src.String()}

	switch s := src.(type) {
	case DirectFile:
		d.URL, d.Container, d.Sample = s.URL, s.Container, s.Sample
	case EmbedProvider:
		d.TMDBID, d.Kind = s.TMDBID, s.Kind.String()
		if ep, ok := s.Episode.Get(); ok {
			d.Season, d.Episode = ep.Season, ep.Episode
		}
		if domain != "" {
			d.URL = s.URL(domain)
		}
	case TrailerFallback:
		d.Key, d.Site, d.URL = s.Key, s.Site, s.URL()
	case Unavailable:
		d.Reason = s.Reason
	}

	return d
}
