package source

import (
	"testing"

	"github.com/cinewatch/cinewatch/metadata"
	"github.com/cinewatch/cinewatch/title"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleURL = "https://example.test/sample/master.m3u8"

func baseConfig() Config {
	return Config{SampleURL: sampleURL}
}

func TestResolve(t *testing.T) {
	fightClub := title.NewMovie(550)

	Convey("Given embed is disabled and nothing is mapped", t, func() {
		cfg := baseConfig()

		Convey("A YouTube trailer resolves to a TrailerFallback", func() {
			detail := &metadata.Detail{Videos: []metadata.VideoRef{
				{Key: "abc123", Site: "YouTube", Type: "Trailer"},
			}}

			src := Resolve(fightClub, detail, cfg)
			So(src, ShouldResemble, TrailerFallback{Key: "abc123", Site: "YouTube"})
		})

		Convey("Trailers outrank teasers and clips regardless of order", func() {
			detail := &metadata.Detail{Videos: []metadata.VideoRef{
				{Key: "clip", Site: "YouTube", Type: "Clip"},
				{Key: "teaser", Site: "YouTube", Type: "Teaser"},
				{Key: "featurette", Site: "YouTube", Type: "Featurette"},
				{Key: "trailer-1", Site: "Vimeo", Type: "Trailer"},
				{Key: "trailer-2", Site: "YouTube", Type: "Trailer"},
			}}

			src := Resolve(fightClub, detail, cfg)
			So(src, ShouldResemble, TrailerFallback{Key: "trailer-1", Site: "Vimeo"})
		})

		Convey("Teaser beats clip, clip beats other types", func() {
			withTeaser := &metadata.Detail{Videos: []metadata.VideoRef{
				{Key: "clip", Site: "YouTube", Type: "Clip"},
				{Key: "teaser", Site: "YouTube", Type: "Teaser"},
			}}
			So(Resolve(fightClub, withTeaser, cfg).(TrailerFallback).Key, ShouldEqual, "teaser")

			withClip := &metadata.Detail{Videos: []metadata.VideoRef{
				{Key: "bts", Site: "YouTube", Type: "Behind the Scenes"},
				{Key: "clip", Site: "YouTube", Type: "Clip"},
			}}
			So(Resolve(fightClub, withClip, cfg).(TrailerFallback).Key, ShouldEqual, "clip")

			onlyOther := &metadata.Detail{Videos: []metadata.VideoRef{
				{Key: "bts", Site: "YouTube", Type: "Behind the Scenes"},
			}}
			So(Resolve(fightClub, onlyOther, cfg).(TrailerFallback).Key, ShouldEqual, "bts")
		})

		Convey("Unsupported sites and empty keys are skipped", func() {
			detail := &metadata.Detail{Videos: []metadata.VideoRef{
				{Key: "dm", Site: "Dailymotion", Type: "Trailer"},
				{Key: "", Site: "YouTube", Type: "Trailer"},
				{Key: "ok", Site: "YouTube", Type: "Clip"},
			}}
			So(Resolve(fightClub, detail, cfg), ShouldResemble, TrailerFallback{Key: "ok", Site: "YouTube"})
		})

		Convey("With no usable video the sample stream is used", func() {
			src := Resolve(fightClub, &metadata.Detail{}, cfg)
			So(src, ShouldResemble, DirectFile{URL: sampleURL, Container: ContainerHLS, Sample: true})
		})

		Convey("A nil detail behaves like no videos", func() {
			So(Resolve(fightClub, nil, cfg), ShouldResemble, Resolve(fightClub, &metadata.Detail{}, cfg))
		})

		Convey("The strict policy reports the title as unavailable", func() {
			cfg.Missing = MissingUnavailable
			src := Resolve(fightClub, nil, cfg)
			So(src.Tag(), ShouldEqual, TagUnavailable)
			So(src.(Unavailable).Reason, ShouldContainSubstring, "movie/550")
		})
	})

	Convey("Given a direct file mapping", t, func() {
		cfg := baseConfig()
		cfg.DirectFiles = map[string]string{"movie/550": "https://cdn.test/fight-club.mp4"}
		detail := &metadata.Detail{Videos: []metadata.VideoRef{{Key: "abc123", Site: "YouTube", Type: "Trailer"}}}

		Convey("The mapping wins over trailers", func() {
			src := Resolve(fightClub, detail, cfg)
			So(src, ShouldResemble, DirectFile{URL: "https://cdn.test/fight-club.mp4", Container: ContainerMP4})
		})

		Convey("Other titles are unaffected", func() {
			So(Resolve(title.NewMovie(13), detail, cfg).Tag(), ShouldEqual, TagTrailer)
		})
	})

	Convey("Given embed is enabled", t, func() {
		cfg := baseConfig()
		cfg.Embed = EmbedConfig{Enabled: true, Domains: []string{"vidsrc.xyz"}}
		cfg.DirectFiles = map[string]string{"movie/550": "https://cdn.test/fight-club.mp4"}

		Convey("It never returns a direct file or trailer", func() {
			details := []*metadata.Detail{
				nil,
				{},
				{Videos: []metadata.VideoRef{{Key: "abc123", Site: "YouTube", Type: "Trailer"}}},
			}
			for _, detail := range details {
				So(Resolve(fightClub, detail, cfg).Tag(), ShouldEqual, TagEmbed)
			}
		})

		Convey("An episode carries season and episode into the embed URL", func() {
			src := Resolve(title.NewEpisode(238, 1, 3), nil, cfg)
			embed, ok := src.(EmbedProvider)
			So(ok, ShouldBeTrue)
			So(embed.URL("vidsrc.xyz"), ShouldEqual, "https://vidsrc.xyz/embed/tv?tmdb=238&season=1&episode=3&autoplay=1")
		})

		Convey("A movie embed URL has no season or episode", func() {
			embed := Resolve(fightClub, nil, cfg).(EmbedProvider)
			So(embed.URL("vidsrc.in"), ShouldEqual, "https://vidsrc.in/embed/movie?tmdb=550&autoplay=1")
		})
	})

	Convey("Resolve is deterministic", t, func() {
		cfg := baseConfig()
		detail := &metadata.Detail{Videos: []metadata.VideoRef{
			{Key: "a", Site: "YouTube", Type: "Teaser"},
			{Key: "b", Site: "YouTube", Type: "Trailer"},
		}}

		first := Resolve(fightClub, detail, cfg)
		second := Resolve(fightClub, detail, cfg)
		So(second.Tag(), ShouldEqual, first.Tag())
		So(second, ShouldResemble, first)
	})
}

func TestContainerOf(t *testing.T) {
	Convey("Containers are guessed from the URL path", t, func() {
		So(ContainerOf("https://a.test/x/master.m3u8?token=1"), ShouldEqual, ContainerHLS)
		So(ContainerOf("https://a.test/manifest.MPD"), ShouldEqual, ContainerDASH)
		So(ContainerOf("https://a.test/movie.mp4"), ShouldEqual, ContainerMP4)
		So(ContainerOf("https://a.test/stream"), ShouldEqual, ContainerMP4)
	})
}

func TestMissingPolicy(t *testing.T) {
	Convey("Policies parse from config strings", t, func() {
		p, err := ParseMissingPolicy("unavailable")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, MissingUnavailable)

		p, err = ParseMissingPolicy("")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, MissingSample)

		_, err = ParseMissingPolicy("retry")
		So(err, ShouldNotBeNil)
	})
}

func TestDescribe(t *testing.T) {
	Convey("Descriptions flatten each variant", t, func() {
		d := Describe(EmbedProvider{TMDBID: 238, Kind: title.Series, Episode: title.NewEpisode(238, 1, 3).Episode}, "vidsrc.xyz")
		So(d.Tag, ShouldEqual, TagEmbed)
		So(d.Season, ShouldEqual, 1)
		So(d.Episode, ShouldEqual, 3)
		So(d.URL, ShouldEqual, "https://vidsrc.xyz/embed/tv?tmdb=238&season=1&episode=3&autoplay=1")

		d = Describe(TrailerFallback{Key: "abc123", Site: "YouTube"}, "")
		So(d.URL, ShouldEqual, "https://www.youtube.com/watch?v=abc123")

		d = Describe(Unavailable{Reason: "gone"}, "")
		So(d.Reason, ShouldEqual, "gone")
	})
}
