package native

import (
	"errors"
	"testing"

	"github.com/cinewatch/cinewatch/source"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOptionsFor(t *testing.T) {
	base := DefaultOptions()

	Convey("Direct files use the html5 tech with a container mime type", t, func() {
		for container, mime := range map[string]string{
			source.ContainerHLS:  MimeHLS,
			source.ContainerMP4:  MimeMP4,
			source.ContainerDASH: MimeDASH,
		} {
			opts, err := OptionsFor(source.DirectFile{URL: "https://cdn.test/x", Container: container}, base)
			So(err, ShouldBeNil)
			So(opts.TechOrder, ShouldResemble, []Tech{TechHTML5})
			So(opts.Sources[0].MimeType, ShouldEqual, mime)
		}
	})

	Convey("Trailers use the platform tech, chosen by tag and site", t, func() {
		opts, err := OptionsFor(source.TrailerFallback{Key: "abc123", Site: "YouTube"}, base)
		So(err, ShouldBeNil)
		So(opts.Tech(), ShouldEqual, TechYouTube)
		So(opts.Source(), ShouldResemble, SourceOption{URL: "https://www.youtube.com/watch?v=abc123", MimeType: MimeYouTube})

		opts, err = OptionsFor(source.TrailerFallback{Key: "76979871", Site: "Vimeo"}, base)
		So(err, ShouldBeNil)
		So(opts.Tech(), ShouldEqual, TechVimeo)
		So(opts.Source().MimeType, ShouldEqual, MimeVimeo)
	})

	Convey("A direct file that looks like a YouTube URL still uses html5", t, func() {
		opts, err := OptionsFor(source.NewDirectFile("https://www.youtube.com/watch?v=abc123"), base)
		So(err, ShouldBeNil)
		So(opts.Tech(), ShouldEqual, TechHTML5)
	})

	Convey("Embeds are not native", t, func() {
		_, err := OptionsFor(source.EmbedProvider{TMDBID: 550}, base)
		So(errors.Is(err, ErrUnsupportedSource), ShouldBeTrue)
	})

	Convey("The base options are not modified", t, func() {
		_, _ = OptionsFor(source.DirectFile{URL: "https://cdn.test/a.mp4"}, base)
		So(base.Sources, ShouldBeEmpty)
		So(base.Equal(DefaultOptions()), ShouldBeTrue)
	})
}
