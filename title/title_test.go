package title

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given a movie route", t, func() {
		ref, err := Parse("movie/550")

		Convey("It should parse the id and kind", func() {
			So(err, ShouldBeNil)
			So(ref.ID, ShouldEqual, 550)
			So(ref.Kind, ShouldEqual, Movie)
			So(ref.Episode.IsAbsent(), ShouldBeTrue)
			So(ref.Key(), ShouldEqual, "movie/550")
		})
	})

	Convey("Given an episode route", t, func() {
		ref, err := Parse("/tv/238/1/3/")

		Convey("It should carry season and episode", func() {
			So(err, ShouldBeNil)
			So(ref.Kind, ShouldEqual, Series)
			ep, ok := ref.Episode.Get()
			So(ok, ShouldBeTrue)
			So(ep, ShouldResemble, EpisodeRef{Season: 1, Episode: 3})
			So(ref.Route(), ShouldEqual, "tv/238/1/3")
			So(ref.Key(), ShouldEqual, "tv/238")
		})
	})

	Convey("Malformed routes are rejected", t, func() {
		for _, route := range []string{
			"",
			"movie",
			"show/1",
			"movie/abc",
			"movie/0",
			"movie/550/1/2",
			"tv/238/1",
			"tv/238/0/3",
			"tv/238/1/x",
		} {
			_, err := Parse(route)
			So(errors.Is(err, ErrMalformed), ShouldBeTrue)
		}
	})

	Convey("Constructors match parsing", t, func() {
		So(NewMovie(550), ShouldResemble, Ref{ID: 550, Kind: Movie})

		ref, err := Parse("tv/238/1/3")
		So(err, ShouldBeNil)
		So(NewEpisode(238, 1, 3), ShouldResemble, ref)
	})
}

func TestKind(t *testing.T) {
	Convey("Kinds round-trip through their route form", t, func() {
		for _, k := range []Kind{Movie, Series} {
			parsed, err := ParseKind(k.String())
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, k)
		}

		parsed, err := ParseKind("TV")
		So(err, ShouldBeNil)
		So(parsed, ShouldEqual, Series)
	})
}
