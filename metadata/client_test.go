package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cinewatch/cinewatch/filesystem"
	"github.com/cinewatch/cinewatch/title"
	. "github.com/smartystreets/goconvey/convey"
)

const fightClub = `{
  "title": "Fight Club",
  "videos": {"results": [
    {"key": "tease", "site": "YouTube", "type": "Teaser", "name": "Teaser"},
    {"key": "abc123", "site": "YouTube", "type": "Trailer", "name": "Official Trailer"}
  ]}
}`

func TestFetchAppendedVideos(t *testing.T) {
	filesystem.SetMemMapFs()

	Convey("Given a TMDB server", t, func() {
		var hits atomic.Int32
		var gotPath, gotAuth, gotAppend string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			gotAppend = r.URL.Query().Get("append_to_response")

			switch r.URL.Path {
			case "/movie/550":
				_, _ = w.Write([]byte(fightClub))
			case "/tv/238":
				_, _ = w.Write([]byte(`{"name": "The Show", "videos": {"results": []}}`))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		client := &Client{HTTP: srv.Client(), BaseURL: srv.URL, Token: "secret"}

		Convey("It should request appended videos with the bearer token", func() {
			detail, err := client.FetchAppendedVideos(context.Background(), title.Movie, 550)
			So(err, ShouldBeNil)
			So(gotPath, ShouldEqual, "/movie/550")
			So(gotAuth, ShouldEqual, "Bearer secret")
			So(gotAppend, ShouldEqual, "videos")
			So(detail.Title, ShouldEqual, "Fight Club")
			So(detail.Videos, ShouldHaveLength, 2)
			So(detail.Videos[1], ShouldResemble, VideoRef{Key: "abc123", Site: "YouTube", Type: "Trailer", Name: "Official Trailer"})
		})

		Convey("Series fall back to the name field", func() {
			detail, err := client.FetchAppendedVideos(context.Background(), title.Series, 238)
			So(err, ShouldBeNil)
			So(detail.Title, ShouldEqual, "The Show")
			So(detail.Videos, ShouldBeEmpty)
		})

		Convey("Non-200 responses are errors", func() {
			_, err := client.FetchAppendedVideos(context.Background(), title.Movie, 1)
			So(err, ShouldNotBeNil)
		})

		Convey("A missing token is reported before any request", func() {
			client.Token = ""
			_, err := client.FetchAppendedVideos(context.Background(), title.Movie, 550)
			So(errors.Is(err, ErrNoToken), ShouldBeTrue)
			So(hits.Load(), ShouldEqual, 0)
		})

		Convey("With a cache, the second fetch does not hit the network", func() {
			client.Cache = NewCache("/cache/tmdb.json", time.Hour)

			first, err := client.FetchAppendedVideos(context.Background(), title.Movie, 550)
			So(err, ShouldBeNil)
			second, err := client.FetchAppendedVideos(context.Background(), title.Movie, 550)
			So(err, ShouldBeNil)

			So(hits.Load(), ShouldEqual, 1)
			So(second.Title, ShouldEqual, first.Title)
		})
	})
}

func TestVideoRefSupported(t *testing.T) {
	Convey("Only YouTube and Vimeo are playable", t, func() {
		So(VideoRef{Site: "YouTube"}.Supported(), ShouldBeTrue)
		So(VideoRef{Site: "vimeo"}.Supported(), ShouldBeTrue)
		So(VideoRef{Site: "Dailymotion"}.Supported(), ShouldBeFalse)
	})
}
