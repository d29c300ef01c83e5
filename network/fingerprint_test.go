package network

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBrowser(t *testing.T) {
	Convey("Plain http requests go through the pooled transport", t, func() {
		var agent string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agent = r.Header.Get("User-Agent")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		resp, err := Browser.Get(srv.URL)
		So(err, ShouldBeNil)
		defer resp.Body.Close()

		So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
		So(agent, ShouldNotBeEmpty)
	})
}
