package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorders(t *testing.T) {
	Convey("Recorders increment their labelled series", t, func() {
		before := testutil.ToFloat64(ResolutionsTotal.WithLabelValues("embed"))
		RecordResolution("embed")
		So(testutil.ToFloat64(ResolutionsTotal.WithLabelValues("embed")), ShouldEqual, before+1)

		RecordMirrorAttempt("vidsrc.xyz")
		RecordMirrorResult("vidsrc.xyz", ResultFailed)
		So(testutil.ToFloat64(MirrorResultsTotal.WithLabelValues("vidsrc.xyz", ResultFailed)), ShouldBeGreaterThanOrEqualTo, 1)

		RecordNativeFailure(ReasonInitTimeout)
		So(testutil.ToFloat64(NativeFailuresTotal.WithLabelValues(ReasonInitTimeout)), ShouldBeGreaterThanOrEqualTo, 1)
	})

	Convey("Handler exposes the counters", t, func() {
		RecordResolution("trailer")

		rec := httptest.NewRecorder()
		Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

		So(rec.Code, ShouldEqual, 200)
		So(rec.Body.String(), ShouldContainSubstring, `cinewatch_resolutions_total{tag="trailer"}`)
	})
}
