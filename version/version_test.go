package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kptv-cli/kptv/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestFetchLatest(t *testing.T) {
	Convey("Given a releases endpoint", t, func() {
		status, body := http.StatusOK, `{"tag_name":"v1.2.3"}`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
		defer server.Close()

		previous := releasesURL
		releasesURL = server.URL
		defer func() { releasesURL = previous }()

		Convey("The tag is returned without its v", func() {
			latest, err := fetchLatest(context.Background())
			So(err, ShouldBeNil)
			So(latest, ShouldEqual, "1.2.3")
		})

		Convey("Failed lookups are errors", func() {
			status = http.StatusForbidden
			_, err := fetchLatest(context.Background())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "403")
		})

		Convey("Releases without a tag are errors", func() {
			body = `{}`
			_, err := fetchLatest(context.Background())
			So(err, ShouldNotBeNil)
		})
	})
}
