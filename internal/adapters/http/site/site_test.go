package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	Convey("Given a site handler", t, func() {
		ctx := context.Background()
		r := gin.New()

		Convey("When registering the site handler", func() {
			Register(ctx, r)

			Convey("Then it should serve the landing page at /", func() {
				req := httptest.NewRequest("GET", "/", nil)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, `id="leaderboard"`)
			})

			Convey("And it should serve the script under /assets", func() {
				req := httptest.NewRequest("GET", "/assets/app.js", nil)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "/leaderboard")
			})

			Convey("And unknown assets should 404", func() {
				req := httptest.NewRequest("GET", "/assets/missing.js", nil)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("A nil router panics", func() {
			So(func() { Register(ctx, nil) }, ShouldPanic)
		})
	})
}
