package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/bakeoff/internal/adapters/http/api"
	service "github.com/okian/bakeoff/internal/app"
	"github.com/okian/bakeoff/internal/domain/errs"
	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/internal/domain/types"
	"github.com/okian/bakeoff/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

// failingDeps answers every leaderboard read with a storage failure.
type failingDeps struct {
	api.Dependencies
}

func (failingDeps) GetLeaderboard(context.Context) ([]types.Entry, error) {
	return nil, errs.Wrap("test.leaderboard", errs.ErrStorage, errors.New("disk on fire"))
}

type harness struct {
	router http.Handler
}

func newHarness(deps api.Dependencies, origins ...string) *harness {
	srv := api.NewServer(deps, logger.Get())
	return &harness{router: srv.NewRouter(context.Background(), origins)}
}

func (h *harness) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// seed creates three contestants and one player rostered with all of them.
func seed(h *harness) (player model.Player, contestants []model.Contestant) {
	for _, name := range []string{"Abbi", "Saku", "Dylan"} {
		w := h.do(http.MethodPost, "/contestants", map[string]any{"name": name})
		So(w.Code, ShouldEqual, http.StatusCreated)
		contestants = append(contestants, decode[model.Contestant](w))
	}
	w := h.do(http.MethodPost, "/players", map[string]any{"name": "Ana", "team_name": "Proving Drawers"})
	So(w.Code, ShouldEqual, http.StatusCreated)
	player = decode[model.Player](w)

	ids := []uint{contestants[0].ID, contestants[1].ID, contestants[2].ID}
	w = h.do(http.MethodPut, fmt.Sprintf("/players/%d/roster", player.ID), map[string]any{"contestant_ids": ids})
	So(w.Code, ShouldEqual, http.StatusOK)
	return player, contestants
}

func TestRoutes(t *testing.T) {
	Convey("Given a router over a fresh league", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := newHarness(svc)

		Convey("Health serves the metrics exposition", func() {
			w := h.do(http.MethodGet, "/healthz", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "# TYPE")
		})

		Convey("Stats report the table sizes", func() {
			w := h.do(http.MethodGet, "/stats", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			stats := decode[map[string]any](w)
			So(stats["players"], ShouldEqual, float64(0))
			So(stats["started"], ShouldEqual, true)
		})

		Convey("Categories list the scoring table", func() {
			w := h.do(http.MethodGet, "/categories", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			cats := decode[[]types.CategoryInfo](w)
			So(len(cats), ShouldEqual, 7)
			So(cats[0].Name, ShouldEqual, model.Category("star_baker"))
			So(cats[0].Points, ShouldEqual, 4)
			So(cats[0].SingleWinner, ShouldBeTrue)
		})

		Convey("Unknown paths answer 404 with an error body", func() {
			w := h.do(http.MethodGet, "/nope", nil)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode[errorBody](w).Code, ShouldEqual, "not_found")
		})

		Convey("The leaderboard of an empty league is an empty array", func() {
			w := h.do(http.MethodGet, "/leaderboard", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "[]")
		})
	})
}

func TestScoreAdmission(t *testing.T) {
	Convey("Given a seeded league", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := newHarness(svc)
		player, cs := seed(h)

		Convey("When a star baker is admitted", func() {
			w := h.do(http.MethodPost, "/scores", map[string]any{
				"week": 1, "contestant_id": cs[0].ID, "category": "star_baker",
			})
			So(w.Code, ShouldEqual, http.StatusCreated)
			score := decode[model.WeeklyScore](w)
			So(score.Points, ShouldEqual, 4)

			Convey("Then it can be read back", func() {
				w := h.do(http.MethodGet, fmt.Sprintf("/scores/%d", score.ID), nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.WeeklyScore](w).Category, ShouldEqual, model.Category("star_baker"))
			})

			Convey("Then the leaderboard reflects it", func() {
				w := h.do(http.MethodGet, "/leaderboard", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				board := decode[[]types.Entry](w)
				So(len(board), ShouldEqual, 1)
				So(board[0].PlayerID, ShouldEqual, player.ID)
				So(board[0].TotalPoints, ShouldEqual, 4)
			})

			Convey("Then a second star baker that week conflicts", func() {
				w := h.do(http.MethodPost, "/scores", map[string]any{
					"week": 1, "contestant_id": cs[1].ID, "category": "star_baker",
				})
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decode[errorBody](w).Code, ShouldEqual, "duplicate_winner")
			})

			Convey("Then it can be edited into another category", func() {
				w := h.do(http.MethodPut, fmt.Sprintf("/scores/%d", score.ID), map[string]any{
					"week": 1, "contestant_id": cs[0].ID, "category": "handshake",
				})
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.WeeklyScore](w).Points, ShouldEqual, 4)
			})

			Convey("Then deleting it empties the week", func() {
				w := h.do(http.MethodDelete, fmt.Sprintf("/scores/%d", score.ID), nil)
				So(w.Code, ShouldEqual, http.StatusNoContent)

				w = h.do(http.MethodGet, "/scores?week=1", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(len(decode[[]model.WeeklyScore](w)), ShouldEqual, 0)
			})
		})

		Convey("An unknown category is a 400", func() {
			w := h.do(http.MethodPost, "/scores", map[string]any{
				"week": 1, "contestant_id": cs[0].ID, "category": "soggy_bottom",
			})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[errorBody](w).Code, ShouldEqual, "unknown_category")
		})

		Convey("A week past the season is a 400", func() {
			w := h.do(http.MethodPost, "/scores", map[string]any{
				"week": 11, "contestant_id": cs[0].ID, "category": "raw",
			})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[errorBody](w).Code, ShouldEqual, "validation_failed")
		})

		Convey("A malformed body is a 400", func() {
			w := h.do(http.MethodPost, "/scores", `{"week":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[errorBody](w).Code, ShouldEqual, "bad_request")
		})

		Convey("A missing contestant is a 404", func() {
			w := h.do(http.MethodPost, "/scores", map[string]any{
				"week": 1, "contestant_id": 999, "category": "raw",
			})
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("An eliminated contestant cannot score after leaving", func() {
			w := h.do(http.MethodPut, fmt.Sprintf("/contestants/%d", cs[2].ID), map[string]any{
				"name": "Dylan", "eliminated_week": 3,
			})
			So(w.Code, ShouldEqual, http.StatusOK)

			w = h.do(http.MethodPost, "/scores", map[string]any{
				"week": 3, "contestant_id": cs[2].ID, "category": "cries_testimonial",
			})
			So(w.Code, ShouldEqual, http.StatusCreated)

			w = h.do(http.MethodPost, "/scores", map[string]any{
				"week": 4, "contestant_id": cs[2].ID, "category": "cries_testimonial",
			})
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decode[errorBody](w).Code, ShouldEqual, "contestant_eliminated")
		})

		Convey("A bad score id is a 400", func() {
			w := h.do(http.MethodGet, "/scores/abc", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			w = h.do(http.MethodGet, "/scores/0", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A bad week filter is a 400", func() {
			w := h.do(http.MethodGet, "/scores?week=two", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestIdempotentAdmission(t *testing.T) {
	Convey("Given a seeded league", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := newHarness(svc)
		_, cs := seed(h)
		body := map[string]any{"week": 2, "contestant_id": cs[1].ID, "category": "technical_win"}

		Convey("When the same Idempotency-Key is posted twice", func() {
			first := h.do(http.MethodPost, "/scores", body, "Idempotency-Key", "k-1")
			second := h.do(http.MethodPost, "/scores", body, "Idempotency-Key", "k-1")

			Convey("Then the replay returns the original score", func() {
				So(first.Code, ShouldEqual, http.StatusCreated)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Header().Get("Idempotent-Replayed"), ShouldEqual, "true")
				So(decode[model.WeeklyScore](second).ID, ShouldEqual, decode[model.WeeklyScore](first).ID)

				w := h.do(http.MethodGet, "/scores?week=2", nil)
				So(len(decode[[]model.WeeklyScore](w)), ShouldEqual, 1)
			})
		})

		Convey("When a key is reused with a different body", func() {
			So(h.do(http.MethodPost, "/scores", body, "Idempotency-Key", "k-2").Code, ShouldEqual, http.StatusCreated)
			other := map[string]any{"week": 3, "contestant_id": cs[1].ID, "category": "technical_win"}
			w := h.do(http.MethodPost, "/scores", other, "Idempotency-Key", "k-2")

			Convey("Then it is rejected as a validation failure", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[errorBody](w).Code, ShouldEqual, "validation_failed")
			})
		})

		Convey("Without a key the second post conflicts", func() {
			So(h.do(http.MethodPost, "/scores", body).Code, ShouldEqual, http.StatusCreated)
			So(h.do(http.MethodPost, "/scores", body).Code, ShouldEqual, http.StatusConflict)
		})
	})
}

func TestSeasonEndpoints(t *testing.T) {
	Convey("Given scores in weeks 1 and 5", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := newHarness(svc)
		player, cs := seed(h)

		So(h.do(http.MethodPost, "/scores", map[string]any{
			"week": 1, "contestant_id": cs[0].ID, "category": "star_baker",
		}).Code, ShouldEqual, http.StatusCreated)
		So(h.do(http.MethodPost, "/scores", map[string]any{
			"week": 5, "contestant_id": cs[1].ID, "category": "raw",
		}).Code, ShouldEqual, http.StatusCreated)

		Convey("The current leaderboard sums both weeks", func() {
			board := decode[[]types.Entry](h.do(http.MethodGet, "/leaderboard", nil))
			So(board[0].TotalPoints, ShouldEqual, 3)
		})

		Convey("The week 3 leaderboard excludes week 5", func() {
			w := h.do(http.MethodGet, "/leaderboard?week=3", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			board := decode[[]types.Entry](w)
			So(len(board), ShouldEqual, 1)
			So(board[0].TotalPoints, ShouldEqual, 4)
		})

		Convey("A week 0 leaderboard is rejected", func() {
			w := h.do(http.MethodGet, "/leaderboard?week=0", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Season totals carry the running total", func() {
			rows := decode[[]model.SeasonTotal](h.do(http.MethodGet, "/season-totals", nil))
			So(len(rows), ShouldEqual, 2)
			So(rows[len(rows)-1].RunningTotal, ShouldEqual, 3)
		})

		Convey("Recalculation reports the row count", func() {
			w := h.do(http.MethodPost, "/season-totals/recalculate", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			resp := decode[map[string]any](w)
			So(resp["status"], ShouldEqual, "recalculated")
			So(resp["rows"], ShouldEqual, float64(2))
		})

		Convey("The breakdown lists each scored event", func() {
			w := h.do(http.MethodGet, fmt.Sprintf("/players/%d/breakdown", player.ID), nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			rows := decode[[]types.BreakdownRow](w)
			So(len(rows), ShouldEqual, 2)
			So(rows[0].ContestantName, ShouldEqual, "Abbi")
		})

		Convey("Resetting the league empties everything", func() {
			So(h.do(http.MethodDelete, "/league", nil).Code, ShouldEqual, http.StatusNoContent)
			So(h.do(http.MethodGet, "/leaderboard", nil).Body.String(), ShouldEqual, "[]")
		})
	})
}

func TestAdminEndpoints(t *testing.T) {
	Convey("Given a seeded league", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := newHarness(svc)
		player, cs := seed(h)

		Convey("The roster lists contestants in order", func() {
			w := h.do(http.MethodGet, fmt.Sprintf("/players/%d/roster", player.ID), nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			roster := decode[[]model.Contestant](w)
			So(len(roster), ShouldEqual, 3)
			So(roster[0].Name, ShouldEqual, "Abbi")
		})

		Convey("A short roster is rejected", func() {
			w := h.do(http.MethodPut, fmt.Sprintf("/players/%d/roster", player.ID),
				map[string]any{"contestant_ids": []uint{cs[0].ID}})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A player can be renamed", func() {
			w := h.do(http.MethodPut, fmt.Sprintf("/players/%d", player.ID),
				map[string]any{"name": "Ana", "team_name": "Crumb Together"})
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[model.Player](w).TeamName, ShouldEqual, "Crumb Together")
		})

		Convey("A player without a team name is rejected", func() {
			w := h.do(http.MethodPost, "/players", map[string]any{"name": "Bo"})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A duplicate contestant name is rejected", func() {
			w := h.do(http.MethodPost, "/contestants", map[string]any{"name": "Abbi"})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An elimination week outside the season is rejected", func() {
			w := h.do(http.MethodPost, "/contestants", map[string]any{"name": "Josh", "eliminated_week": 12})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Deleting a contestant removes them from the roster", func() {
			So(h.do(http.MethodDelete, fmt.Sprintf("/contestants/%d", cs[0].ID), nil).Code,
				ShouldEqual, http.StatusNoContent)
			So(h.do(http.MethodGet, fmt.Sprintf("/contestants/%d", cs[0].ID), nil).Code,
				ShouldEqual, http.StatusNotFound)
			roster := decode[[]model.Contestant](h.do(http.MethodGet, fmt.Sprintf("/players/%d/roster", player.ID), nil))
			So(len(roster), ShouldEqual, 2)
		})

		Convey("Deleting a player removes them from the leaderboard", func() {
			So(h.do(http.MethodDelete, fmt.Sprintf("/players/%d", player.ID), nil).Code,
				ShouldEqual, http.StatusNoContent)
			So(h.do(http.MethodGet, fmt.Sprintf("/players/%d", player.ID), nil).Code,
				ShouldEqual, http.StatusNotFound)
			So(len(decode[[]model.Player](h.do(http.MethodGet, "/players", nil))), ShouldEqual, 0)
		})

		Convey("Contestants are listed in registration order", func() {
			list := decode[[]model.Contestant](h.do(http.MethodGet, "/contestants", nil))
			So(len(list), ShouldEqual, 3)
			So(list[2].Name, ShouldEqual, "Dylan")
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given a router with CORS for one origin", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := newHarness(svc, "https://league.example")

		Convey("A request id is issued when absent", func() {
			w := h.do(http.MethodGet, "/categories", nil)
			So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
		})

		Convey("A caller's request id is echoed", func() {
			w := h.do(http.MethodGet, "/categories", nil, "X-Request-ID", "req-42")
			So(w.Header().Get("X-Request-ID"), ShouldEqual, "req-42")
		})

		Convey("An allowed origin gets CORS headers", func() {
			w := h.do(http.MethodGet, "/categories", nil, "Origin", "https://league.example")
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://league.example")
		})

		Convey("A disallowed origin is refused", func() {
			w := h.do(http.MethodGet, "/categories", nil, "Origin", "https://other.example")
			So(w.Code, ShouldEqual, http.StatusForbidden)
		})
	})

	Convey("Given dependencies whose store is failing", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := newHarness(failingDeps{Dependencies: svc})

		Convey("The error is a 500 that hides the cause", func() {
			w := h.do(http.MethodGet, "/leaderboard", nil)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			body := decode[errorBody](w)
			So(body.Code, ShouldEqual, "internal_error")
			So(body.Message, ShouldNotContainSubstring, "disk on fire")
		})
	})
}
