package season_test

import (
	"testing"

	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/internal/domain/season"
	"github.com/okian/bakeoff/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func score(id uint, week int, contestant uint, category model.Category, points int) model.WeeklyScore {
	return model.WeeklyScore{ID: id, Week: week, ContestantID: contestant, Category: category, Points: points}
}

func fixture() ([]model.Player, []model.Team, []model.WeeklyScore) {
	players := []model.Player{
		{ID: 1, Name: "Ana", TeamName: "Proving Drawers"},
		{ID: 2, Name: "Ben", TeamName: "Crumb Lords"},
		{ID: 3, Name: "Cas", TeamName: "Benchwarmers"},
	}
	teams := []model.Team{
		{ID: 1, PlayerID: 1, ContestantID: 10},
		{ID: 2, PlayerID: 1, ContestantID: 11},
		{ID: 3, PlayerID: 1, ContestantID: 12},
		{ID: 4, PlayerID: 2, ContestantID: 12},
		{ID: 5, PlayerID: 2, ContestantID: 13},
		{ID: 6, PlayerID: 2, ContestantID: 14},
	}
	scores := []model.WeeklyScore{
		score(1, 1, 10, "star_baker", 4),
		score(2, 1, 12, "raw", -1),
		score(3, 2, 11, "technical_win", 3),
		score(4, 2, 10, "overbaked", -1),
		score(5, 2, 10, "cries_testimonial", 1),
		score(6, 2, 13, "handshake", 4),
		score(7, 5, 14, "star_baker", 4),
	}
	return players, teams, scores
}

func TestAggregate(t *testing.T) {
	Convey("Given three players where one has no roster", t, func() {
		players, teams, scores := fixture()

		Convey("When aggregating the season", func() {
			rows := season.Aggregate(players, teams, scores, 10)

			Convey("Then rows should be player-major, week ascending, roster order", func() {
				So(rows, ShouldResemble, []model.SeasonTotal{
					{PlayerID: 1, Week: 1, ContestantID: 10, Points: 4, RunningTotal: 4},
					{PlayerID: 1, Week: 1, ContestantID: 12, Points: -1, RunningTotal: 3},
					{PlayerID: 1, Week: 2, ContestantID: 11, Points: 3, RunningTotal: 6},
					{PlayerID: 2, Week: 1, ContestantID: 12, Points: -1, RunningTotal: -1},
					{PlayerID: 2, Week: 2, ContestantID: 13, Points: 4, RunningTotal: 3},
					{PlayerID: 2, Week: 5, ContestantID: 14, Points: 4, RunningTotal: 7},
				})
			})

			Convey("And a contestant-week summing to zero should emit no row", func() {
				for _, r := range rows {
					So(r.ContestantID == 10 && r.Week == 2, ShouldBeFalse)
				}
			})

			Convey("And the player without a roster should have no rows", func() {
				for _, r := range rows {
					So(r.PlayerID, ShouldNotEqual, 3)
				}
			})
		})

		Convey("When aggregating twice", func() {
			first := season.Aggregate(players, teams, scores, 10)
			second := season.Aggregate(players, teams, scores, 10)

			Convey("Then the results should be identical", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When the season is shorter than the scored weeks", func() {
			rows := season.Aggregate(players, teams, scores, 4)

			Convey("Then later weeks should be ignored", func() {
				for _, r := range rows {
					So(r.Week, ShouldBeLessThanOrEqualTo, 4)
				}
				So(len(rows), ShouldEqual, 5)
			})
		})

		Convey("When the week count is not positive", func() {
			So(season.Aggregate(players, teams, scores, 0), ShouldResemble, season.Aggregate(players, teams, scores, season.DefaultWeeks))
		})
	})
}

func TestLeaderboard(t *testing.T) {
	Convey("Given aggregated totals", t, func() {
		players, teams, scores := fixture()
		rows := season.Aggregate(players, teams, scores, 10)

		Convey("When projecting the current leaderboard", func() {
			board := season.Leaderboard(players, rows)

			Convey("Then each player should carry their latest running total", func() {
				So(board, ShouldResemble, []types.Entry{
					{PlayerID: 2, PlayerName: "Ben", TeamName: "Crumb Lords", TotalPoints: 7},
					{PlayerID: 1, PlayerName: "Ana", TeamName: "Proving Drawers", TotalPoints: 6},
					{PlayerID: 3, PlayerName: "Cas", TeamName: "Benchwarmers", TotalPoints: 0},
				})
			})
		})

		Convey("When two players tie", func() {
			tied := []model.SeasonTotal{
				{PlayerID: 1, RunningTotal: 5},
				{PlayerID: 2, RunningTotal: 5},
			}
			board := season.Leaderboard(players, tied)

			Convey("Then they should keep player order", func() {
				So(board[0].PlayerID, ShouldEqual, 1)
				So(board[1].PlayerID, ShouldEqual, 2)
			})
		})
	})
}

func TestLeaderboardAsOfWeek(t *testing.T) {
	Convey("Given raw weekly scores", t, func() {
		players, teams, scores := fixture()

		Convey("When asking for week 3", func() {
			board := season.LeaderboardAsOfWeek(players, teams, scores, 3)

			Convey("Then the week 5 score should not count", func() {
				So(board, ShouldResemble, []types.Entry{
					{PlayerID: 1, PlayerName: "Ana", TeamName: "Proving Drawers", TotalPoints: 6},
					{PlayerID: 2, PlayerName: "Ben", TeamName: "Crumb Lords", TotalPoints: 3},
				})
			})
		})

		Convey("When asking for week 5", func() {
			board := season.LeaderboardAsOfWeek(players, teams, scores, 5)

			Convey("Then it should match the aggregated totals", func() {
				So(board[0].PlayerID, ShouldEqual, 2)
				So(board[0].TotalPoints, ShouldEqual, 7)
			})
		})

		Convey("When nobody has points yet", func() {
			board := season.LeaderboardAsOfWeek(players, teams, nil, 1)

			Convey("Then the board should be empty, not nil", func() {
				So(board, ShouldNotBeNil)
				So(board, ShouldBeEmpty)
			})
		})

		Convey("When a roster changes after the week", func() {
			swapped := append([]model.Team{}, teams[3:]...)
			swapped = append(swapped,
				model.Team{ID: 7, PlayerID: 1, ContestantID: 13},
				model.Team{ID: 8, PlayerID: 1, ContestantID: 14},
				model.Team{ID: 9, PlayerID: 1, ContestantID: 12},
			)
			board := season.LeaderboardAsOfWeek(players, swapped, scores, 3)

			Convey("Then the historical board should follow the current roster", func() {
				var ana types.Entry
				for _, e := range board {
					if e.PlayerID == 1 {
						ana = e
					}
				}
				So(ana.TotalPoints, ShouldEqual, 3)
			})
		})
	})
}

func TestBreakdown(t *testing.T) {
	Convey("Given a roster and its scores", t, func() {
		_, _, scores := fixture()
		contestants := []model.Contestant{
			{ID: 10, Name: "Abbi"}, {ID: 11, Name: "Saku"}, {ID: 12, Name: "Pui Man"},
		}

		Convey("When building the breakdown", func() {
			rows := season.Breakdown([]uint{12, 10, 11}, contestants, scores)

			Convey("Then rows should be ordered by week then score id", func() {
				So(rows, ShouldResemble, []types.BreakdownRow{
					{Week: 1, ContestantName: "Abbi", Category: "star_baker", Points: 4},
					{Week: 1, ContestantName: "Pui Man", Category: "raw", Points: -1},
					{Week: 2, ContestantName: "Saku", Category: "technical_win", Points: 3},
					{Week: 2, ContestantName: "Abbi", Category: "overbaked", Points: -1},
					{Week: 2, ContestantName: "Abbi", Category: "cries_testimonial", Points: 1},
				})
			})
		})

		Convey("When the roster is empty", func() {
			So(season.Breakdown(nil, contestants, scores), ShouldBeEmpty)
		})
	})
}
