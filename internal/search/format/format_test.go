package format

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/albapepper/scoracle-search/internal/provider"
	"github.com/albapepper/scoracle-search/internal/search/alias"
	"github.com/albapepper/scoracle-search/internal/search/execute"
	"github.com/albapepper/scoracle-search/internal/search/payload"
	"github.com/albapepper/scoracle-search/internal/search/resolve"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestStandingsTable(t *testing.T) {
	rows := []provider.StandingRow{
		{Rank: 1, TeamID: 40, TeamName: "Liverpool", Played: 24, Won: 18, Drawn: 4, Lost: 2, GoalsFor: 56, GoalsAgainst: 21, GoalDiff: 35, Points: 58, Form: "WWDWW"},
		{Rank: 2, TeamID: 42, TeamName: "Arsenal", Played: 24, Won: 16, Drawn: 5, Lost: 3, GoalsFor: 49, GoalsAgainst: 20, GoalDiff: 29, Points: 53, Form: "WDWWL"},
	}

	table := Standings(rows, "Premier League", 2025)
	if table.PayloadType() != payload.TypeTable {
		t.Fatalf("type = %s", table.PayloadType())
	}
	if table.Title != "Premier League 2025/26 Standings" {
		t.Errorf("title = %q", table.Title)
	}
	if table.SortBy != "rank" || table.SortOrder != "asc" {
		t.Errorf("sort = %s %s", table.SortBy, table.SortOrder)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d", len(table.Rows))
	}
	if table.Rows[0]["team"] != "Liverpool" || table.Rows[0]["points"] != 58 {
		t.Errorf("row = %v", table.Rows[0])
	}
	if len(table.Columns) != 11 {
		t.Errorf("columns = %d", len(table.Columns))
	}
}

func TestLeaderboardSortColumn(t *testing.T) {
	rows := []provider.LeaderRow{
		{Rank: 1, PlayerID: 306, PlayerName: "Mohamed Salah", TeamName: "Liverpool", Goals: intp(19)},
	}

	scorers := Leaderboard(rows, "Premier League", 2025, true)
	if scorers.SortBy != "goals" || scorers.Title != "Premier League Top Scorers 2025/26" {
		t.Errorf("scorers table = %q sorted by %s", scorers.Title, scorers.SortBy)
	}
	assists := Leaderboard(rows, "Premier League", 2025, false)
	if assists.SortBy != "assists" {
		t.Errorf("assists sorted by %s", assists.SortBy)
	}

	// Absent stats render as unavailable, not zero.
	if got := scorers.Rows[0]["assists"].(payload.Stat); got.Available {
		t.Errorf("missing assists = %+v", got)
	}
	if got := scorers.Rows[0]["goals"].(payload.Stat); !got.Available || got.Value != 19 {
		t.Errorf("goals = %+v", got)
	}
}

func TestFixturesScoreColumn(t *testing.T) {
	kickoff := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)
	fixtures := []provider.Fixture{
		{ID: 1, Kickoff: kickoff, Status: "FT", HomeName: "Liverpool", AwayName: "Chelsea", HomeGoals: intp(2), AwayGoals: intp(1)},
		{ID: 2, Kickoff: kickoff, Status: "NS", HomeName: "Arsenal", AwayName: "Spurs"},
	}

	table := Fixtures(fixtures, "Fixtures")
	if table.Rows[0]["score"] != "2 - 1" {
		t.Errorf("finished score = %v", table.Rows[0]["score"])
	}
	if table.Rows[1]["score"] != "15:00" {
		t.Errorf("upcoming score = %v", table.Rows[1]["score"])
	}
	if table.Rows[0]["date"] != "2026-03-07" {
		t.Errorf("date = %v", table.Rows[0]["date"])
	}
}

func TestPlayerCard(t *testing.T) {
	season := &provider.PlayerSeason{
		PlayerID: 306, Name: "Mohamed Salah", TeamID: 40, TeamName: "Liverpool",
		Season: 2025, Position: "Attacker", Goals: intp(19), Rating: floatp(7.61),
	}

	card := PlayerCard(season)
	if card.PayloadType() != payload.TypePlayerCard {
		t.Fatalf("type = %s", card.PayloadType())
	}
	if card.Entity.ID != 306 || card.TeamRef == nil || card.TeamRef.ID != 40 {
		t.Errorf("refs = %+v %+v", card.Entity, card.TeamRef)
	}
	if !card.SeasonTotals.Rating.Available || card.SeasonTotals.Rating.Value != 7.61 {
		t.Errorf("rating = %+v", card.SeasonTotals.Rating)
	}
	if card.SeasonTotals.Assists.Available {
		t.Errorf("missing assists marked available")
	}
}

func TestStatMarshalsNullWhenUnavailable(t *testing.T) {
	card := PlayerCard(&provider.PlayerSeason{PlayerID: 306, Name: "Mohamed Salah", Goals: intp(0)})

	raw, err := json.Marshal(card.SeasonTotals)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["goals"] != 0.0 {
		t.Errorf("real zero lost: %v", decoded["goals"])
	}
	if decoded["assists"] != nil {
		t.Errorf("unavailable stat not null: %v", decoded["assists"])
	}
}

func comparisonSides(left, right *provider.Result) []execute.Side {
	return []execute.Side{
		{Entity: resolve.Resolved{Entity: alias.Entity{ID: 306, Kind: alias.KindPlayer, Name: "Mohamed Salah", LeagueID: 39}}, Result: left},
		{Entity: resolve.Resolved{Entity: alias.Entity{ID: 278, Kind: alias.KindPlayer, Name: "Kylian Mbappe", LeagueID: 140}}, Result: right},
	}
}

func TestComparePlayers(t *testing.T) {
	left := &provider.Result{Player: &provider.PlayerSeason{PlayerID: 306, Goals: intp(19), Assists: intp(12)}}
	right := &provider.Result{Player: &provider.PlayerSeason{PlayerID: 278, Goals: intp(24), Assists: intp(5)}}

	cmp, err := Compare(comparisonSides(left, right), true)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.CrossLeague {
		t.Error("cross-league flag lost")
	}
	if cmp.LeftLeague == nil || cmp.LeftLeague.Name != "Premier League" {
		t.Errorf("left league = %+v", cmp.LeftLeague)
	}

	byLabel := map[string]payload.Metric{}
	for _, m := range cmp.Metrics {
		byLabel[m.Label] = m
	}
	if byLabel["Goals"].WinnerSide != "right" {
		t.Errorf("goals winner = %q", byLabel["Goals"].WinnerSide)
	}
	if byLabel["Assists"].WinnerSide != "left" {
		t.Errorf("assists winner = %q", byLabel["Assists"].WinnerSide)
	}
	// Neither side carries a rating; nobody wins on missing data.
	if byLabel["Rating"].WinnerSide != "" {
		t.Errorf("rating winner = %q", byLabel["Rating"].WinnerSide)
	}
}

func TestCompareFailedSideIsUnavailable(t *testing.T) {
	left := &provider.Result{Player: &provider.PlayerSeason{PlayerID: 306, Goals: intp(19)}}

	cmp, err := Compare(comparisonSides(left, nil), false)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range cmp.Metrics {
		if m.RightValue.Available {
			t.Errorf("%s right value fabricated: %+v", m.Label, m.RightValue)
		}
		if m.WinnerSide != "" {
			t.Errorf("%s decided against a missing side", m.Label)
		}
	}
}

func TestCompareTeamsLowerRankWins(t *testing.T) {
	sides := []execute.Side{
		{Entity: resolve.Resolved{Entity: alias.Entity{ID: 40, Kind: alias.KindTeam, Name: "Liverpool", LeagueID: 39}},
			Result: &provider.Result{Team: &provider.TeamSeason{TeamID: 40, Rank: intp(1), Points: intp(58), GoalsAgainst: intp(21)}}},
		{Entity: resolve.Resolved{Entity: alias.Entity{ID: 42, Kind: alias.KindTeam, Name: "Arsenal", LeagueID: 39}},
			Result: &provider.Result{Team: &provider.TeamSeason{TeamID: 42, Rank: intp(2), Points: intp(53), GoalsAgainst: intp(20)}}},
	}

	cmp, err := Compare(sides, false)
	if err != nil {
		t.Fatal(err)
	}
	byLabel := map[string]payload.Metric{}
	for _, m := range cmp.Metrics {
		byLabel[m.Label] = m
	}
	if byLabel["League Position"].WinnerSide != "left" {
		t.Errorf("rank winner = %q", byLabel["League Position"].WinnerSide)
	}
	if byLabel["Goals Against"].WinnerSide != "right" {
		t.Errorf("goals against winner = %q", byLabel["Goals Against"].WinnerSide)
	}
	if byLabel["Points"].WinnerSide != "left" {
		t.Errorf("points winner = %q", byLabel["Points"].WinnerSide)
	}
}

func TestCompareNeedsTwoSides(t *testing.T) {
	if _, err := Compare([]execute.Side{{}}, false); err == nil {
		t.Fatal("expected error")
	}
}

func TestFormatDispatch(t *testing.T) {
	res := resolve.Resolution{Intent: "NOT_A_THING"}
	if _, err := Format(res, &execute.Output{}); err == nil {
		t.Fatal("unknown intent did not error")
	}
}
