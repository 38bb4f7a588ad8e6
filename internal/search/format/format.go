// Package format renders executor output into response payloads. Everything
// here is pure: no I/O, no clock, no provider knowledge beyond the
// canonical shapes.
package format

import (
	"fmt"
	"strings"

	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/provider"
	"github.com/albapepper/scoracle-search/internal/search/alias"
	"github.com/albapepper/scoracle-search/internal/search/execute"
	"github.com/albapepper/scoracle-search/internal/search/intent"
	"github.com/albapepper/scoracle-search/internal/search/payload"
	"github.com/albapepper/scoracle-search/internal/search/resolve"
)

// Format maps the executor output for a resolved query onto the payload the
// intent calls for.
func Format(res resolve.Resolution, out *execute.Output) (payload.Payload, error) {
	switch res.Intent {
	case intent.Standings:
		return Standings(out.Result.Standings, res.LeagueName, out.Season), nil
	case intent.TopScorers:
		return Leaderboard(out.Result.Leaders, res.LeagueName, out.Season, true), nil
	case intent.TopAssists:
		return Leaderboard(out.Result.Leaders, res.LeagueName, out.Season, false), nil
	case intent.Schedule, intent.MatchLookup:
		return Fixtures(out.Result.Fixtures, fixtureTitle(res)), nil
	case intent.PlayerLookup:
		return PlayerCard(out.Result.Player), nil
	case intent.TeamLookup:
		return TeamCard(out.Result.Team), nil
	case intent.Comparison:
		return Compare(out.Sides, out.CrossLeague)
	}
	return nil, fmt.Errorf("no renderer for intent %q", res.Intent)
}

// Standings renders a league table.
func Standings(rows []provider.StandingRow, leagueName string, season int) *payload.Table {
	t := &payload.Table{
		Title: fmt.Sprintf("%s %d/%d Standings", leagueName, season, (season+1)%100),
		Columns: []payload.Column{
			{Key: "rank", Label: "#", Align: "right"},
			{Key: "team", Label: "Team", Align: "left"},
			{Key: "played", Label: "P", Align: "right", Sortable: true},
			{Key: "won", Label: "W", Align: "right", Sortable: true},
			{Key: "drawn", Label: "D", Align: "right", Sortable: true},
			{Key: "lost", Label: "L", Align: "right", Sortable: true},
			{Key: "goals_for", Label: "GF", Align: "right", Sortable: true},
			{Key: "goals_against", Label: "GA", Align: "right", Sortable: true},
			{Key: "goal_diff", Label: "GD", Align: "right", Sortable: true},
			{Key: "points", Label: "Pts", Align: "right", Sortable: true},
			{Key: "form", Label: "Form", Align: "left"},
		},
		SortBy:    "rank",
		SortOrder: "asc",
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, map[string]any{
			"rank":          row.Rank,
			"team":          row.TeamName,
			"team_id":       row.TeamID,
			"played":        row.Played,
			"won":           row.Won,
			"drawn":         row.Drawn,
			"lost":          row.Lost,
			"goals_for":     row.GoalsFor,
			"goals_against": row.GoalsAgainst,
			"goal_diff":     row.GoalDiff,
			"points":        row.Points,
			"form":          row.Form,
		})
	}
	return t
}

// Leaderboard renders a scorer or assist table. scorers selects the title
// and sort column.
func Leaderboard(rows []provider.LeaderRow, leagueName string, season int, scorers bool) *payload.Table {
	title, sortKey := "Top Assists", "assists"
	if scorers {
		title, sortKey = "Top Scorers", "goals"
	}
	t := &payload.Table{
		Title: fmt.Sprintf("%s %s %d/%d", leagueName, title, season, (season+1)%100),
		Columns: []payload.Column{
			{Key: "rank", Label: "#", Align: "right"},
			{Key: "player", Label: "Player", Align: "left"},
			{Key: "team", Label: "Team", Align: "left"},
			{Key: "goals", Label: "Goals", Align: "right", Sortable: true},
			{Key: "assists", Label: "Assists", Align: "right", Sortable: true},
			{Key: "appearances", Label: "Apps", Align: "right", Sortable: true},
			{Key: "minutes", Label: "Mins", Align: "right", Sortable: true},
		},
		SortBy:    sortKey,
		SortOrder: "desc",
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, map[string]any{
			"rank":        row.Rank,
			"player":      row.PlayerName,
			"player_id":   row.PlayerID,
			"team":        row.TeamName,
			"goals":       intStat(row.Goals),
			"assists":     intStat(row.Assists),
			"appearances": intStat(row.Appearances),
			"minutes":     intStat(row.Minutes),
		})
	}
	return t
}

// Fixtures renders a match list. Finished matches show the score; upcoming
// ones show kickoff time.
func Fixtures(fixtures []provider.Fixture, title string) *payload.Table {
	t := &payload.Table{
		Title: title,
		Columns: []payload.Column{
			{Key: "date", Label: "Date", Align: "left", Sortable: true},
			{Key: "home", Label: "Home", Align: "right"},
			{Key: "score", Label: "", Align: "center"},
			{Key: "away", Label: "Away", Align: "left"},
			{Key: "status", Label: "Status", Align: "left"},
		},
		SortBy:    "date",
		SortOrder: "asc",
	}
	for _, f := range fixtures {
		score := f.Kickoff.Format("15:04")
		if f.HomeGoals != nil && f.AwayGoals != nil {
			score = fmt.Sprintf("%d - %d", *f.HomeGoals, *f.AwayGoals)
		}
		t.Rows = append(t.Rows, map[string]any{
			"date":       f.Kickoff.Format("2006-01-02"),
			"home":       f.HomeName,
			"score":      score,
			"away":       f.AwayName,
			"status":     f.Status,
			"fixture_id": f.ID,
			"round":      f.Round,
		})
	}
	return t
}

// PlayerCard renders a single player season.
func PlayerCard(p *provider.PlayerSeason) *payload.PlayerCard {
	card := &payload.PlayerCard{
		Entity:      payload.EntityRef{ID: p.PlayerID, Kind: string(alias.KindPlayer), Name: p.Name},
		Season:      p.Season,
		Position:    p.Position,
		Nationality: p.Nationality,
		PhotoURL:    p.PhotoURL,
		SeasonTotals: payload.SeasonTotals{
			Goals:       intStat(p.Goals),
			Assists:     intStat(p.Assists),
			Appearances: intStat(p.Appearances),
			Minutes:     intStat(p.Minutes),
			YellowCards: intStat(p.YellowCards),
			RedCards:    intStat(p.RedCards),
			Rating:      floatStat(p.Rating),
		},
	}
	if p.TeamID != 0 {
		card.TeamRef = &payload.EntityRef{ID: p.TeamID, Kind: string(alias.KindTeam), Name: p.TeamName}
	}
	return card
}

// TeamCard renders a single team season.
func TeamCard(t *provider.TeamSeason) *payload.TeamCard {
	card := &payload.TeamCard{
		Entity:   payload.EntityRef{ID: t.TeamID, Kind: string(alias.KindTeam), Name: t.Name},
		Venue:    t.Venue,
		Form:     t.Form,
		LogoURL:  t.LogoURL,
		Position: intStat(t.Rank),
		Played:   intStat(t.Played),
		Won:      intStat(t.Won),
		Drawn:    intStat(t.Drawn),
		Lost:     intStat(t.Lost),
		Points:   intStat(t.Points),
	}
	if t.LeagueID != 0 {
		card.LeagueRef = &payload.EntityRef{ID: t.LeagueID, Kind: string(alias.KindLeague), Name: t.LeagueName}
	}
	return card
}

// Compare renders a side-by-side comparison. Sides that failed to fetch
// contribute unavailable stats, never fabricated zeros.
func Compare(sides []execute.Side, crossLeague bool) (*payload.Comparison, error) {
	if len(sides) < 2 {
		return nil, fmt.Errorf("comparison needs two sides, got %d", len(sides))
	}
	left, right := sides[0], sides[1]

	cmp := &payload.Comparison{
		Left:        entityRef(left.Entity.Entity),
		Right:       entityRef(right.Entity.Entity),
		CrossLeague: crossLeague,
	}
	if id := left.Entity.Entity.LeagueID; id != 0 {
		cmp.LeftLeague = leagueRef(id)
	}
	if id := right.Entity.Entity.LeagueID; id != 0 {
		cmp.RightLeague = leagueRef(id)
	}

	if left.Entity.Entity.Kind == alias.KindPlayer {
		cmp.Metrics = playerMetrics(playerOf(left), playerOf(right))
	} else {
		cmp.Metrics = teamMetrics(teamOf(left), teamOf(right))
	}
	return cmp, nil
}

// playerMetrics builds the comparison rows for two players. Either side may
// be nil.
func playerMetrics(left, right *provider.PlayerSeason) []payload.Metric {
	type row struct {
		label       string
		left, right payload.Stat
		lowerWins   bool
	}
	rows := []row{
		{label: "Goals", left: playerInt(left, func(p *provider.PlayerSeason) *int { return p.Goals }), right: playerInt(right, func(p *provider.PlayerSeason) *int { return p.Goals })},
		{label: "Assists", left: playerInt(left, func(p *provider.PlayerSeason) *int { return p.Assists }), right: playerInt(right, func(p *provider.PlayerSeason) *int { return p.Assists })},
		{label: "Appearances", left: playerInt(left, func(p *provider.PlayerSeason) *int { return p.Appearances }), right: playerInt(right, func(p *provider.PlayerSeason) *int { return p.Appearances })},
		{label: "Minutes", left: playerInt(left, func(p *provider.PlayerSeason) *int { return p.Minutes }), right: playerInt(right, func(p *provider.PlayerSeason) *int { return p.Minutes })},
		{label: "Rating", left: playerFloat(left, func(p *provider.PlayerSeason) *float64 { return p.Rating }), right: playerFloat(right, func(p *provider.PlayerSeason) *float64 { return p.Rating })},
	}
	out := make([]payload.Metric, 0, len(rows))
	for _, r := range rows {
		out = append(out, payload.Metric{
			Label:      r.label,
			LeftValue:  r.left,
			RightValue: r.right,
			WinnerSide: winner(r.left, r.right, r.lowerWins),
		})
	}
	return out
}

// teamMetrics builds the comparison rows for two teams.
func teamMetrics(left, right *provider.TeamSeason) []payload.Metric {
	type row struct {
		label       string
		left, right payload.Stat
		lowerWins   bool
	}
	rows := []row{
		{label: "League Position", left: teamInt(left, func(t *provider.TeamSeason) *int { return t.Rank }), right: teamInt(right, func(t *provider.TeamSeason) *int { return t.Rank }), lowerWins: true},
		{label: "Points", left: teamInt(left, func(t *provider.TeamSeason) *int { return t.Points }), right: teamInt(right, func(t *provider.TeamSeason) *int { return t.Points })},
		{label: "Won", left: teamInt(left, func(t *provider.TeamSeason) *int { return t.Won }), right: teamInt(right, func(t *provider.TeamSeason) *int { return t.Won })},
		{label: "Goals For", left: teamInt(left, func(t *provider.TeamSeason) *int { return t.GoalsFor }), right: teamInt(right, func(t *provider.TeamSeason) *int { return t.GoalsFor })},
		{label: "Goals Against", left: teamInt(left, func(t *provider.TeamSeason) *int { return t.GoalsAgainst }), right: teamInt(right, func(t *provider.TeamSeason) *int { return t.GoalsAgainst }), lowerWins: true},
	}
	out := make([]payload.Metric, 0, len(rows))
	for _, r := range rows {
		out = append(out, payload.Metric{
			Label:      r.label,
			LeftValue:  r.left,
			RightValue: r.right,
			WinnerSide: winner(r.left, r.right, r.lowerWins),
		})
	}
	return out
}

// winner picks the better side, or "" when either value is unavailable or
// they tie. Missing data never decides a comparison.
func winner(left, right payload.Stat, lowerWins bool) string {
	if !left.Available || !right.Available || left.Value == right.Value {
		return ""
	}
	leftWins := left.Value > right.Value
	if lowerWins {
		leftWins = !leftWins
	}
	if leftWins {
		return "left"
	}
	return "right"
}

func fixtureTitle(res resolve.Resolution) string {
	var names []string
	for _, e := range res.Entities {
		if e.Entity.Kind == alias.KindTeam {
			names = append(names, e.Entity.Name)
		}
	}
	if len(names) > 0 {
		return fmt.Sprintf("%s Fixtures", strings.Join(names, " vs "))
	}
	if res.LeagueName != "" {
		return fmt.Sprintf("%s Fixtures", res.LeagueName)
	}
	return "Fixtures"
}

func entityRef(e alias.Entity) payload.EntityRef {
	return payload.EntityRef{ID: e.ID, Kind: string(e.Kind), Name: e.Name}
}

func leagueRef(id int) *payload.EntityRef {
	ref := &payload.EntityRef{ID: id, Kind: string(alias.KindLeague)}
	if lc, ok := leagueName(id); ok {
		ref.Name = lc
	}
	return ref
}

func leagueName(id int) (string, bool) {
	lc, ok := config.LeagueRegistry[id]
	return lc.Name, ok
}

func intStat(v *int) payload.Stat {
	if v == nil {
		return payload.Unavailable
	}
	return payload.StatOf(float64(*v))
}

func floatStat(v *float64) payload.Stat {
	if v == nil {
		return payload.Unavailable
	}
	return payload.StatOf(*v)
}

func playerOf(s execute.Side) *provider.PlayerSeason {
	if s.Result == nil {
		return nil
	}
	return s.Result.Player
}

func teamOf(s execute.Side) *provider.TeamSeason {
	if s.Result == nil {
		return nil
	}
	return s.Result.Team
}

func playerInt(p *provider.PlayerSeason, get func(*provider.PlayerSeason) *int) payload.Stat {
	if p == nil {
		return payload.Unavailable
	}
	return intStat(get(p))
}

func playerFloat(p *provider.PlayerSeason, get func(*provider.PlayerSeason) *float64) payload.Stat {
	if p == nil {
		return payload.Unavailable
	}
	return floatStat(get(p))
}

func teamInt(t *provider.TeamSeason, get func(*provider.TeamSeason) *int) payload.Stat {
	if t == nil {
		return payload.Unavailable
	}
	return intStat(get(t))
}
