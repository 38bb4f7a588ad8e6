package bootstrap

// leagueAliases are the colloquial competition names, keyed by league ID.
var leagueAliases = map[int][]string{
	39:  {"epl", "premier league", "english premier league", "prem"},
	140: {"la liga", "laliga", "spanish league"},
	78:  {"bundesliga", "german league"},
	135: {"serie a", "italian league"},
	61:  {"ligue 1", "ligue un", "french league"},
	2:   {"ucl", "champions league", "european cup"},
}

// teamNicknames maps API-Football team IDs to the names fans actually type.
// Short forms a plain normalizer cannot derive from the official name.
var teamNicknames = map[int][]string{
	33: {"man united", "man utd", "united", "red devils"},
	50: {"man city", "city", "citizens"},
	40: {"liverpool fc", "the reds", "pool"},
	42: {"the gunners", "gooners"},
	47: {"spurs", "tottenham hotspur"},
	49: {"the blues", "chelsea fc"},
	48: {"the hammers", "west ham united"},
	66: {"villa", "the villans"},
	34: {"the magpies", "toon"},

	529: {"barca", "fc barcelona"},
	541: {"real", "los blancos", "real madrid cf"},
	530: {"atleti", "atletico", "atletico de madrid"},

	157: {"bayern", "fc bayern", "bayern munchen"},
	165: {"bvb", "dortmund"},

	496: {"juve", "the old lady"},
	489: {"ac milan", "rossoneri"},
	505: {"inter", "nerazzurri", "inter milan"},
	492: {"napoli", "partenopei"},

	85: {"psg", "paris", "paris saint germain"},
}
