package alias

import "testing"

func testDataset() Dataset {
	return Dataset{
		Version: "test-1",
		Entities: []Entity{
			{ID: 39, Kind: KindLeague, Name: "Premier League"},
			{ID: 40, Kind: KindTeam, Name: "Liverpool", LeagueID: 39},
			{ID: 33, Kind: KindTeam, Name: "Manchester United", LeagueID: 39},
			{ID: 306, Kind: KindPlayer, Name: "Mohamed Salah", LeagueID: 39, TeamID: 40},
			{ID: 747, Kind: KindPlayer, Name: "Bruno Fernandes", LeagueID: 39, TeamID: 33},
			{ID: 1301, Kind: KindPlayer, Name: "Bruno Guimaraes", LeagueID: 39, TeamID: 34},
			{ID: 129718, Kind: KindPlayer, Name: "Benjamin Šeško", LeagueID: 39, TeamID: 33},
		},
		Aliases: map[string][]string{
			"league:39":  {"epl", "prem"},
			"team:33":    {"man united", "red devils"},
			"player:306": {"mo salah"},
		},
	}
}

func TestLookupExact(t *testing.T) {
	idx := NewIndex(testDataset())

	tests := []struct {
		alias string
		kind  Kind
		want  int
	}{
		{"mohamed salah", KindPlayer, 306},
		{"mo salah", KindPlayer, 306},
		{"liverpool", KindTeam, 40},
		{"man united", KindTeam, 33},
		{"epl", KindLeague, 39},
		{"benjamin sesko", KindPlayer, 129718},
	}
	for _, tt := range tests {
		ids := idx.LookupExact(tt.alias, tt.kind)
		if len(ids) != 1 || ids[0] != tt.want {
			t.Errorf("LookupExact(%q, %s) = %v, want [%d]", tt.alias, tt.kind, ids, tt.want)
		}
	}

	if ids := idx.LookupExact("mohamed salah", KindTeam); len(ids) != 0 {
		t.Errorf("kind-scoped lookup leaked: %v", ids)
	}
}

func TestLookupLastName(t *testing.T) {
	idx := NewIndex(testDataset())

	ids := idx.LookupLastName("sesko")
	if len(ids) != 1 || ids[0] != 129718 {
		t.Errorf("LookupLastName(sesko) = %v", ids)
	}
	ids = idx.LookupLastName("salah")
	if len(ids) != 1 || ids[0] != 306 {
		t.Errorf("LookupLastName(salah) = %v", ids)
	}
}

func TestLookupFirstNameCollision(t *testing.T) {
	idx := NewIndex(testDataset())

	ids := idx.LookupFirstName("bruno")
	if len(ids) != 2 {
		t.Fatalf("LookupFirstName(bruno) = %v, want two entities", ids)
	}
	// Collided IDs come back sorted for deterministic disambiguation.
	if ids[0] != 747 || ids[1] != 1301 {
		t.Errorf("ids not sorted: %v", ids)
	}
}

func TestLookupComponent(t *testing.T) {
	idx := NewIndex(testDataset())

	entries := idx.LookupComponent("manchester")
	found := false
	for _, e := range entries {
		if e.EntityID == 33 {
			found = true
		}
	}
	if !found {
		t.Errorf("LookupComponent(manchester) missed team 33: %v", entries)
	}

	// Below the minimum length nothing matches.
	if entries := idx.LookupComponent("ma"); len(entries) != 0 {
		t.Errorf("short query should not match: %v", entries)
	}
}

func TestIndexMetadata(t *testing.T) {
	idx := NewIndex(testDataset())

	if idx.Version() != "test-1" {
		t.Errorf("Version() = %q", idx.Version())
	}
	if idx.Len() != 7 {
		t.Errorf("Len() = %d", idx.Len())
	}
	if e, ok := idx.Entity(306); !ok || e.Name != "Mohamed Salah" {
		t.Errorf("Entity(306) = %+v, %v", e, ok)
	}
	if len(idx.Entities(KindTeam)) != 2 {
		t.Errorf("Entities(team) = %v", idx.Entities(KindTeam))
	}
}
