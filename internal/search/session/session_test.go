package session

import (
	"testing"
	"time"

	"github.com/albapepper/scoracle-search/internal/search/alias"
)

func TestUpdateAndGet(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	s.Update("s1", "PLAYER_LOOKUP", []alias.Entity{
		{ID: 306, Kind: alias.KindPlayer, Name: "Mohamed Salah"},
	})

	st := s.Get("s1")
	if st == nil {
		t.Fatal("session missing")
	}
	if st.LastPlayer == nil || st.LastPlayer.ID != 306 {
		t.Errorf("last player = %+v", st.LastPlayer)
	}
	if st.LastIntent != "PLAYER_LOOKUP" {
		t.Errorf("last intent = %q", st.LastIntent)
	}
	if st.LastTeam != nil {
		t.Errorf("last team = %+v", st.LastTeam)
	}
}

func TestUpdateMergesWithoutClobbering(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	s.Update("s1", "PLAYER_LOOKUP", []alias.Entity{{ID: 306, Kind: alias.KindPlayer, Name: "Mohamed Salah"}})
	s.Update("s1", "TEAM_LOOKUP", []alias.Entity{{ID: 40, Kind: alias.KindTeam, Name: "Liverpool"}})

	st := s.Get("s1")
	if st.LastPlayer == nil || st.LastPlayer.ID != 306 {
		t.Errorf("team query clobbered last player: %+v", st.LastPlayer)
	}
	if st.LastTeam == nil || st.LastTeam.ID != 40 {
		t.Errorf("last team = %+v", st.LastTeam)
	}
	if st.LastIntent != "TEAM_LOOKUP" {
		t.Errorf("last intent = %q", st.LastIntent)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	s.Update("s1", "PLAYER_LOOKUP", []alias.Entity{{ID: 306, Kind: alias.KindPlayer}})
	st := s.Get("s1")
	st.LastPlayer = nil

	if again := s.Get("s1"); again.LastPlayer == nil {
		t.Error("caller mutation reached the store")
	}
}

func TestExpiry(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	defer s.Close()

	s.Update("s1", "STANDINGS", nil)
	if s.Get("s1") == nil {
		t.Fatal("fresh session expired")
	}
	time.Sleep(40 * time.Millisecond)
	if s.Get("s1") != nil {
		t.Error("expired session still served")
	}
	if s.Len() != 0 {
		t.Errorf("len = %d", s.Len())
	}
}

func TestEmptySessionID(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	s.Update("", "STANDINGS", nil)
	if s.Get("") != nil {
		t.Error("empty session id produced state")
	}
	if s.Len() != 0 {
		t.Errorf("len = %d", s.Len())
	}
}
