package normalize

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Premier League Table", "premier league table"},
		{"diacritics", "Šeško", "sesko"},
		{"accented", "Mbappé stats", "mbappe stats"},
		{"punctuation", "who's better: salah or haaland?", "who's better salah or haaland"},
		{"hyphen kept", "saint-maximin", "saint-maximin"},
		{"whitespace collapsed", "  arsenal    form ", "arsenal form"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Šeško", "Man Utd vs. Chelsea!", "  top   scorers  ", "saint-maximin",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"man utd vs chelsea", "manchester united versus chelsea"},
		{"man u form", "manchester united form"},
		{"spurs v arsenal", "tottenham versus arsenal"},
		{"epl table", "premier league table"},
		{"ucl top scorers", "champions league top scorers"},
		{"liverpool stats", "liverpool stats"},
	}
	for _, tt := range tests {
		if got := Expand(tt.in); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripFiller(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"show me the arsenal stats", "arsenal stats"},
		{"what is the premier league table", "premier league table"},
		{"i want to see top scorers", "top scorers"},
		{"salah goals", "salah goals"},
	}
	for _, tt := range tests {
		if got := StripFiller(tt.in); got != tt.want {
			t.Errorf("StripFiller(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuery(t *testing.T) {
	normalized, forMatching, mod := Query("Show me Man Utd last 5 games!")
	if mod == nil || mod.Kind != TimePast || mod.Count != 5 {
		t.Fatalf("expected past(5) time modifier, got %+v", mod)
	}
	if forMatching != "manchester united" {
		t.Errorf("forMatching = %q", forMatching)
	}
	if normalized == "" {
		t.Error("normalized is empty")
	}
}
