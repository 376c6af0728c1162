package domain

import "testing"

func TestCleanText(t *testing.T) {
	if got := CleanText("  Data  Analyst \n II "); got != "Data Analyst II" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeLocation(t *testing.T) {
	cases := map[string]string{
		"":                                 "",
		"Location: Austin, TX":             "Austin, TX",
		"Remote, remote ,  Louisville, KY": "Remote, Louisville, KY",
		"LOCATIONS: Dallas,, Dallas":       "Dallas",
	}
	for in, want := range cases {
		if got := NormalizeLocation(in); got != want {
			t.Errorf("NormalizeLocation(%q) = %q, want %q", in, got, want)
		}
	}
}
