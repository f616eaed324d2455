package pkg

import "testing"

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Night Runners", "night-runners"},
		{"  Trim Me  ", "trim-me"},
		{"Café & Friends!", "caf-friends"},
		{"already-a-slug", "already-a-slug"},
		{"Under_scores and   spaces", "under-scores-and-spaces"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := GenerateSlug(tc.in); got != tc.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerateSlugTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 20; i++ {
		long += "word "
	}
	got := GenerateSlug(long)
	if len(got) > 50 {
		t.Fatalf("slug too long: %d chars", len(got))
	}
	if !ValidSlug(got) {
		t.Fatalf("truncated slug invalid: %q", got)
	}
}

func TestValidSlug(t *testing.T) {
	valid := []string{"a", "night-runners", "club-42"}
	for _, s := range valid {
		if !ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "Has Caps", "spaced out", "unicode-café", "trailing!", string(make([]byte, 51))}
	for _, s := range invalid {
		if ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = true, want false", s)
		}
	}
}
