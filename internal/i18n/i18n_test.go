package i18n

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		code     string
		fallback Locale
		want     Locale
	}{
		{"ru", EN, RU},
		{"en", RU, EN},
		{"tr", RU, TR},
		{"", EN, EN},
		{"de", TR, TR},
		{"xx", Locale("yy"), DefaultLocale},
	}
	for _, tc := range cases {
		if got := Normalize(tc.code, tc.fallback); got != tc.want {
			t.Errorf("Normalize(%q, %q) = %q, want %q", tc.code, tc.fallback, got, tc.want)
		}
	}
}

func TestTFallsBackToEnglish(t *testing.T) {
	if got := T(Locale("de"), "fav_saved"); got != strings[EN]["fav_saved"] {
		t.Errorf("unknown locale should fall back to English, got %q", got)
	}
	if got := T(RU, "no_such_key"); got != "no_such_key" {
		t.Errorf("unknown key should echo the key, got %q", got)
	}
}

func TestAllLocalesShareKeys(t *testing.T) {
	ref := strings[EN]
	for _, loc := range Supported() {
		table := strings[loc]
		for key := range ref {
			if _, ok := table[key]; !ok {
				t.Errorf("locale %s is missing key %q", loc, key)
			}
		}
		for key := range table {
			if _, ok := ref[key]; !ok {
				t.Errorf("locale %s has extra key %q", loc, key)
			}
		}
	}
}

func TestTf(t *testing.T) {
	got := Tf(EN, "daily_set", "08:30")
	want := "Daily hadith set for *08:30*."
	if got != want {
		t.Errorf("Tf = %q, want %q", got, want)
	}
}
