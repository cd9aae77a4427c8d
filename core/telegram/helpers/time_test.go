package helpers

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"07:05", "07:05", true},
		{"7:05", "07:05", true},
		{"7.05", "07:05", true},
		{" 23:59 ", "23:59", true},
		{"0:00", "00:00", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"12", "", false},
		{"12:5:1", "", false},
		{"ab:cd", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseClock(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseClock(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
