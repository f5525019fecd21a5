package domain

import "testing"

func TestParseTimeValid(t *testing.T) {
	cases := []struct {
		in     string
		hour   int
		minute int
	}{
		{"08:00", 8, 0},
		{"23:59", 23, 59},
		{"9:05", 9, 5},
		{"0:00", 0, 0},
	}
	for _, c := range cases {
		got, ok := ParseTime(c.in)
		if !ok {
			t.Fatalf("ParseTime(%q): want ok, got rejection", c.in)
		}
		if got.Hour != c.hour || got.Minute != c.minute {
			t.Fatalf("ParseTime(%q): want %02d:%02d, got %02d:%02d",
				c.in, c.hour, c.minute, got.Hour, got.Minute)
		}
	}
}

func TestParseTimeRejects(t *testing.T) {
	cases := []string{
		"24:00",  // hour out of range
		"12:60",  // minute out of range
		"9:5",    // minute must be two digits
		"abc",    // not a time at all
		"",       // empty
		" 08:00", // leading space
		"08:00 ", // trailing space
		"123:00", // hour too wide
		"08-00",  // wrong separator
	}
	for _, in := range cases {
		if _, ok := ParseTime(in); ok {
			t.Fatalf("ParseTime(%q): want rejection, got ok", in)
		}
	}
}
