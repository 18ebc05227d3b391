package logs

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseFlags(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", defaultFlags},
		{"date", log.Ldate},
		{"date,time, shortfile", log.Ldate | log.Ltime | log.Lshortfile},
		{"UTC,msgprefix", log.LUTC | log.Lmsgprefix},
		{"bogus", defaultFlags},
	}
	for _, tc := range cases {
		if got := parseFlags(tc.in); got != tc.want {
			t.Errorf("parseFlags(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "msgprefix")
	Info.Println("hello")
	Warn.Println("careful")
	Err.Println("broken")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %q", lines)
	}
	for i, want := range []string{"Ihello", "Wcareful", "Ebroken"} {
		if lines[i] != want {
			t.Errorf("Line %d: expected '%s', got '%s'", i, want, lines[i])
		}
	}
}
