package main

import (
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		0:   "-",
		-5:  "-",
		59:  "0:59",
		60:  "1:00",
		245: "4:05",
	}
	for seconds, want := range cases {
		if got := formatDuration(seconds); got != want {
			t.Errorf("formatDuration(%d) = %q, want %q", seconds, got, want)
		}
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Fatalf("unexpected yesNo output")
	}
}

func TestOrDash(t *testing.T) {
	if orDash("  ") != "-" || orDash("value") != "value" {
		t.Fatalf("unexpected orDash output")
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"Name", "Size"},
		[][]string{{"a", "1"}, {"b"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "Name") || !strings.Contains(out, "a") {
		t.Fatalf("table missing cells:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatalf("headerless table must render empty")
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"sync", "tracks", "search", "resolve", "scan", "prune-orphans", "cache", "remove", "wipe", "config"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
