// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"strings"
	"testing"

	"github.com/pdiddy/aiact/pkg/types"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{75, "75"},
		{25, "25"},
		{100, "100"},
		{33.333333, "33.3"},
		{66.666666, "66.7"},
		{0.04, "0"},
	}
	for _, tt := range tests {
		if got := formatPercent(tt.pct); got != tt.want {
			t.Errorf("formatPercent(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestLanguageShares(t *testing.T) {
	shares := languageShares(map[string]int{"A": 3, "B": 1})
	if len(shares) != 2 {
		t.Fatalf("len(shares) = %d, want 2", len(shares))
	}
	if shares[0].Name != "A" || shares[0].Percent != "75" {
		t.Errorf("shares[0] = %+v, want A 75", shares[0])
	}
	if shares[1].Name != "B" || shares[1].Percent != "25" {
		t.Errorf("shares[1] = %+v, want B 25", shares[1])
	}
}

func TestLanguageSharesOrdering(t *testing.T) {
	// Descending byte count, ties broken by name.
	shares := languageShares(map[string]int{"Go": 100, "Python": 800, "C": 100})
	wantOrder := []string{"Python", "C", "Go"}
	for i, name := range wantOrder {
		if shares[i].Name != name {
			t.Errorf("shares[%d].Name = %q, want %q", i, shares[i].Name, name)
		}
	}
}

func TestLanguageSharesSumsToWhole(t *testing.T) {
	// Three equal languages: 33.3 + 33.3 + 33.3 rounds to 100 within tolerance.
	shares := languageShares(map[string]int{"A": 1, "B": 1, "C": 1})
	for _, s := range shares {
		if s.Percent != "33.3" {
			t.Errorf("share %s = %s%%, want 33.3%%", s.Name, s.Percent)
		}
	}
}

func TestLanguageSharesEmpty(t *testing.T) {
	if shares := languageShares(nil); shares != nil {
		t.Errorf("languageShares(nil) = %v, want nil", shares)
	}
	if shares := languageShares(map[string]int{}); shares != nil {
		t.Errorf("languageShares(empty) = %v, want nil", shares)
	}
}

func TestRenderDocument(t *testing.T) {
	rec := types.MetadataRecord{
		Owner:             "acme",
		Name:              "widget",
		ReadmeExcerpt:     "Face recognition toolkit.",
		Dependencies:      []string{"opencv-python", "numpy"},
		LanguageHistogram: map[string]int{"Python": 3, "Go": 1},
		Topics:            []string{"vision"},
		License:           "MIT",
		Activity:          types.ActivityCounters{Stars: 42, Forks: 7, OpenIssues: 3, Contributors: 5},
		SizeKB:            1024,
		LastPush:          "2026-07-01T12:30:00Z",
		HasCI:             true,
		DomainTags:        []string{"surveillance"},
		BiometricFlag:     true,
	}

	doc := RenderDocument(rec)

	wantLines := []string{
		"Summary: Face recognition toolkit.",
		"Tags: surveillance",
		"Domain: surveillance",
		"Dependencies: opencv-python, numpy",
		"Languages: Python 75%, Go 25%",
		"Topics: vision",
		"License: MIT",
		"Activity: 42 stars, 7 forks, 3 open issues, 5 contributors, 1024 KB, last push 2026-07-01T12:30:00Z",
		"CI configured: true",
		"Biometric data used: true",
		"Human-in-the-loop: false",
	}
	for _, line := range wantLines {
		if !strings.Contains(doc, line) {
			t.Errorf("document missing line %q\ndocument:\n%s", line, doc)
		}
	}
}

func TestRenderDocumentEmptyRecord(t *testing.T) {
	doc := RenderDocument(types.MetadataRecord{License: types.LicenseNone})

	wantLines := []string{
		"Summary: none",
		"Tags: none",
		"Domain: general",
		"Dependencies: none",
		"Languages: none",
		"Topics: none",
		"License: none",
	}
	for _, line := range wantLines {
		if !strings.Contains(doc, line) {
			t.Errorf("document missing line %q\ndocument:\n%s", line, doc)
		}
	}
	if strings.Contains(doc, "last push") {
		t.Error("document should omit last push when the timestamp is absent")
	}
}
