// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/pdiddy/aiact/pkg/types"
)

// documentTmpl renders the metadata record into the plain-text document sent
// to the assessment service. The layout is fixed; every labeled section is
// always present so the assistant sees a uniform shape.
var documentTmpl = template.Must(template.New("document").Parse(`Classify this AI system by EU AI Act risk level.

Summary: {{.Summary}}
Tags: {{.Tags}}
Domain: {{.Domain}}
Dependencies: {{.Dependencies}}
Languages: {{.Languages}}
Topics: {{.Topics}}
License: {{.License}}
Activity: {{.Activity}}
CI configured: {{.HasCI}}
Biometric data used: {{.Biometric}}
Human-in-the-loop: {{.Oversight}}
`))

// documentView is the flattened, display-ready form of a MetadataRecord.
type documentView struct {
	Summary      string
	Tags         string
	Domain       string
	Dependencies string
	Languages    string
	Topics       string
	License      string
	Activity     string
	HasCI        bool
	Biometric    bool
	Oversight    bool
}

// RenderDocument serializes a metadata record into the fixed-structure text
// document submitted to the assessment service.
func RenderDocument(rec types.MetadataRecord) string {
	view := documentView{
		Summary:      orNone(strings.TrimSpace(rec.ReadmeExcerpt)),
		Tags:         orNone(strings.Join(rec.DomainTags, ", ")),
		Domain:       rec.Domain(),
		Dependencies: orNone(strings.Join(rec.Dependencies, ", ")),
		Languages:    orNone(formatLanguages(rec.LanguageHistogram)),
		Topics:       orNone(strings.Join(rec.Topics, ", ")),
		License:      rec.License,
		Activity:     formatActivity(rec),
		HasCI:        rec.HasCI,
		Biometric:    rec.BiometricFlag,
		Oversight:    rec.HumanOversightFlag,
	}

	var buf bytes.Buffer
	// The template only references view fields; execution cannot fail.
	documentTmpl.Execute(&buf, view)
	return buf.String()
}

// formatActivity renders the counters section, including the last-push
// timestamp only when known.
func formatActivity(rec types.MetadataRecord) string {
	s := fmt.Sprintf("%d stars, %d forks, %d open issues, %d contributors, %d KB",
		rec.Activity.Stars, rec.Activity.Forks, rec.Activity.OpenIssues,
		rec.Activity.Contributors, rec.SizeKB)
	if rec.LastPush != "" {
		s += ", last push " + rec.LastPush
	}
	return s
}

// languageShare is one language's portion of the repository by byte count.
type languageShare struct {
	Name    string
	Percent string
}

// languageShares converts the byte histogram into percentage shares, ordered
// by descending byte count (ties by name) for deterministic output.
// Percentages carry at most one decimal digit.
func languageShares(hist map[string]int) []languageShare {
	total := 0
	for _, b := range hist {
		total += b
	}
	if total == 0 {
		return nil
	}

	names := make([]string, 0, len(hist))
	for name := range hist {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if hist[names[i]] != hist[names[j]] {
			return hist[names[i]] > hist[names[j]]
		}
		return names[i] < names[j]
	})

	shares := make([]languageShare, 0, len(names))
	for _, name := range names {
		pct := float64(hist[name]) / float64(total) * 100
		shares = append(shares, languageShare{Name: name, Percent: formatPercent(pct)})
	}
	return shares
}

// formatPercent renders a percentage with one decimal digit, dropping a
// trailing ".0" so whole numbers stay whole.
func formatPercent(pct float64) string {
	s := strconv.FormatFloat(pct, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// formatLanguages renders the histogram as "Python 75%, Go 25%".
func formatLanguages(hist map[string]int) string {
	shares := languageShares(hist)
	parts := make([]string, 0, len(shares))
	for _, s := range shares {
		parts = append(parts, fmt.Sprintf("%s %s%%", s.Name, s.Percent))
	}
	return strings.Join(parts, ", ")
}

// orNone substitutes the literal "none" for empty section values.
func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
