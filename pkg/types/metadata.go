// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the aiact pipeline:
// the repository metadata record produced by the profiler, the assessment
// result produced by the risk pipeline, their error taxonomy, and the
// configuration structs both stages consume.
package types

// LicenseNone is the license sentinel used when a repository declares no license.
const LicenseNone = "none"

// DomainGeneral is the display domain used when no vocabulary term matched.
const DomainGeneral = "general"

// ActivityCounters holds the repository activity numbers shown to the
// assessment service. All counters are >= 0.
type ActivityCounters struct {
	Stars        int `json:"stars" yaml:"stars"`
	Forks        int `json:"forks" yaml:"forks"`
	OpenIssues   int `json:"open_issues" yaml:"open_issues"`
	Contributors int `json:"contributors" yaml:"contributors"`
}

// MetadataRecord is the structured profile of one repository. It is built
// fresh per request and never cached or persisted; results go stale and are
// not invalidated, so callers must treat each record as request-scoped.
type MetadataRecord struct {
	// Owner and Name identify the repository (first two URL path segments).
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"name" yaml:"name"`

	// ReadmeExcerpt is the first N characters of the README, with an
	// ellipsis marker appended when the README was longer.
	ReadmeExcerpt string `json:"readme_excerpt" yaml:"readme_excerpt"`

	// Dependencies holds the raw manifest lines, comments and blanks excluded,
	// in manifest order.
	Dependencies []string `json:"dependencies" yaml:"dependencies"`

	// LanguageHistogram maps language name to byte count. No ordering guarantee.
	LanguageHistogram map[string]int `json:"language_histogram" yaml:"language_histogram"`

	// Topics is the repository topic set.
	Topics []string `json:"topics" yaml:"topics"`

	// License is an SPDX identifier, or LicenseNone when none is declared.
	License string `json:"license" yaml:"license"`

	// Activity holds star/fork/issue/contributor counters.
	Activity ActivityCounters `json:"activity" yaml:"activity"`

	// SizeKB is the repository size in kilobytes as reported upstream.
	SizeKB int `json:"size_kb" yaml:"size_kb"`

	// LastPush is the last-push timestamp in RFC 3339, or empty when absent.
	LastPush string `json:"last_push,omitempty" yaml:"last_push,omitempty"`

	// HasCI reports whether a CI config directory exists in the repository.
	HasCI bool `json:"has_ci" yaml:"has_ci"`

	// DomainTags lists the vocabulary terms found in the README+dependency
	// blob, in vocabulary order (never blob-occurrence order).
	DomainTags []string `json:"domain_tags" yaml:"domain_tags"`

	// BiometricFlag and HumanOversightFlag are substring-presence heuristics
	// over the README+dependency blob.
	BiometricFlag      bool `json:"biometric_flag" yaml:"biometric_flag"`
	HumanOversightFlag bool `json:"human_oversight_flag" yaml:"human_oversight_flag"`
}

// Domain returns the display domain: the first domain tag, or DomainGeneral
// when no vocabulary term matched.
func (m MetadataRecord) Domain() string {
	if len(m.DomainTags) > 0 {
		return m.DomainTags[0]
	}
	return DomainGeneral
}
