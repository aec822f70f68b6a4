// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import "strings"

// domainVocabulary is the fixed term list checked against the README and
// dependency text. DomainTags follow this order, not blob-occurrence order.
var domainVocabulary = []string{"finance", "health", "education", "surveillance", "credit"}

// searchBlob lower-cases and concatenates the README and dependency lines
// into the single blob the heuristics run against.
func searchBlob(readme string, deps []string) string {
	return strings.ToLower(readme + "\n" + strings.Join(deps, " "))
}

// matchDomainTags returns the vocabulary terms present in the blob, in
// vocabulary order. Each term is checked once, so duplicates are impossible.
func matchDomainTags(blob string) []string {
	var tags []string
	for _, term := range domainVocabulary {
		if strings.Contains(blob, term) {
			tags = append(tags, term)
		}
	}
	return tags
}

// hasBiometricMention reports whether the blob mentions biometric data,
// with "face" accepted as a synonym token.
func hasBiometricMention(blob string) bool {
	return strings.Contains(blob, "biometric") || strings.Contains(blob, "face")
}

// hasOversightMention reports whether the blob mentions human oversight.
func hasOversightMention(blob string) bool {
	return strings.Contains(blob, "human-in-the-loop") || strings.Contains(blob, "human in loop")
}
