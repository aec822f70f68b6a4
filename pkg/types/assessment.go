// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationRecord is one piece of evidence cited by the assessment service.
// Records are keyed by the marker's literal text; the pipeline emits one
// record per distinct marker, in first-seen order.
type CitationRecord struct {
	// Marker is the opaque token embedded in the verdict text,
	// e.g. 【0:2†source】.
	Marker string `json:"marker" yaml:"marker"`

	// EvidenceText is the retrieved chunk the marker points to.
	EvidenceText string `json:"evidence_text" yaml:"evidence_text"`

	// RelevanceScore is the retrieval score the service reported for the chunk.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}

// AssessmentResult is the outcome of one risk classification run.
// Every citation marker appearing in VerdictText resolves to exactly one
// CitationRecord; markers that could not be resolved were dropped.
// Like MetadataRecord it is request-scoped and never persisted.
type AssessmentResult struct {
	// VerdictText is the generated classification with inline citation markers.
	VerdictText string `json:"verdict_text" yaml:"verdict_text"`

	// Citations lists the cited evidence, deduplicated by marker.
	Citations []CitationRecord `json:"citations" yaml:"citations"`
}
