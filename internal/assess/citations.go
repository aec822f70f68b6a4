// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/aiact/pkg/types"
)

// EvidenceChunk is one retrieved text fragment the service used to ground
// part of its answer, with the retrieval score it reported.
type EvidenceChunk struct {
	Text  string
	Score float64
}

// citationMarkerRe matches the vendor marker grammar 【n:k†source】 where k is
// the zero-based index into the combined evidence-chunk list.
var citationMarkerRe = regexp.MustCompile(`【(\d+):(\d+)†[^】]*】`)

// markerChunkIndex parses the chunk index out of a marker token. It returns
// false for markers that do not follow the grammar; those are malformed and
// skipped by the caller, never escalated.
func markerChunkIndex(marker string) (int, bool) {
	m := citationMarkerRe.FindStringSubmatch(marker)
	if m == nil {
		return 0, false
	}
	k, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return k, true
}

// CollectEvidenceChunks flattens the file-search results of all tool-call
// steps into one list, in step order then call order. Annotation indexes
// resolve against this combined list; for the common single-call run the
// result is identical to reading that call's list directly.
func CollectEvidenceChunks(steps []RunStep) []EvidenceChunk {
	var chunks []EvidenceChunk
	for _, step := range steps {
		if step.StepDetails.Type != "tool_calls" {
			continue
		}
		for _, call := range step.StepDetails.ToolCalls {
			if call.Type != "file_search" {
				continue
			}
			for _, res := range call.FileSearch.Results {
				chunks = append(chunks, EvidenceChunk{Text: chunkText(res), Score: res.Score})
			}
		}
	}
	return chunks
}

// chunkText joins a result's text content blocks.
func chunkText(res FileSearchResult) string {
	var parts []string
	for _, c := range res.Content {
		if c.Type != "text" || c.Text == "" {
			continue
		}
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n")
}

// BuildCitations resolves citation annotations against the combined evidence
// chunks. Malformed markers and out-of-range indexes are dropped silently;
// surviving records are deduplicated by marker text in first-seen order, so
// every marker maps to exactly one record.
func BuildCitations(annotations []Annotation, chunks []EvidenceChunk) []types.CitationRecord {
	seen := make(map[string]bool)
	var records []types.CitationRecord

	for _, ann := range annotations {
		if ann.Type != "file_citation" {
			continue
		}
		k, ok := markerChunkIndex(ann.Text)
		if !ok || k < 0 || k >= len(chunks) {
			continue
		}
		if seen[ann.Text] {
			continue
		}
		seen[ann.Text] = true
		records = append(records, types.CitationRecord{
			Marker:         ann.Text,
			EvidenceText:   chunks[k].Text,
			RelevanceScore: chunks[k].Score,
		})
	}
	return records
}
