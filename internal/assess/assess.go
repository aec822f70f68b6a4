// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assess submits a repository metadata record to a retrieval-augmented
// generation service and extracts the risk verdict together with its cited
// evidence. The profiler is fail-open per field; this stage is fail-closed:
// a run that does not complete, or a thread without an assistant message,
// aborts the assessment.
package assess

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/aiact/pkg/types"
)

// cancelTimeout bounds the best-effort run cancel issued when the caller's
// context dies or polling gives up; the caller's context is unusable by then.
const cancelTimeout = 5 * time.Second

// Pipeline runs risk assessments against a pre-configured assistant identity.
type Pipeline struct {
	cfg    types.AssessConfig
	client *AssistantsClient
}

// New creates a Pipeline from explicit configuration. Which assistant
// identity and system instruction to use are configuration values.
func New(cfg types.AssessConfig) *Pipeline {
	cfg = cfg.WithDefaults()
	return &Pipeline{
		cfg: cfg,
		client: &AssistantsClient{
			APIKey:     cfg.APIKey,
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			Client:     &http.Client{Timeout: cfg.Timeout},
		},
	}
}

// Assess renders the record into a document, runs the assistant over it, and
// returns the verdict with source-attributed citations.
//
// It fails with *types.AssessmentError when the run reaches a non-completed
// terminal state and with types.ErrAssessmentTimeout when polling exceeds its
// bound. Context cancellation after submission triggers a best-effort cancel
// of the in-flight run.
func (p *Pipeline) Assess(ctx context.Context, rec types.MetadataRecord) (types.AssessmentResult, error) {
	doc := RenderDocument(rec)

	thread, err := p.client.CreateThread(ctx)
	if err != nil {
		return types.AssessmentResult{}, fmt.Errorf("creating conversation: %w", err)
	}
	if err := p.client.CreateMessage(ctx, thread.ID, "user", doc); err != nil {
		return types.AssessmentResult{}, fmt.Errorf("submitting document: %w", err)
	}

	run, err := p.client.CreateRun(ctx, thread.ID, p.cfg.AssistantID, p.cfg.Instruction)
	if err != nil {
		return types.AssessmentResult{}, fmt.Errorf("starting run: %w", err)
	}

	run, err = p.waitForRun(ctx, thread.ID, run)
	if err != nil {
		return types.AssessmentResult{}, err
	}
	if run.Status != runStatusCompleted {
		return types.AssessmentResult{}, &types.AssessmentError{Status: run.Status}
	}

	chunks, err := p.collectEvidence(ctx, thread.ID, run.ID)
	if err != nil {
		return types.AssessmentResult{}, err
	}

	text, annotations, err := p.assistantReply(ctx, thread.ID)
	if err != nil {
		return types.AssessmentResult{}, err
	}

	return types.AssessmentResult{
		VerdictText: text,
		Citations:   BuildCitations(annotations, chunks),
	}, nil
}

// waitForRun polls the run until it reaches a terminal status, bounded by
// MaxPolls retrievals spaced PollInterval apart.
func (p *Pipeline) waitForRun(ctx context.Context, threadID string, run Run) (Run, error) {
	for poll := 0; poll < p.cfg.MaxPolls; poll++ {
		if isTerminalRunStatus(run.Status) {
			return run, nil
		}

		select {
		case <-ctx.Done():
			p.cancelAbandonedRun(threadID, run.ID)
			return Run{}, ctx.Err()
		case <-time.After(p.cfg.PollInterval):
		}

		var err error
		run, err = p.client.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			return Run{}, fmt.Errorf("retrieving run status: %w", err)
		}
	}

	if isTerminalRunStatus(run.Status) {
		return run, nil
	}
	p.cancelAbandonedRun(threadID, run.ID)
	return Run{}, types.ErrAssessmentTimeout
}

// cancelAbandonedRun issues a best-effort cancel for a run nobody will wait
// on. Errors are ignored; the run expires server-side regardless.
func (p *Pipeline) cancelAbandonedRun(threadID, runID string) {
	ctx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
	defer cancel()
	_ = p.client.CancelRun(ctx, threadID, runID)
}

// collectEvidence lists the run's steps and re-retrieves every step carrying
// a file-search call with result bodies included, since the step listing
// omits chunk content.
func (p *Pipeline) collectEvidence(ctx context.Context, threadID, runID string) ([]EvidenceChunk, error) {
	steps, err := p.client.ListRunSteps(ctx, threadID, runID)
	if err != nil {
		return nil, fmt.Errorf("listing run steps: %w", err)
	}

	var detailed []RunStep
	for _, step := range steps {
		if !hasFileSearchCall(step) {
			continue
		}
		full, err := p.client.RetrieveRunStep(ctx, threadID, runID, step.ID)
		if err != nil {
			return nil, fmt.Errorf("retrieving run step %s: %w", step.ID, err)
		}
		detailed = append(detailed, full)
	}
	return CollectEvidenceChunks(detailed), nil
}

// hasFileSearchCall reports whether a step invoked the evidence-retrieval tool.
func hasFileSearchCall(step RunStep) bool {
	if step.StepDetails.Type != "tool_calls" {
		return false
	}
	for _, call := range step.StepDetails.ToolCalls {
		if call.Type == "file_search" {
			return true
		}
	}
	return false
}

// assistantReply returns the newest assistant message's text and annotations.
// A thread without an assistant message aborts the assessment.
func (p *Pipeline) assistantReply(ctx context.Context, threadID string) (string, []Annotation, error) {
	msgs, err := p.client.ListMessages(ctx, threadID)
	if err != nil {
		return "", nil, fmt.Errorf("listing messages: %w", err)
	}

	// Messages arrive newest first; the first assistant entry is the verdict.
	for _, msg := range msgs {
		if msg.Role != "assistant" {
			continue
		}
		for _, content := range msg.Content {
			if content.Type != "text" || content.Text == nil {
				continue
			}
			return content.Text.Value, content.Text.Annotations, nil
		}
	}
	return "", nil, fmt.Errorf("assessment service returned no assistant message")
}
