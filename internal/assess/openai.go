// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pdiddy/aiact/internal/httputil"
)

// assistantsAPIBase is the OpenAI Assistants v2 endpoint root. Declared as a
// var so tests can substitute an httptest server.
var assistantsAPIBase = "https://api.openai.com/v1"

// AssistantsClient is a minimal typed client for the slice of the Assistants
// v2 API this pipeline uses: threads, messages, runs, run steps with expanded
// file-search results. Requests retry transient failures via httputil.
type AssistantsClient struct {
	APIKey     string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
}

// Thread is a created conversation.
type Thread struct {
	ID string `json:"id"`
}

// Run is a generation run against an assistant identity. Status moves
// queued -> in_progress -> {completed | failed | cancelled | expired}.
type Run struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Run status values. Only completed is a success terminal.
const (
	runStatusQueued     = "queued"
	runStatusInProgress = "in_progress"
	runStatusCancelling = "cancelling"
	runStatusCompleted  = "completed"
)

// isTerminalRunStatus reports whether the run has stopped moving. Every
// terminal status other than completed is a failure surfaced verbatim.
func isTerminalRunStatus(status string) bool {
	switch status {
	case runStatusQueued, runStatusInProgress, runStatusCancelling, "":
		return false
	}
	return true
}

// RunStep is one execution step of a run. The step listing omits file-search
// result bodies; RetrieveRunStep re-fetches a step with them included.
type RunStep struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	StepDetails StepDetails `json:"step_details"`
}

// StepDetails discriminates message-creation steps from tool-call steps.
type StepDetails struct {
	Type      string     `json:"type"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is one tool invocation within a step.
type ToolCall struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	FileSearch FileSearchCall `json:"file_search,omitempty"`
}

// FileSearchCall holds the retrieved evidence chunks of a file-search call.
type FileSearchCall struct {
	Results []FileSearchResult `json:"results,omitempty"`
}

// FileSearchResult is one retrieved evidence chunk with its relevance score.
type FileSearchResult struct {
	FileID   string              `json:"file_id"`
	FileName string              `json:"file_name"`
	Score    float64             `json:"score"`
	Content  []FileSearchContent `json:"content,omitempty"`
}

// FileSearchContent is one content block of a retrieved chunk.
type FileSearchContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Message is one conversation message.
type Message struct {
	ID      string           `json:"id"`
	Role    string           `json:"role"`
	Content []MessageContent `json:"content"`
}

// MessageContent is one content block of a message.
type MessageContent struct {
	Type string       `json:"type"`
	Text *MessageText `json:"text,omitempty"`
}

// MessageText is generated text plus its citation annotations.
type MessageText struct {
	Value       string       `json:"value"`
	Annotations []Annotation `json:"annotations"`
}

// Annotation is one citation annotation: a character span into the message
// text and the literal marker token of the form 【n:k†source】.
type Annotation struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	StartIndex   int           `json:"start_index"`
	EndIndex     int           `json:"end_index"`
	FileCitation *FileCitation `json:"file_citation,omitempty"`
}

// FileCitation names the file an annotation's evidence chunk came from.
type FileCitation struct {
	FileID string `json:"file_id"`
}

// stepInclude expands file-search result bodies on a run step retrieval.
const stepInclude = "step_details.tool_calls[*].file_search.results[*].content"

type createMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type createRunRequest struct {
	AssistantID  string `json:"assistant_id"`
	Instructions string `json:"instructions,omitempty"`
}

type runStepList struct {
	Data []RunStep `json:"data"`
}

type messageList struct {
	Data []Message `json:"data"`
}

// CreateThread starts a new conversation.
func (c *AssistantsClient) CreateThread(ctx context.Context) (Thread, error) {
	var t Thread
	err := c.do(ctx, http.MethodPost, "/threads", struct{}{}, &t)
	return t, err
}

// CreateMessage appends a message to a thread.
func (c *AssistantsClient) CreateMessage(ctx context.Context, threadID, role, content string) error {
	path := fmt.Sprintf("/threads/%s/messages", threadID)
	return c.do(ctx, http.MethodPost, path, createMessageRequest{Role: role, Content: content}, nil)
}

// CreateRun starts a run against the given assistant identity.
func (c *AssistantsClient) CreateRun(ctx context.Context, threadID, assistantID, instructions string) (Run, error) {
	path := fmt.Sprintf("/threads/%s/runs", threadID)
	var r Run
	err := c.do(ctx, http.MethodPost, path, createRunRequest{AssistantID: assistantID, Instructions: instructions}, &r)
	return r, err
}

// RetrieveRun fetches the current run status.
func (c *AssistantsClient) RetrieveRun(ctx context.Context, threadID, runID string) (Run, error) {
	path := fmt.Sprintf("/threads/%s/runs/%s", threadID, runID)
	var r Run
	err := c.do(ctx, http.MethodGet, path, nil, &r)
	return r, err
}

// CancelRun requests cancellation of an in-flight run.
func (c *AssistantsClient) CancelRun(ctx context.Context, threadID, runID string) error {
	path := fmt.Sprintf("/threads/%s/runs/%s/cancel", threadID, runID)
	return c.do(ctx, http.MethodPost, path, struct{}{}, nil)
}

// ListRunSteps returns the run's execution steps in run order. Result bodies
// are omitted at this level.
func (c *AssistantsClient) ListRunSteps(ctx context.Context, threadID, runID string) ([]RunStep, error) {
	path := fmt.Sprintf("/threads/%s/runs/%s/steps?order=asc", threadID, runID)
	var list runStepList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// RetrieveRunStep re-fetches one step with file-search result bodies included.
func (c *AssistantsClient) RetrieveRunStep(ctx context.Context, threadID, runID, stepID string) (RunStep, error) {
	path := fmt.Sprintf("/threads/%s/runs/%s/steps/%s?include[]=%s",
		threadID, runID, stepID, url.QueryEscape(stepInclude))
	var s RunStep
	err := c.do(ctx, http.MethodGet, path, nil, &s)
	return s, err
}

// ListMessages returns the thread's messages, newest first.
func (c *AssistantsClient) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	path := fmt.Sprintf("/threads/%s/messages", threadID)
	var list messageList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// do issues one API request, decoding the response into out when non-nil.
func (c *AssistantsClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, assistantsAPIBase+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return fmt.Errorf("assessment service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("assessment service returned HTTP %d: %s", resp.StatusCode, string(b))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("parsing assessment service response: %w", err)
		}
	}
	return nil
}
