// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "aiact/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProfileConfig holds settings for the repository profiler.
type ProfileConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is an optional GitHub API token. Anonymous access is used when empty.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// ReadmeExcerptChars is the README excerpt length in characters (default 500).
	ReadmeExcerptChars int `json:"readme_excerpt_chars" yaml:"readme_excerpt_chars"`

	// ManifestPath is the dependency manifest fetched from the repository
	// (default "requirements.txt").
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`

	// CIConfigPath is the directory probed for CI configuration
	// (default ".github/workflows").
	CIConfigPath string `json:"ci_config_path" yaml:"ci_config_path"`
}

// DefaultInstruction is the classification instruction given to the
// assessment service when the configuration does not override it.
const DefaultInstruction = "You are a compliance expert in the EU AI Act. " +
	"Classify the described system by risk tier: Unacceptable, High, Limited, or Minimal. " +
	"Justify the classification concisely, citing the passages you relied on."

// AssessConfig holds settings for the risk assessment pipeline.
type AssessConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the assessment service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// AssistantID is the pre-configured assistant identity runs are started
	// against.
	AssistantID string `json:"assistant_id" yaml:"assistant_id"`

	// Instruction is the system instruction for the run (default
	// DefaultInstruction).
	Instruction string `json:"instruction,omitempty" yaml:"instruction,omitempty"`

	// PollInterval is the delay between run status retrievals (default 2s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// MaxPolls bounds the number of status retrievals before the pipeline
	// gives up with ErrAssessmentTimeout (default 60).
	MaxPolls int `json:"max_polls" yaml:"max_polls"`

	// MaxRetries is the per-request retry bound for transient HTTP failures
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// WithDefaults returns a copy of cfg with zero-valued fields set to defaults.
func (c ProfileConfig) WithDefaults() ProfileConfig {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "aiact/0.1"
	}
	if c.ReadmeExcerptChars <= 0 {
		c.ReadmeExcerptChars = 500
	}
	if c.ManifestPath == "" {
		c.ManifestPath = "requirements.txt"
	}
	if c.CIConfigPath == "" {
		c.CIConfigPath = ".github/workflows"
	}
	return c
}

// WithDefaults returns a copy of cfg with zero-valued fields set to defaults.
func (c AssessConfig) WithDefaults() AssessConfig {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "aiact/0.1"
	}
	if c.Instruction == "" {
		c.Instruction = DefaultInstruction
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.MaxPolls <= 0 {
		c.MaxPolls = 60
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	return c
}
