// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrInvalidRepoRef indicates the repository URL could not be parsed into an
// owner/name pair. Surfaced to the caller; not retryable.
var ErrInvalidRepoRef = errors.New("invalid repository reference: URL path must contain owner and repository name")

// ErrAssessmentTimeout indicates run polling exceeded its bound. Surfaced
// distinctly from AssessmentError so the caller can choose to retry manually.
var ErrAssessmentTimeout = errors.New("assessment service: run polling exceeded bound")

// RepoNotFoundError indicates the top-level repository lookup failed.
// Individual field fetches degrade to defaults instead; only this lookup
// is fatal to a profile.
type RepoNotFoundError struct {
	Owner string
	Name  string
	Err   error
}

func (e *RepoNotFoundError) Error() string {
	return fmt.Sprintf("repository %s/%s not found: %v", e.Owner, e.Name, e.Err)
}

func (e *RepoNotFoundError) Unwrap() error { return e.Err }

// AssessmentError indicates the generation run reached a terminal state other
// than completed. Status carries the service's status string verbatim.
type AssessmentError struct {
	Status string
}

func (e *AssessmentError) Error() string {
	return fmt.Sprintf("assessment service: run ended with status %q", e.Status)
}
