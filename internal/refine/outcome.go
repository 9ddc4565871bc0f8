// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pdiddy/search-refiner/pkg/types"
)

var (
	// ErrInvalidInput is returned by Run for empty keywords, blank keywords,
	// or a target outside [0, PageSize].
	ErrInvalidInput = errors.New("invalid input")

	// ErrCannotImprove is returned by a Refiner that has no better query to
	// propose.
	ErrCannotImprove = errors.New("cannot improve query")

	// ErrScriptExhausted is returned by a ScriptedJudge asked for more
	// verdicts than it holds.
	ErrScriptExhausted = errors.New("scripted verdicts exhausted")
)

// Exhaustion reasons reported in Outcome.Reason.
const (
	ReasonNoRelevant     = "no relevant results, cannot refine"
	ReasonRefinerDone    = "refinement exhausted"
	ReasonIterationLimit = "iteration limit reached"
	ReasonAborted        = "aborted"
)

// Kind discriminates how a refinement run ended.
type Kind int

const (
	// Success means the relevant count met the target.
	Success Kind = iota
	// Exhausted means the run stopped without meeting the target: nothing
	// relevant, the refiner gave up, or the iteration limit was hit.
	Exhausted
	// SearchUnavailable means the provider could not be reached.
	SearchUnavailable
	// MalformedResponse means the provider answered with unparseable data.
	MalformedResponse
	// Cancelled means the caller's context ended the run.
	Cancelled
)

var kindNames = map[Kind]string{
	Success:           "success",
	Exhausted:         "exhausted",
	SearchUnavailable: "search_unavailable",
	MalformedResponse: "malformed_response",
	Cancelled:         "cancelled",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Iteration records one search round.
type Iteration struct {
	Keywords []string `json:"keywords"`
	Returned int      `json:"returned"`
	Relevant int      `json:"relevant"`
}

// Outcome is the result of Run. Relevant is set on Success; Reason on
// Exhausted; Err holds the cause for SearchUnavailable, MalformedResponse
// and Cancelled.
type Outcome struct {
	Kind       Kind                 `json:"kind"`
	Reason     string               `json:"reason,omitempty"`
	Relevant   []types.ResultRecord `json:"relevant,omitempty"`
	Iterations int                  `json:"iterations"`
	Keywords   []string             `json:"keywords"`
	Target     int                  `json:"target"`
	History    []Iteration          `json:"history"`
	Err        error                `json:"-"`
}

// OK reports whether the target was met.
func (o Outcome) OK() bool {
	return o.Kind == Success
}

// Summary returns a one-line description of the outcome.
func (o Outcome) Summary() string {
	switch o.Kind {
	case Success:
		return fmt.Sprintf("found %d relevant result(s) (target %d) after %d iteration(s)",
			len(o.Relevant), o.Target, o.Iterations)
	case Exhausted:
		return fmt.Sprintf("exhausted after %d iteration(s): %s", o.Iterations, o.Reason)
	default:
		if o.Err != nil {
			return fmt.Sprintf("%s after %d iteration(s): %v", o.Kind, o.Iterations, o.Err)
		}
		return fmt.Sprintf("%s after %d iteration(s)", o.Kind, o.Iterations)
	}
}
