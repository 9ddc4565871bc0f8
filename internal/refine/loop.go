// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refine drives the search-refinement loop: search, parse, judge
// each result, and either stop or ask a Refiner for a better query.
package refine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/search-refiner/internal/logger"
	"github.com/pdiddy/search-refiner/internal/search"
	"github.com/pdiddy/search-refiner/pkg/types"
)

// DefaultMaxIterations bounds a run when Loop.MaxIterations is zero.
const DefaultMaxIterations = 10

// Loop wires the collaborators of a refinement run. It holds no per-run
// state; each Run starts a fresh session.
type Loop struct {
	Provider search.Provider
	Parser   *search.Parser
	Judge    Judge
	// Refiner may be nil, in which case a short run ends as Exhausted.
	Refiner Refiner

	// MaxIterations caps the number of searches per run.
	MaxIterations int

	// Observer, if set, is told about each search, judged page and
	// refinement.
	Observer Observer

	Log logrus.FieldLogger
}

// session is the state threaded through one Run.
type session struct {
	id         string
	keywords   []string
	target     int
	relevant   []types.ResultRecord
	iterations int
	history    []Iteration
}

func (s *session) outcome(kind Kind) Outcome {
	return Outcome{
		Kind:       kind,
		Iterations: s.iterations,
		Keywords:   slices.Clone(s.keywords),
		Target:     s.target,
		History:    s.history,
	}
}

// resetter is implemented by judges that number records per iteration.
type resetter interface {
	Reset()
}

// Run searches for keywords until at least target results of one page are
// judged relevant, or the run cannot continue.
//
// Expected endings (success, exhaustion, provider failure, malformed
// response, cancellation) are reported in the Outcome with a nil error. A
// non-nil error means invalid input or a failing judge or refiner; the
// Outcome is then Exhausted with ReasonAborted and covers the completed
// iterations only.
func (l *Loop) Run(ctx context.Context, keywords []string, target int) (Outcome, error) {
	if err := l.validate(keywords, target); err != nil {
		return Outcome{}, err
	}

	s := &session{
		id:       uuid.NewString(),
		keywords: slices.Clone(keywords),
		target:   target,
	}
	log := l.logger().WithField("session", s.id)
	log.WithField("keywords", s.keywords).WithField("target", target).Info("refinement started")

	maxIter := l.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	for {
		if err := ctx.Err(); err != nil {
			return l.finish(log, s, cancelled(s, err)), nil
		}
		if s.iterations >= maxIter {
			out := s.outcome(Exhausted)
			out.Reason = ReasonIterationLimit
			return l.finish(log, s, out), nil
		}
		s.iterations++
		ilog := log.WithField("iteration", s.iterations)
		ilog.WithField("keywords", s.keywords).Debug("searching")
		if l.Observer != nil {
			l.Observer.Searching(s.iterations, slices.Clone(s.keywords), s.target)
		}

		raw, err := l.Provider.Search(ctx, s.keywords)
		if err != nil {
			if ctx.Err() != nil {
				return l.finish(log, s, cancelled(s, ctx.Err())), nil
			}
			out := s.outcome(SearchUnavailable)
			out.Err = err
			return l.finish(log, s, out), nil
		}

		all, err := l.parser().Parse(raw)
		if err != nil {
			out := s.outcome(MalformedResponse)
			out.Err = err
			return l.finish(log, s, out), nil
		}
		if len(all) > types.PageSize {
			ilog.WithField("returned", len(all)).Debug("truncating to page size")
			all = all[:types.PageSize]
		}

		if r, ok := l.Judge.(resetter); ok {
			r.Reset()
		}
		s.relevant = nil
		for i, rec := range all {
			ok, err := l.Judge.Judge(ctx, rec)
			if err != nil {
				if ctx.Err() != nil {
					return l.finish(log, s, cancelled(s, ctx.Err())), nil
				}
				return aborted(s, fmt.Errorf("judging result %d: %w", i+1, err))
			}
			if ok {
				s.relevant = append(s.relevant, rec)
			}
		}

		s.history = append(s.history, Iteration{
			Keywords: slices.Clone(s.keywords),
			Returned: len(all),
			Relevant: len(s.relevant),
		})
		ilog.WithField("returned", len(all)).WithField("relevant", len(s.relevant)).Debug("judged")
		if l.Observer != nil {
			l.Observer.Judged(s.history[len(s.history)-1], s.target)
		}

		if len(s.relevant) >= s.target {
			out := s.outcome(Success)
			out.Relevant = s.relevant
			return l.finish(log, s, out), nil
		}
		if len(s.relevant) == 0 {
			out := s.outcome(Exhausted)
			out.Reason = ReasonNoRelevant
			return l.finish(log, s, out), nil
		}

		if l.Refiner == nil {
			out := s.outcome(Exhausted)
			out.Reason = ReasonRefinerDone
			return l.finish(log, s, out), nil
		}
		next, err := l.Refiner.Improve(ctx, slices.Clone(s.keywords), s.relevant, all)
		if IsCannotImprove(next, err) {
			out := s.outcome(Exhausted)
			out.Reason = ReasonRefinerDone
			return l.finish(log, s, out), nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return l.finish(log, s, cancelled(s, ctx.Err())), nil
			}
			return aborted(s, fmt.Errorf("refining query: %w", err))
		}
		s.keywords = cleanKeywords(next)
		ilog.WithField("next", s.keywords).Debug("query refined")
		if l.Observer != nil {
			l.Observer.Refined(slices.Clone(s.keywords))
		}
	}
}

func (l *Loop) validate(keywords []string, target int) error {
	if l.Provider == nil || l.Judge == nil {
		return fmt.Errorf("%w: loop needs a provider and a judge", ErrInvalidInput)
	}
	if len(keywords) == 0 {
		return fmt.Errorf("%w: no keywords", ErrInvalidInput)
	}
	for i, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("%w: keyword %d is blank", ErrInvalidInput, i+1)
		}
	}
	if target < 0 || target > types.PageSize {
		return fmt.Errorf("%w: target %d outside [0, %d]", ErrInvalidInput, target, types.PageSize)
	}
	return nil
}

func (l *Loop) parser() *search.Parser {
	if l.Parser != nil {
		return l.Parser
	}
	return &search.Parser{Log: l.Log}
}

func (l *Loop) logger() logrus.FieldLogger {
	if l.Log != nil {
		return l.Log
	}
	return logger.Log
}

func (l *Loop) finish(log logrus.FieldLogger, s *session, out Outcome) Outcome {
	entry := log.WithField("outcome", out.Kind).WithField("iterations", s.iterations)
	if out.Err != nil {
		entry = entry.WithError(out.Err)
	}
	if out.Reason != "" {
		entry = entry.WithField("reason", out.Reason)
	}
	entry.Info("refinement finished")
	return out
}

func cancelled(s *session, err error) Outcome {
	out := s.outcome(Cancelled)
	out.Err = err
	return out
}

// aborted reports a run stopped by a failing collaborator.
func aborted(s *session, err error) (Outcome, error) {
	out := s.outcome(Exhausted)
	out.Reason = ReasonAborted
	out.Err = err
	return out, err
}

// IsCannotImprove reports whether a refiner's answer means "no better query".
func IsCannotImprove(next []string, err error) bool {
	if errors.Is(err, ErrCannotImprove) {
		return true
	}
	return err == nil && len(cleanKeywords(next)) == 0
}

// cleanKeywords trims keywords and drops blank ones.
func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
