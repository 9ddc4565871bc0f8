// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/pdiddy/search-refiner/pkg/types"
)

// Refiner proposes the next query from the current keywords and the
// judged results of the last search. A refiner with nothing better to offer
// returns ErrCannotImprove (an empty keyword list means the same).
type Refiner interface {
	Improve(ctx context.Context, keywords []string, relevant, all []types.ResultRecord) ([]string, error)
}

// RefinerFunc adapts a function to the Refiner interface.
type RefinerFunc func(ctx context.Context, keywords []string, relevant, all []types.ResultRecord) ([]string, error)

// Improve calls f.
func (f RefinerFunc) Improve(ctx context.Context, keywords []string, relevant, all []types.ResultRecord) ([]string, error) {
	return f(ctx, keywords, relevant, all)
}

// Strategy names accepted by NewRefiner.
const (
	StrategyExpand = "expand"
	StrategyDrop   = "drop"
	StrategyPrompt = "prompt"
)

// DefaultStrategy adds a feedback term first and falls back to dropping
// the least specific keyword.
const DefaultStrategy = StrategyExpand + "," + StrategyDrop

// NewRefiner builds the refiner named by strategy, a single name or a
// comma separated chain. The prompt strategy needs a console.
func NewRefiner(strategy string, console *Console) (Refiner, error) {
	if strings.TrimSpace(strategy) == "" {
		strategy = DefaultStrategy
	}

	var chain Chain
	for _, name := range strings.Split(strategy, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case StrategyExpand:
			chain = append(chain, &ExpandRefiner{})
		case StrategyDrop:
			chain = append(chain, DropRefiner{})
		case StrategyPrompt:
			if console == nil {
				return nil, fmt.Errorf("%w: strategy %q needs an interactive console", ErrInvalidInput, StrategyPrompt)
			}
			chain = append(chain, &PromptRefiner{Console: console})
		default:
			return nil, fmt.Errorf("%w: unknown refinement strategy %q", ErrInvalidInput, name)
		}
	}
	if len(chain) == 1 {
		return chain[0], nil
	}
	return chain, nil
}

// Chain tries each refiner in order and returns the first proposal that
// differs from the current keywords.
type Chain []Refiner

// Improve implements Refiner.
func (c Chain) Improve(ctx context.Context, keywords []string, relevant, all []types.ResultRecord) ([]string, error) {
	for _, r := range c {
		next, err := r.Improve(ctx, keywords, relevant, all)
		if IsCannotImprove(next, err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !slices.Equal(next, keywords) {
			return next, nil
		}
	}
	return nil, ErrCannotImprove
}

// DropRefiner removes the least specific keyword, taken to be the shortest
// (the last one on ties). A single keyword cannot be refined further.
type DropRefiner struct{}

// Improve implements Refiner.
func (DropRefiner) Improve(_ context.Context, keywords []string, _, _ []types.ResultRecord) ([]string, error) {
	if len(keywords) <= 1 {
		return nil, ErrCannotImprove
	}
	drop := 0
	for i, kw := range keywords {
		if len([]rune(kw)) <= len([]rune(keywords[drop])) {
			drop = i
		}
	}
	return slices.Delete(slices.Clone(keywords), drop, drop+1), nil
}

// ExpandRefiner appends the term that best separates relevant results from
// the rest: the term found in the most relevant records, minus the number of
// non-relevant records it also appears in. Only terms with a positive score,
// at least MinLength letters, not stopwords, and not already keywords
// qualify. Ties go to the term seen first.
type ExpandRefiner struct {
	// MinLength is the shortest acceptable term (default 3).
	MinLength int
}

// Improve implements Refiner.
func (r *ExpandRefiner) Improve(_ context.Context, keywords []string, relevant, all []types.ResultRecord) ([]string, error) {
	minLen := r.MinLength
	if minLen <= 0 {
		minLen = 3
	}

	existing := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		for _, t := range terms(kw) {
			existing[t] = true
		}
	}

	isRelevant := make(map[types.ResultRecord]int, len(relevant))
	for _, rec := range relevant {
		isRelevant[rec]++
	}

	score := make(map[string]int)
	var order []string
	for _, rec := range all {
		delta := -1
		if isRelevant[rec] > 0 {
			isRelevant[rec]--
			delta = 1
		}
		for _, t := range recordTerms(rec) {
			if existing[t] || stopwords[t] || len([]rune(t)) < minLen || isNumber(t) {
				continue
			}
			if _, seen := score[t]; !seen {
				order = append(order, t)
			}
			score[t] += delta
		}
	}

	best, bestScore := "", 0
	for _, t := range order {
		if score[t] > bestScore {
			best, bestScore = t, score[t]
		}
	}
	if best == "" {
		return nil, ErrCannotImprove
	}
	return append(slices.Clone(keywords), best), nil
}

// recordTerms returns the distinct terms of a record's title and summary in
// order of first appearance, so each record counts once per term.
func recordTerms(rec types.ResultRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range terms(rec.Title + " " + rec.Summary) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func terms(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var stopwords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`a about above after again all also an and any are as at be
		because been before being below between both but by can could did do does doing down
		during each few for from further had has have having he her here hers him his how i if in
		into is it its itself just more most my no nor not now of off on once only or other our
		out over own same she should so some such than that the their them then there these they
		this those through to too under until up very was we were what when where which while who
		whom why will with would you your www com http https html htm org net`) {
		stopwords[w] = true
	}
}

// PromptRefiner asks the human for the next keywords. A blank answer means
// the user has no better query.
type PromptRefiner struct {
	Console *Console
}

// Improve implements Refiner.
func (r *PromptRefiner) Improve(ctx context.Context, keywords []string, relevant, all []types.ResultRecord) ([]string, error) {
	r.Console.Printf("\n%d of %d result(s) relevant for %q.\n", len(relevant), len(all), strings.Join(keywords, " "))
	line, err := r.Console.Ask(ctx, "refined keywords (blank to stop): ")
	if err != nil {
		return nil, fmt.Errorf("reading keywords: %w", err)
	}
	next := strings.Fields(line)
	if len(next) == 0 {
		return nil, ErrCannotImprove
	}
	return next, nil
}
