// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/search-refiner/pkg/types"
)

// Judge decides whether a single result is relevant to the user's intent.
type Judge interface {
	Judge(ctx context.Context, rec types.ResultRecord) (bool, error)
}

// JudgeFunc adapts a function to the Judge interface.
type JudgeFunc func(ctx context.Context, rec types.ResultRecord) (bool, error)

// Judge calls f.
func (f JudgeFunc) Judge(ctx context.Context, rec types.ResultRecord) (bool, error) {
	return f(ctx, rec)
}

// PromptJudge shows each record on a Console and asks a human for a
// yes/no verdict, asking again until the answer is recognizable.
type PromptJudge struct {
	Console *Console
	shown   int
}

// NewPromptJudge returns a judge prompting on c.
func NewPromptJudge(c *Console) *PromptJudge {
	return &PromptJudge{Console: c}
}

// Judge prompts for rec. End of input is an error.
func (j *PromptJudge) Judge(ctx context.Context, rec types.ResultRecord) (bool, error) {
	j.shown++
	j.Console.ShowRecord(j.shown, rec)
	for {
		answer, err := j.Console.Ask(ctx, "    relevant? [y/n] ")
		if err != nil {
			return false, fmt.Errorf("reading verdict: %w", err)
		}
		if v, ok := parseVerdict(answer); ok {
			return v, nil
		}
		j.Console.Printf("    please answer y or n\n")
	}
}

// Reset restarts record numbering, called at the start of each iteration.
func (j *PromptJudge) Reset() {
	j.shown = 0
}

func parseVerdict(s string) (verdict, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}

// ScriptedJudge returns precomputed verdicts in order. It records every
// record it was asked about.
type ScriptedJudge struct {
	verdicts []bool
	next     int
	seen     []types.ResultRecord
}

// NewScriptedJudge returns a judge answering with verdicts in order.
func NewScriptedJudge(verdicts ...bool) *ScriptedJudge {
	return &ScriptedJudge{verdicts: verdicts}
}

// Judge returns the next verdict, or ErrScriptExhausted.
func (j *ScriptedJudge) Judge(_ context.Context, rec types.ResultRecord) (bool, error) {
	j.seen = append(j.seen, rec)
	if j.next >= len(j.verdicts) {
		return false, fmt.Errorf("%w after %d verdict(s)", ErrScriptExhausted, len(j.verdicts))
	}
	v := j.verdicts[j.next]
	j.next++
	return v, nil
}

// Seen returns the records judged so far, in call order.
func (j *ScriptedJudge) Seen() []types.ResultRecord {
	return j.seen
}

// Remaining returns the number of unused verdicts.
func (j *ScriptedJudge) Remaining() int {
	return len(j.verdicts) - j.next
}

// RecordingJudge passes each record to Inner and keeps the verdicts it
// returns, so a session can be saved and replayed with a ScriptedJudge.
type RecordingJudge struct {
	Inner    Judge
	verdicts []bool
}

// Judge implements Judge. Failed judgements are not recorded.
func (j *RecordingJudge) Judge(ctx context.Context, rec types.ResultRecord) (bool, error) {
	v, err := j.Inner.Judge(ctx, rec)
	if err != nil {
		return v, err
	}
	j.verdicts = append(j.verdicts, v)
	return v, nil
}

// Reset forwards to Inner when it numbers records per iteration.
func (j *RecordingJudge) Reset() {
	if r, ok := j.Inner.(resetter); ok {
		r.Reset()
	}
}

// Verdicts returns the recorded verdicts in call order.
func (j *RecordingJudge) Verdicts() []bool {
	return j.verdicts
}
