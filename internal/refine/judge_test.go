// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/search-refiner/pkg/types"
)

var goRecord = types.ResultRecord{
	Title:   "The Go Programming Language",
	URL:     "https://go.dev/",
	Summary: "Build simple, secure, scalable systems with Go.",
}

func TestPromptJudgeAcceptsAnswers(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" n \n", false},
		{"No\r\n", false},
		{"y", true},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			j := NewPromptJudge(NewConsole(strings.NewReader(tt.input), &out))
			got, err := j.Judge(context.Background(), goRecord)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptJudgeShowsRecordAndReprompts(t *testing.T) {
	var out bytes.Buffer
	j := NewPromptJudge(NewConsole(strings.NewReader("maybe\n\ny\n"), &out))

	got, err := j.Judge(context.Background(), goRecord)
	require.NoError(t, err)
	assert.True(t, got)

	text := out.String()
	assert.Contains(t, text, "[1] The Go Programming Language")
	assert.Contains(t, text, "https://go.dev/")
	assert.Contains(t, text, "Build simple, secure, scalable systems with Go.")
	assert.Equal(t, 3, strings.Count(text, "relevant? [y/n]"))
	assert.Equal(t, 2, strings.Count(text, "please answer y or n"))
	// A buffer is not a terminal, so no ANSI styling.
	assert.NotContains(t, text, "\x1b[")
}

func TestPromptJudgeNumbersRecordsPerIteration(t *testing.T) {
	var out bytes.Buffer
	j := NewPromptJudge(NewConsole(strings.NewReader("y\nn\ny\n"), &out))

	_, err := j.Judge(context.Background(), goRecord)
	require.NoError(t, err)
	_, err = j.Judge(context.Background(), types.ResultRecord{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[2] (untitled)")

	j.Reset()
	out.Reset()
	_, err = j.Judge(context.Background(), goRecord)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[1] ")
}

func TestPromptJudgeEOF(t *testing.T) {
	var out bytes.Buffer
	j := NewPromptJudge(NewConsole(strings.NewReader(""), &out))
	_, err := j.Judge(context.Background(), goRecord)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestPromptJudgeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	j := NewPromptJudge(NewConsole(strings.NewReader("y\n"), &out))
	_, err := j.Judge(ctx, goRecord)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptJudgeCancelledWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	var out bytes.Buffer
	j := NewPromptJudge(NewConsole(pr, &out))

	done := make(chan error, 1)
	go func() {
		_, err := j.Judge(ctx, goRecord)
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Judge still blocked after the context was cancelled")
	}
}

func TestConsoleKeepsLineOfCancelledAsk(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	c := NewConsole(pr, &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// A done context never starts a read.
	_, err := c.Ask(ctx, "? ")
	require.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Ask(ctx, "? ")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() { _, _ = pw.Write([]byte("late answer\n")) }()

	line, err := c.Ask(context.Background(), "? ")
	require.NoError(t, err)
	assert.Equal(t, "late answer", line)
}

func TestScriptedJudge(t *testing.T) {
	j := NewScriptedJudge(true, false)

	v, err := j.Judge(context.Background(), goRecord)
	require.NoError(t, err)
	assert.True(t, v)
	assert.Equal(t, 1, j.Remaining())

	v, err = j.Judge(context.Background(), goRecord)
	require.NoError(t, err)
	assert.False(t, v)

	_, err = j.Judge(context.Background(), goRecord)
	assert.ErrorIs(t, err, ErrScriptExhausted)
	assert.Len(t, j.Seen(), 3)
}

func TestJudgeFunc(t *testing.T) {
	j := JudgeFunc(func(_ context.Context, rec types.ResultRecord) (bool, error) {
		return strings.Contains(rec.URL, "go.dev"), nil
	})
	v, err := j.Judge(context.Background(), goRecord)
	require.NoError(t, err)
	assert.True(t, v)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		in          string
		verdict, ok bool
	}{
		{"y", true, true},
		{"Yes", true, true},
		{"n", false, true},
		{"NO", false, true},
		{"", false, false},
		{"yep", false, false},
	}
	for _, tt := range tests {
		v, ok := parseVerdict(tt.in)
		assert.Equal(t, tt.verdict, v, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}
