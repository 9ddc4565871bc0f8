package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/search-refiner/internal/refine"
	"github.com/pdiddy/search-refiner/internal/search"
	"github.com/pdiddy/search-refiner/internal/secrets"
	"github.com/pdiddy/search-refiner/pkg/types"
)

const threeResults = `<ysearchresponse><resultset_web>
<result><title>Go generics</title><abstract>Type parameters</abstract><url>https://go.dev/doc/tutorial/generics</url></result>
<result><title>Go spec</title><abstract>Language reference</abstract><url>https://go.dev/ref/spec</url></result>
<result><title>Go board game</title><abstract>Rules</abstract><url>https://example.com/go</url></result>
</resultset_web></ysearchresponse>`

func writeScript(t *testing.T, verdicts ...bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, search.WriteScriptFile(path, &search.ScriptFile{
		Responses: []string{threeResults},
		Verdicts:  verdicts,
	}))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	rootCmd.SilenceUsage = false
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootReplaySuccessJSON(t *testing.T) {
	script := writeScript(t, true, true, false)

	stdout, _, err := execute(t, "--replay", script, "--json", "go", "0.2", "offline")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "success", got["kind"])
	assert.Len(t, got["relevant"], 2)
}

func TestRootReplayExhaustedExitsTwo(t *testing.T) {
	script := writeScript(t, false, false, false)

	stdout, _, err := execute(t, "--replay", script, "--json=false", "go", "0.2", "offline")
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.code)
	assert.Contains(t, stdout, "Search exhausted: "+refine.ReasonNoRelevant)
}

func TestRootRejectsBadArgs(t *testing.T) {
	stdout, _, err := execute(t, "go", "0.3")
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stdout, "Usage:")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "search-refiner dev\n", stdout)
}

func TestBuildLoopRejectsUnknownStrategy(t *testing.T) {
	console := refine.NewConsole(strings.NewReader(""), &bytes.Buffer{})
	_, err := buildLoop(types.Config{Refine: types.RefineConfig{Strategy: "magic"}}, "", console)
	assert.ErrorIs(t, err, refine.ErrInvalidInput)
}

func TestBuildLoopMissingReplayFile(t *testing.T) {
	console := refine.NewConsole(strings.NewReader(""), &bytes.Buffer{})
	_, err := buildLoop(types.Config{}, filepath.Join(t.TempDir(), "missing.yaml"), console)
	assert.Error(t, err)
}

func TestExitFor(t *testing.T) {
	assert.NoError(t, exitFor(refine.Outcome{Kind: refine.Success}))

	var ee *exitError
	require.ErrorAs(t, exitFor(refine.Outcome{Kind: refine.Exhausted}), &ee)
	assert.Equal(t, 2, ee.code)
	require.ErrorAs(t, exitFor(refine.Outcome{Kind: refine.MalformedResponse}), &ee)
	assert.Equal(t, 1, ee.code)
}

func TestRootMissingSecretClientID(t *testing.T) {
	t.Setenv("SEARCH_REFINER_SECRETS_DIR", filepath.Join(t.TempDir(), "none"))
	script := writeScript(t, true)

	_, _, err := execute(t, "--replay", script, "--json=false", "go", "0.1", "-")
	assert.ErrorIs(t, err, secrets.ErrMissing)
}

func TestRootRecordThenReplay(t *testing.T) {
	dir := t.TempDir()
	recorded := filepath.Join(dir, "recorded.yaml")

	// Record a session whose verdicts come from a script.
	stdout, _, err := execute(t, "--replay", writeScript(t, true, false, true), "--record", recorded, "go", "0.2", "offline")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Target met")

	sf, err := search.ReadScriptFile(recorded)
	require.NoError(t, err)
	assert.Equal(t, []string{threeResults}, sf.Responses)
	assert.Equal(t, []bool{true, false, true}, sf.Verdicts)

	stdout, _, err = execute(t, "--replay", recorded, "--json", "go", "0.2", "offline")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"kind": "success"`)
}

func TestRootShowsFeedback(t *testing.T) {
	script := writeScript(t, true, false, false)

	stdout, _, err := execute(t, "--replay", script, "go", "0.1", "offline")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Search 1 parameters:")
	assert.Contains(t, stdout, "Feedback summary:")
	assert.Contains(t, stdout, "desired precision of 0.1 reached")

	stdout, _, err = execute(t, "--quiet", "--replay", script, "go", "0.1", "offline")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Feedback summary:")
}

func TestRootKeywordsAfterDoubleDash(t *testing.T) {
	script := writeScript(t, true, true, true)

	stdout, _, err := execute(t, "--replay", script, "--json", "--", "version", "-fx", "0.1", "offline")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, []any{"version", "-fx"}, got["keywords"])
}
