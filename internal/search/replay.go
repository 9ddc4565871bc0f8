// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ScriptFile is a recorded session on disk: the raw responses a provider
// returned, in order, and optionally the verdicts a judge gave, in order.
// It lets a refinement run be replayed offline.
type ScriptFile struct {
	Responses []string `yaml:"responses"`
	Verdicts  []bool   `yaml:"verdicts,omitempty"`
}

// ReadScriptFile loads a script file from disk.
func ReadScriptFile(path string) (*ScriptFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script file: %w", err)
	}
	var sf ScriptFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing script file %s: %w", path, err)
	}
	return &sf, nil
}

// WriteScriptFile saves sf as YAML.
func WriteScriptFile(path string, sf *ScriptFile) error {
	data, err := yaml.Marshal(sf)
	if err != nil {
		return fmt.Errorf("marshaling script file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReplayProvider answers each Search with the next recorded response,
// ignoring the keywords. Running past the last response is reported as an
// unavailable provider.
type ReplayProvider struct {
	responses []string
	next      int
	queries   [][]string
}

// NewReplayProvider returns a provider serving responses in order.
func NewReplayProvider(responses []string) *ReplayProvider {
	return &ReplayProvider{responses: responses}
}

// Search returns the next recorded response.
func (p *ReplayProvider) Search(ctx context.Context, keywords []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	p.queries = append(p.queries, append([]string(nil), keywords...))
	if p.next >= len(p.responses) {
		return "", fmt.Errorf("%w: no recorded response for query %d", ErrUnavailable, p.next+1)
	}
	raw := p.responses[p.next]
	p.next++
	return raw, nil
}

// Queries returns the keyword lists Search was called with, in order.
func (p *ReplayProvider) Queries() [][]string {
	return p.queries
}

// Recorder passes searches to Provider and keeps every response it
// returns. Together with the verdicts given, the responses form a
// ScriptFile that ReplayProvider can serve later.
type Recorder struct {
	Provider  Provider
	responses []string
}

// Search implements Provider. Failed searches are not recorded.
func (r *Recorder) Search(ctx context.Context, keywords []string) (string, error) {
	raw, err := r.Provider.Search(ctx, keywords)
	if err != nil {
		return "", err
	}
	r.responses = append(r.responses, raw)
	return raw, nil
}

// Responses returns the recorded responses in order.
func (r *Recorder) Responses() []string {
	return r.responses
}
