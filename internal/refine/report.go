// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatReport writes a human-readable report of out to w: the relevant
// results on success, the reason otherwise, then the per-iteration history.
func FormatReport(out Outcome, w io.Writer) {
	switch out.Kind {
	case Success:
		fmt.Fprintf(w, "Target met: %d of %d relevant (target %d) for %q\n\n",
			len(out.Relevant), lastReturned(out), out.Target, strings.Join(out.Keywords, " "))
		fmt.Fprintf(w, "%-4s  %-50s  %s\n", "#", "Title", "URL")
		fmt.Fprintln(w, strings.Repeat("-", 100))
		for i, r := range out.Relevant {
			fmt.Fprintf(w, "%-4d  %-50s  %s\n", i+1, truncate(r.Title, 50), r.URL)
		}
	case Exhausted:
		fmt.Fprintf(w, "Search exhausted: %s\n", out.Reason)
		if out.Err != nil {
			fmt.Fprintf(w, "Cause: %v\n", out.Err)
		}
	case SearchUnavailable:
		fmt.Fprintf(w, "Search unavailable: %v\n", out.Err)
	case MalformedResponse:
		fmt.Fprintf(w, "Malformed search response: %v\n", out.Err)
	case Cancelled:
		fmt.Fprintln(w, "Search cancelled.")
	}

	if len(out.History) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-4s  %-8s  %-8s  %s\n", "Iter", "Returned", "Relevant", "Keywords")
	for i, it := range out.History {
		fmt.Fprintf(w, "%-4d  %-8d  %-8d  %s\n", i+1, it.Returned, it.Relevant, strings.Join(it.Keywords, " "))
	}
}

// FormatJSON writes out as indented JSON to w.
func FormatJSON(out Outcome, w io.Writer) error {
	type jsonOutcome struct {
		Outcome
		Error string `json:"error,omitempty"`
	}
	v := jsonOutcome{Outcome: out}
	if out.Err != nil {
		v.Error = out.Err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func lastReturned(out Outcome) int {
	if len(out.History) == 0 {
		return 0
	}
	return out.History[len(out.History)-1].Returned
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
