// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"fmt"
	"strings"

	"github.com/pdiddy/search-refiner/pkg/types"
)

// Observer follows the progress of a run. Loop calls it synchronously from
// the goroutine running the loop.
type Observer interface {
	// Searching is called before each search.
	Searching(iteration int, keywords []string, target int)
	// Judged is called once every record of a page has a verdict.
	Judged(it Iteration, target int)
	// Refined is called with the keywords of the next search.
	Refined(next []string)
}

// Feedback prints progress on a Console: the search parameters before each
// search and a precision summary after each judged page.
type Feedback struct {
	Console *Console
	// ClientID is printed as given; callers mask it.
	ClientID string
	// RequestURL, when set, shows the URL a search will fetch.
	RequestURL func(keywords []string) string
}

// Searching implements Observer.
func (f *Feedback) Searching(iteration int, keywords []string, target int) {
	c := f.Console
	c.Printf("\n%s\n", c.style(titleStyle, fmt.Sprintf("Search %d parameters:", iteration)))
	if f.ClientID != "" {
		c.Printf("  client key = %s\n", f.ClientID)
	}
	c.Printf("  query      = %s\n", strings.Join(keywords, " "))
	c.Printf("  precision  = %s\n", Precision(target))
	if f.RequestURL != nil {
		c.Printf("  url        = %s\n", c.style(urlStyle, f.RequestURL(keywords)))
	}
}

// Judged implements Observer.
func (f *Feedback) Judged(it Iteration, target int) {
	c := f.Console
	c.Printf("\n%s\n", c.style(titleStyle, "Feedback summary:"))
	c.Printf("  query      = %s\n", strings.Join(it.Keywords, " "))
	c.Printf("  relevant   = %d of %d\n", it.Relevant, it.Returned)
	c.Printf("  precision  = %s\n", Precision(it.Relevant))
	if it.Relevant >= target {
		c.Printf("  desired precision of %s reached\n", Precision(target))
		return
	}
	c.Printf("  still below the desired precision of %s\n", Precision(target))
}

// Refined implements Observer.
func (f *Feedback) Refined(next []string) {
	f.Console.Printf("  augmenting query to: %s\n", strings.Join(next, " "))
}

// Precision renders a relevant count as a fraction of a full page, e.g. 3
// as "0.3".
func Precision(relevant int) string {
	return fmt.Sprintf("%.1f", float64(relevant)/float64(types.PageSize))
}
