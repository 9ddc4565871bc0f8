// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/pdiddy/search-refiner/pkg/types"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	urlStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Underline(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// Console is the human side of an interactive session. The prompt judge and
// the prompt refiner share one Console so they read from a single buffered
// input.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	styled bool

	// pending holds a read abandoned by a cancelled Ask; the next Ask
	// receives its line.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewConsole wraps in and out. Styling is enabled when out is a terminal.
func NewConsole(in io.Reader, out io.Writer) *Console {
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return &Console{in: bufio.NewReader(in), out: out, styled: styled}
}

func (c *Console) style(s lipgloss.Style, text string) string {
	if !c.styled {
		return text
	}
	return s.Render(text)
}

// ShowRecord prints one record as a numbered block.
func (c *Console) ShowRecord(n int, rec types.ResultRecord) {
	title := rec.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(c.out, "\n[%d] %s\n    %s\n", n, c.style(titleStyle, title), c.style(urlStyle, rec.URL))
	if s := strings.TrimSpace(rec.Summary); s != "" {
		fmt.Fprintf(c.out, "    %s\n", c.style(faintStyle, s))
	}
}

// Ask prints prompt and returns the next input line without its line ending.
// A final line without a newline is returned; EOF with nothing read is
// io.ErrUnexpectedEOF. Ask returns ctx.Err() as soon as ctx is done, even
// while waiting for input.
func (c *Console) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, c.style(promptStyle, prompt))

	if c.pending == nil {
		ch := make(chan readResult, 1)
		c.pending = ch
		go func() {
			line, err := c.in.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}()
	}

	var r readResult
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case r = <-c.pending:
		c.pending = nil
	}

	line, err := r.line, r.err
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Printf writes to the console output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
