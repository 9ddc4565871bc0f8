package main

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// errUsage marks command-line mistakes; cobra prints the usage text for them.
var errUsage = errors.New("usage")

// precisionPattern accepts a precision of the form 0.D.
var precisionPattern = regexp.MustCompile(`^0\.\d$`)

// runArgs are the positional arguments of a run.
type runArgs struct {
	Keywords []string
	Target   int
	ClientID string
}

// parseArgs splits args into keywords, precision and client ID. Precision
// 0.D becomes a target of D relevant results out of a page of 10.
func parseArgs(args []string) (runArgs, error) {
	if len(args) < 3 {
		return runArgs{}, fmt.Errorf("%w: need at least one keyword, a precision and a client ID (got %d argument(s))", errUsage, len(args))
	}
	n := len(args)
	precision, clientID := args[n-2], args[n-1]

	if !precisionPattern.MatchString(precision) {
		return runArgs{}, fmt.Errorf("%w: precision %q must look like 0.D, e.g. 0.3", errUsage, precision)
	}
	if strings.TrimSpace(clientID) == "" {
		return runArgs{}, fmt.Errorf("%w: client ID is empty", errUsage)
	}

	keywords := make([]string, 0, n-2)
	for _, kw := range args[:n-2] {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return runArgs{}, fmt.Errorf("%w: keywords are blank", errUsage)
	}

	return runArgs{
		Keywords: keywords,
		Target:   int(precision[2] - '0'),
		ClientID: clientID,
	}, nil
}

// validateArgs is the cobra.PositionalArgs check for the root command.
func validateArgs(_ *cobra.Command, args []string) error {
	_, err := parseArgs(args)
	return err
}
