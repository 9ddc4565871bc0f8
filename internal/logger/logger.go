// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger configures the process-wide logrus logger. Logs go to
// stderr so that stdout carries only prompts and reports.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// LineFormatter renders entries as "[time] [LEVL] message key=value ...".
type LineFormatter struct{}

// Format implements logrus.Formatter.
func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s", entry.Time.Format("2006-01-02 15:04:05"), level, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// Init sets the level and output of Log. An unknown level falls back to info.
// A nil writer means stderr.
func Init(levelStr string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	Log.SetFormatter(&LineFormatter{})
	Log.SetOutput(w)

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}

// Discard returns a logger that drops everything. Tests and library callers
// that do not care about logs use it.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
