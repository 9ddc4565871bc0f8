package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/search-refiner/internal/logger"
	"github.com/pdiddy/search-refiner/internal/refine"
	"github.com/pdiddy/search-refiner/internal/search"
	"github.com/pdiddy/search-refiner/internal/secrets"
	"github.com/pdiddy/search-refiner/pkg/types"
)

func init() {
	f := rootCmd.Flags()
	f.String("endpoint", "", "search provider base URL")
	f.String("proxy-host", "", "forward proxy host (empty means direct)")
	f.Int("proxy-port", 0, "forward proxy port (default 8080 when a host is set)")
	f.String("strategy", "", `refinement strategy: expand, drop, prompt, or a chain such as "expand,drop"`)
	f.Int("max-iterations", 0, "maximum number of searches per run")
	f.String("replay", "", "serve search responses, and verdicts if present, from a YAML script file")
	f.String("record", "", "save the search responses and verdicts of this run to a YAML script file")
	f.Bool("quiet", false, "do not print search parameters and feedback summaries")
	f.Bool("json", false, "print the outcome as JSON")

	v := viper.GetViper()
	setDefaults(v)
	for flag, key := range flagKeys {
		_ = v.BindPFlag(key, f.Lookup(flag))
	}
}

func runRefine(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	ra, err := parseArgs(args)
	if err != nil {
		return err
	}

	level := viper.GetString("log.level")
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger.Init(level, cmd.ErrOrStderr())

	cfg := loadConfig(viper.GetViper())
	cfg.Search.AppID, err = secrets.Resolve(ra.ClientID, viper.GetString("secrets.dir"), secrets.AppIDKey)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	replay, _ := cmd.Flags().GetString("replay")
	record, _ := cmd.Flags().GetString("record")
	quiet, _ := cmd.Flags().GetBool("quiet")

	// With --json, stdout carries only the JSON document.
	var prompts io.Writer = cmd.OutOrStdout()
	if jsonOutput {
		prompts = cmd.ErrOrStderr()
	}
	console := refine.NewConsole(cmd.InOrStdin(), prompts)

	loop, err := buildLoop(cfg, replay, console)
	if err != nil {
		return err
	}
	if quiet {
		loop.Observer = nil
	}
	var rec *recording
	if record != "" {
		rec = startRecording(loop)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// A second interrupt kills the process the usual way.
	context.AfterFunc(ctx, stop)

	out, err := loop.Run(ctx, ra.Keywords, ra.Target)
	if rec != nil {
		if serr := rec.save(record); serr != nil {
			logger.Log.WithError(serr).Error("saving session recording")
		} else {
			logger.Log.WithField("file", record).Info("session recorded")
		}
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := refine.FormatJSON(out, cmd.OutOrStdout()); err != nil {
			return err
		}
	} else {
		refine.FormatReport(out, cmd.OutOrStdout())
	}
	return exitFor(out)
}

// buildLoop wires the provider, judge and refiner for a run. A replay
// script replaces the network provider, and its verdicts, when present,
// replace the interactive judge.
func buildLoop(cfg types.Config, replay string, console *refine.Console) (*refine.Loop, error) {
	var (
		provider search.Provider
		judge    refine.Judge = refine.NewPromptJudge(console)
	)
	feedback := &refine.Feedback{Console: console}
	if replay != "" {
		sf, err := search.ReadScriptFile(replay)
		if err != nil {
			return nil, err
		}
		provider = search.NewReplayProvider(sf.Responses)
		if len(sf.Verdicts) > 0 {
			judge = refine.NewScriptedJudge(sf.Verdicts...)
		}
	} else {
		xp := search.NewXMLProvider(cfg.Search)
		provider = xp
		feedback.ClientID = secrets.Mask(cfg.Search.AppID)
		feedback.RequestURL = xp.DisplayURL
	}

	refiner, err := refine.NewRefiner(cfg.Refine.Strategy, console)
	if err != nil {
		return nil, err
	}

	return &refine.Loop{
		Provider:      provider,
		Parser:        &search.Parser{Log: logger.Log},
		Judge:         judge,
		Refiner:       refiner,
		MaxIterations: cfg.Refine.MaxIterations,
		Observer:      feedback,
		Log:           logger.Log,
	}, nil
}

// recording captures what a run's provider returned and its judge decided.
type recording struct {
	provider *search.Recorder
	judge    *refine.RecordingJudge
}

// startRecording wraps the provider and judge of loop.
func startRecording(loop *refine.Loop) *recording {
	r := &recording{
		provider: &search.Recorder{Provider: loop.Provider},
		judge:    &refine.RecordingJudge{Inner: loop.Judge},
	}
	loop.Provider = r.provider
	loop.Judge = r.judge
	return r
}

// save writes the recording as a script file for --replay.
func (r *recording) save(path string) error {
	return search.WriteScriptFile(path, &search.ScriptFile{
		Responses: r.provider.Responses(),
		Verdicts:  r.judge.Verdicts(),
	})
}

// exitFor maps an outcome to the process exit status: nil on success,
// 2 when exhausted, 1 otherwise.
func exitFor(out refine.Outcome) error {
	switch out.Kind {
	case refine.Success:
		return nil
	case refine.Exhausted:
		return &exitError{code: 2, msg: out.Summary()}
	default:
		return &exitError{code: 1, msg: out.Summary()}
	}
}
