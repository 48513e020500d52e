package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/quiztick/internal/config"
	"github.com/ensigniasec/quiztick/internal/countdown"
	"github.com/ensigniasec/quiztick/internal/cue"
	"github.com/ensigniasec/quiztick/internal/library"
	"github.com/ensigniasec/quiztick/internal/runner"
	"github.com/ensigniasec/quiztick/internal/subject"
	"github.com/ensigniasec/quiztick/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile  = config.DefaultPath
	verbose     bool
	jsonOutput  bool
	subjectFlag string
	customFlag  string
	marksFlag   string
	secondsFlag int

	// cfg is loaded before any command runs.
	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "quiztick",
		Short: "An exam pacing timer that counts down the time budget for a number of marks.",
		Long: `quiztick turns a mark count into a countdown using the per-mark pace of a standardized exam ` +
			`(IB, SAT, ACT) or a custom subject, and cues every mark boundary and the end of the run. ` +
			`Without a subcommand it opens the interactive timer.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadConfig()
		},
		Run: func(cmd *cobra.Command, args []string) {
			runTUI(cmd.Context())
		},
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Path to the YAML config file")

	for _, c := range []*cobra.Command{runCmd, startCmd} {
		c.Flags().StringVarP(&subjectFlag, "subject", "s", "", "Subject id or title (defaults to the configured subject)")
		c.Flags().StringVarP(&marksFlag, "marks", "m", "", "Number of marks to pace")
		c.Flags().StringVar(&customFlag, "custom", "", "Saved custom subject id or title")
	}
	startCmd.Flags().IntVar(&secondsFlag, "seconds", 0, "Per-mark seconds for an unsaved custom subject")
	startCmd.MarkFlagsMutuallyExclusive("custom", "seconds")
	subjectsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output subjects in JSON format instead of rich text")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(subjectsCmd)
	rootCmd.AddCommand(customCmd)

	customCmd.AddCommand(customAddCmd)
	customCmd.AddCommand(customListCmd)
	customCmd.AddCommand(customRemoveCmd)
	customCmd.AddCommand(customResetCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func main() {
	Execute()
}

// loadConfig reads the config file and environment, then sets the log level.
func loadConfig() {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	c, err := config.Load(configFile)
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	cfg = c
	if !verbose {
		logrus.SetLevel(cfg.Level())
	}
}

func openLibrary() *library.Library {
	lib, err := library.Open(cfg.LibraryPath)
	if err != nil {
		logrus.Fatalf("Unable to open custom subjects: %v", err)
	}
	return lib
}

// newEngine builds a countdown engine with the configured cues and counting mode.
func newEngine() *countdown.Engine {
	counting, err := countdown.ParseMarkCounting(cfg.MarkCounting)
	if err != nil {
		logrus.Fatal(err)
	}
	e := countdown.New(
		countdown.WithPlayer(newCuePlayer(cfg.Cues, os.Stderr)),
		countdown.WithMarkCounting(counting),
	)
	logrus.Debugf("countdown engine ready: mark_counting=%s", e.MarkCounting())
	return e
}

// newCuePlayer prefers WAV assets, falls back to the terminal bell per cue,
// and is silent when muted.
func newCuePlayer(c config.CueConfig, bellOut io.Writer) cue.Player {
	var fallback cue.Player = cue.Nop{}
	if c.Bell && !c.Mute {
		fallback = cue.NewBell(bellOut)
	}
	if c.Mark == "" && c.Finish == "" {
		return fallback
	}

	bp, err := cue.NewBeepPlayer(map[cue.Cue]string{cue.Mark: c.Mark, cue.Finish: c.Finish}, cue.WithVolume(c.Volume), cue.WithMute(c.Mute))
	if err != nil {
		logrus.Warnf("Some audio cues are unavailable: %v", err)
	}
	return cue.PlayerFunc(func(k cue.Cue) {
		if bp.Loaded(k) {
			bp.PlayCue(k)
			return
		}
		fallback.PlayCue(k)
	})
}

// resolveSubject picks the subject title and per-mark seconds from flags, falling back to config.
func resolveSubject(lib *library.Library, subjectRef, customRef string, seconds int) (string, int, error) {
	if customRef != "" {
		cs, err := lib.Get(customRef)
		if err != nil {
			return "", 0, err
		}
		perMark, err := subject.DurationForCustom(subject.Custom, &cs)
		return cs.Label(), perMark, err
	}

	var s subject.Subject
	var err error
	switch {
	case subjectRef != "":
		s, err = subject.Parse(subjectRef)
	case seconds > 0:
		s = subject.Custom
	default:
		s, err = cfg.DefaultSubject()
	}
	if err != nil {
		return "", 0, err
	}
	if !s.IsCustom() {
		if seconds > 0 {
			logrus.Warnf("--seconds only applies to custom subjects; using the %s pace", s.Title())
		}
		perMark, err := subject.DurationFor(s, 0)
		return s.Title(), perMark, err
	}
	if seconds <= 0 && cfg.Custom != "" {
		return resolveSubject(lib, "", cfg.Custom, 0)
	}
	perMark, err := subject.DurationFor(s, seconds)
	return s.Title(), perMark, err
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive timer",
	Long:  "Open the full-screen timer. Pick a subject, type the number of marks and press enter to start, pause and resume.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI(cmd.Context())
	},
}

func runTUI(ctx context.Context) {
	lib := openLibrary()

	s, err := cfg.DefaultSubject()
	if subjectFlag != "" {
		s, err = subject.Parse(subjectFlag)
	}
	if err != nil {
		logrus.Fatal(err)
	}
	custom := customFlag
	if custom == "" && s.IsCustom() {
		custom = cfg.Custom
	}

	final, err := tui.Run(ctx, newEngine(), tui.Options{
		Subject: s,
		Custom:  custom,
		Marks:   marksFlag,
		Library: lib.List(),
	})
	if err != nil {
		logrus.Fatalf("TUI mode failed: %v", err)
	}
	logrus.Debugf("timer closed in phase %s at %s", final.Phase(), final.Clock())
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run a countdown in plain output mode",
	Long: "Run a countdown without the full-screen UI, printing one `MM:SS marks=N` line per second. " +
		"Type p and enter to pause or resume, q and enter to stop. Ctrl+C also stops the run.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		lib := openLibrary()
		title, perMark, err := resolveSubject(lib, subjectFlag, customFlag, secondsFlag)
		if err != nil {
			logrus.Fatal(err)
		}

		e := newEngine()
		e.OnEvent(func(ev countdown.Event) {
			logrus.Debugf("%s at %s", ev.Kind, ev.State.Clock())
		})
		if err := e.StartInput(marksFlag, perMark); err != nil {
			logrus.Fatal(err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		s := e.Snapshot()
		fmt.Fprintf(out, "%s: %d marks at %s per mark\n", title, s.Total/s.PerMark, countdown.FormatClock(s.PerMark))
		printState(out, s)

		final, err := runner.Run(ctx, e,
			runner.WithOnTick(func(s countdown.State) { printState(out, s) }),
			runner.WithControl(readControl(ctx, cmd.InOrStdin())),
		)
		switch {
		case err == nil && final.Phase() == countdown.Finished:
			fmt.Fprintln(out, "Time is up.")
		case err == nil, errors.Is(err, context.Canceled):
			fmt.Fprintf(out, "Stopped at %s.\n", final.Clock())
		default:
			logrus.Fatal(err)
		}
	},
}

func printState(w io.Writer, s countdown.State) {
	line := fmt.Sprintf("%s marks=%d", s.Clock(), s.MarksCompleted)
	if s.Phase() == countdown.Paused {
		line += " (paused)"
	}
	fmt.Fprintln(w, line)
}

// readControl turns stdin lines into runner commands. The channel is never
// closed; a closed channel would read as a stream of zero-value commands.
// The reader goroutine stays blocked in Scan after the run ends and exits
// with the process.
func readControl(ctx context.Context, r io.Reader) <-chan runner.Command {
	ch := make(chan runner.Command)
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			var c runner.Command
			switch strings.ToLower(strings.TrimSpace(sc.Text())) {
			case "p", "pause", "resume", "":
				c = runner.Toggle
			case "q", "quit":
				c = runner.Quit
			default:
				continue
			}
			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List the subjects and their per-mark pace",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rows := subjectRows(openLibrary())
		out := cmd.OutOrStdout()
		if jsonOutput {
			data, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				logrus.Fatal(err)
			}
			fmt.Fprintln(out, string(data))
			return
		}
		for _, r := range rows {
			pace := "not set"
			if r.Seconds > 0 {
				pace = countdown.FormatClock(r.Seconds) + " per mark"
			}
			fmt.Fprintf(out, "%-22s %-24s %s\n", r.ID, r.Title, pace)
		}
	},
}

type subjectRow struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Seconds int    `json:"seconds"`
	Custom  bool   `json:"custom"`
}

// subjectRows lists the catalog followed by saved custom subjects.
func subjectRows(lib *library.Library) []subjectRow {
	rows := make([]subjectRow, 0, len(subject.All()))
	for _, s := range subject.All() {
		if s.IsCustom() {
			continue
		}
		secs, _ := subject.DurationFor(s, 0)
		rows = append(rows, subjectRow{ID: string(s), Title: s.Title(), Seconds: secs})
	}
	for _, cs := range lib.List() {
		rows = append(rows, subjectRow{ID: cs.ID, Title: cs.Title, Seconds: cs.Seconds, Custom: true})
	}
	return rows
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var customCmd = &cobra.Command{
	Use:   "custom",
	Short: "Manage saved custom subjects",
	Long:  "View, add, remove or reset the custom subjects offered next to the built-in exam subjects.",
	Run: func(cmd *cobra.Command, args []string) {
		openLibrary().View(cmd.OutOrStdout())
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var customAddCmd = &cobra.Command{
	Use:   "add [TITLE] [SECONDS]",
	Short: "Save a custom subject",
	Long:  "Save a custom subject with its per-mark seconds. Saving an existing title updates it.",
	Args:  cobra.ExactArgs(2), //nolint:mnd // 'add' requires exactly 2 arguments by CLI contract
	Run: func(cmd *cobra.Command, args []string) {
		seconds, err := strconv.Atoi(args[1])
		if err != nil {
			logrus.Fatalf("Invalid seconds %q: expected a whole number of seconds per mark.", args[1])
		}
		cs, err := openLibrary().Add(args[0], seconds)
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s per mark) as %s\n", cs.Title, countdown.FormatClock(cs.Seconds), cs.ID)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var customListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved custom subjects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		openLibrary().View(cmd.OutOrStdout())
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var customRemoveCmd = &cobra.Command{
	Use:   "remove [ID|TITLE]",
	Short: "Remove a saved custom subject",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := openLibrary().Remove(args[0]); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var customResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every saved custom subject",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := openLibrary().Reset(); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Custom subjects cleared")
	},
}
