package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"logsift/internal/balance"
	"logsift/internal/config"
	"logsift/internal/eslint"
	"logsift/internal/history"
	"logsift/internal/jsonextract"
	"logsift/internal/lintreport"
	"logsift/internal/logfilter"
	"logsift/internal/logging"
	"logsift/internal/ruff"
	"logsift/internal/textenc"
	"logsift/internal/types"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once the root flags are parsed.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	quiet      bool
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "logsift",
		Short: "logsift - post-process build and lint tool output",
		Long: `logsift cleans up and summarizes the output of build and lint tools:
extract the JSON array from a noisy lint dump, pull error lines out of a
compiler log, summarize an ESLint or ruff report, and check bracket balance
in a source file.`,
		Version:           VERSION,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to configuration file (default: .logsift.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&a.quiet, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(a.cleanJSONCmd())
	rootCmd.AddCommand(a.errorsCmd())
	rootCmd.AddCommand(a.summaryCmd())
	rootCmd.AddCommand(a.reportCmd())
	rootCmd.AddCommand(a.balanceCmd())
	rootCmd.AddCommand(a.configCmd())
	rootCmd.AddCommand(a.versionCmd())

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.noColor {
		color.NoColor = true
	}

	logCfg := logging.DefaultConfig()
	if a.verbose {
		logCfg = logging.VerboseConfig()
	}
	logCfg.Output = a.stderr
	a.logger = logging.New(logCfg)

	if a.configPath != "" {
		cfg, err := config.LoadConfigFromFile(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", a.configPath, err)
		}
		a.cfg = cfg
		return nil
	}

	cfg, file, err := config.LoadConfig()
	if err != nil {
		a.logger.Warn("failed to load config, using defaults", "file", file, "error", err)
		cfg = config.NewConfig()
	} else if file != "" {
		a.logger.Debug("using config file", "file", file)
	}
	a.cfg = cfg
	return nil
}

func (a *app) cleanJSONCmd() *cobra.Command {
	var in, out string
	var encodings []string

	cmd := &cobra.Command{
		Use:   "clean-json",
		Short: "Extract the JSON array from a noisy lint report",
		Long: `Decode the input with the first candidate encoding whose text contains '[',
then write everything from the first '[' to the last ']' to the output file
as UTF-8. Input that already is a clean JSON array is copied unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("in") {
				in = a.cfg.ReportFile
			}
			if !cmd.Flags().Changed("out") {
				out = a.cfg.CleanOutput
			}
			if !cmd.Flags().Changed("encodings") {
				encodings = a.cfg.Encodings
			}

			reader := textenc.NewReader(
				textenc.WithEncodings(encodings...),
				textenc.WithMarker("["),
				textenc.WithLogger(a.logger),
			)

			result, err := jsonextract.Clean(in, out, reader)
			if err != nil {
				return err
			}

			if !result.Valid {
				a.logger.Warn("extracted payload is not valid JSON", "path", out)
				fmt.Fprintln(a.stdout, color.YellowString("⚠️  Payload was cut heuristically and does not parse as JSON"))
			}
			if !a.quiet {
				fmt.Fprintf(a.stdout, "%s Cleaned JSON written to %s (%s, %s)\n",
					color.GreenString("✅"), out, result.Method, result.Encoding)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Input file (default from config: lint_results.json)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default from config: lint_results_clean.json)")
	cmd.Flags().StringSliceVar(&encodings, "encodings", nil, "Candidate encodings in trial order")
	return cmd
}

func (a *app) errorsCmd() *cobra.Command {
	var file string
	var robust bool

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Print the error lines of a build log",
		Long: `Print every line of the log containing "error" in any case or the token "TS".
With --robust, undecodable bytes are replaced instead of trying other
encodings, only "error" is matched, and the number of matches is printed first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("file") {
				file = a.cfg.LogFile
			}

			if robust {
				lines, err := logfilter.Robust(file, a.cfg.ErrorPattern)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Found %s lines containing %q\n",
					color.RedString("%d", len(lines)), a.cfg.ErrorPattern)
				printLines(a.stdout, lines)
				return nil
			}

			reader := textenc.NewReader(
				textenc.WithEncodings(a.cfg.Encodings...),
				textenc.WithAccept(logfilter.HasLines),
				textenc.WithLogger(a.logger),
			)
			lines, err := logfilter.Simple(file, reader, logfilter.SimpleMatcher(a.cfg.ErrorPattern, a.cfg.Token))
			if err != nil {
				return err
			}
			printLines(a.stdout, lines)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Log file to scan (default from config: build.log)")
	cmd.Flags().BoolVar(&robust, "robust", false, "Replace undecodable bytes and report a match count")
	return cmd
}

func printLines(w io.Writer, lines []logfilter.Line) {
	for _, line := range lines {
		fmt.Fprintln(w, line.Text)
	}
}

func (a *app) reportOptions() lintreport.Options {
	return lintreport.Options{
		TopN:        a.cfg.TopN,
		MaxMessages: a.cfg.MaxMessages,
		TruncateAt:  a.cfg.TruncateAt,
		SkipFile:    a.cfg.ShouldIgnoreFile,
		SkipRule:    a.cfg.ShouldIgnoreRule,
	}
}

func loadReport(format, path string) ([]types.LintEntry, error) {
	switch strings.ToLower(format) {
	case "", "eslint":
		return eslint.LoadReport(path)
	case "ruff":
		return ruff.LoadReport(path)
	default:
		return nil, fmt.Errorf("unknown report format %q (want eslint or ruff)", format)
	}
}

func (a *app) summaryCmd() *cobra.Command {
	var in, format, rule, logDir string
	var top int
	var logHistory bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the files with the most lint errors",
		Long: `Print the files with errors, most errors first, with their first error
messages. Files with the same error count keep their report order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("in") {
				in = a.cfg.ReportFile
			}
			if !cmd.Flags().Changed("log-dir") {
				logDir = a.cfg.LogDir
			}

			if cmd.Flags().Changed("top") && top <= 0 {
				return fmt.Errorf("--top must be positive, got %d", top)
			}

			entries, err := loadReport(format, in)
			if err != nil {
				return err
			}

			opts := a.reportOptions()
			if cmd.Flags().Changed("top") {
				opts.TopN = top
			}
			opts.Rule = rule

			summary := lintreport.Summarize(entries, opts)
			if rule != "" && len(summary) == 0 {
				fmt.Fprintf(a.stdout, "No errors for rule %s.\n", color.YellowString(rule))
				if suggestions := lintreport.SuggestRules(entries, rule); len(suggestions) > 0 {
					fmt.Fprintf(a.stdout, "Did you mean: %s\n", strings.Join(suggestions, ", "))
				}
				return nil
			}

			lintreport.WriteSummary(a.stdout, summary)

			if logHistory {
				path, err := history.WriteSummaryCSV(logDir, summary, time.Now())
				if err != nil {
					return fmt.Errorf("failed to log summary: %w", err)
				}
				if !a.quiet {
					fmt.Fprintf(a.stdout, "✅ Summary logged to %s\n", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Lint report (default from config: lint_results.json)")
	cmd.Flags().StringVar(&format, "format", "eslint", "Report format: eslint or ruff")
	cmd.Flags().IntVar(&top, "top", 10, "Number of files to show")
	cmd.Flags().StringVar(&rule, "rule", "", "Only show messages for this rule id")
	cmd.Flags().BoolVar(&logHistory, "log-history", false, "Also write the summary to a timestamped CSV file")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "Directory for summary CSV files (default from config: .logsift/history)")
	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	var in, out, format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write every lint message to a plain-text report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("in") {
				in = a.cfg.ReportFile
			}
			if !cmd.Flags().Changed("out") {
				out = a.cfg.TextReport
			}

			entries, err := loadReport(format, in)
			if err != nil {
				return err
			}
			flat := lintreport.Flatten(entries, a.reportOptions())

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create report %s: %w", out, err)
			}
			defer file.Close()

			var bar *progressbar.ProgressBar
			if !a.quiet {
				bar = newProgressBar(a.stderr, len(flat), "Writing report")
			}

			var progress lintreport.Progress
			if bar != nil {
				progress = bar
			}
			if err := lintreport.WriteTextReport(file, flat, progress); err != nil {
				return fmt.Errorf("failed to write report %s: %w", out, err)
			}
			if bar != nil {
				_ = bar.Finish()
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("failed to write report %s: %w", out, err)
			}

			if !a.quiet {
				fmt.Fprintf(a.stdout, "%s Report for %d files written to %s\n", color.GreenString("✅"), len(flat), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Lint report (default from config: lint_results.json)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default from config: lint_report.txt)")
	cmd.Flags().StringVar(&format, "format", "eslint", "Report format: eslint or ruff")
	return cmd
}

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (a *app) balanceCmd() *cobra.Command {
	var openTag, closeTag string

	cmd := &cobra.Command{
		Use:   "balance FILE",
		Short: "Check bracket balance in a source file",
		Long: `Count (), [] and {} through FILE and report the first closer without an
opener, or the net count left at the end. Brackets in strings and comments
are counted too.

The tag check only compares how often the open and close tag tokens occur.
It is a heuristic and says nothing about nesting.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return &ExitError{Code: 1}
			}
			if !cmd.Flags().Changed("open-tag") {
				openTag = a.cfg.OpenTag
			}
			if !cmd.Flags().Changed("close-tag") {
				closeTag = a.cfg.CloseTag
			}

			reader := textenc.NewReader(
				textenc.WithEncodings(a.cfg.Encodings...),
				textenc.WithLogger(a.logger),
			)
			decoded, err := reader.ReadFile(args[0])
			if err != nil {
				return err
			}

			failed := false
			for _, result := range balance.CheckAll(decoded.Text) {
				if result.OK {
					fmt.Fprintf(a.stdout, "%s %s\n", color.GreenString("✅"), result.Message)
					continue
				}
				failed = true
				fmt.Fprintf(a.stdout, "%s %s\n", color.RedString("❌"), result.Message)
			}

			tags := balance.CountTags(decoded.Text, openTag, closeTag)
			status := color.GreenString("match")
			if !tags.Balanced() {
				status = color.YellowString("mismatch")
			}
			fmt.Fprintf(a.stdout, "Tag count (heuristic): %s, %s\n", tags, status)

			if failed {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&openTag, "open-tag", "", "Opening tag token to count (default from config: <div)")
	cmd.Flags().StringVar(&closeTag, "close-tag", "", "Closing tag token to count (default from config: </div>)")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	var generate bool
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration or generate a sample file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if generate {
				if err := config.GenerateConfigFile(output); err != nil {
					return fmt.Errorf("failed to generate config file: %w", err)
				}
				fmt.Fprintf(a.stdout, "✅ Generated configuration file: %s\n", output)
				return nil
			}
			a.cfg.PrintSummary(a.stdout)
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "Write a sample configuration file")
	cmd.Flags().StringVar(&output, "output", ".logsift.yaml", "Where --generate writes the sample")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			showVersion(a.stdout)
		},
	}
}
