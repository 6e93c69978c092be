package main

import (
	"context"
	"fmt"
	"github.com/aidansteele/lcireport"
	"github.com/aidansteele/lcireport/config"
	"github.com/aidansteele/lcireport/failure"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"io"
	"net/url"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
)

var (
	version = "unknown" // set by goreleaser
)

type buildInfo struct {
	version string
	commit  string
	date    string
}

func readBuildInfo() buildInfo {
	commit := "unknown"
	date := "unknown"

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				commit = setting.Value
			} else if setting.Key == "vcs.time" {
				date = setting.Value
			}
		}
	}

	return buildInfo{
		version: version,
		commit:  commit,
		date:    date,
	}
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// usageError is reported as a bare message, before anything touches the
// network.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(stderr, ue.msg)
		fmt.Fprintf(stderr, "Usage: %s\n", root.UseLine())
		return 1
	}

	printFailure(stderr, err)
	return 1
}

type options struct {
	configPath string
	server     string
	logLevel   string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "lcireport <messageId>",
		Short:         "Print what LCI knows about a message",
		Args:          messageIdArg,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			messageId, _ := parseMessageId(args[0])
			return report(cmd.Context(), opts, messageId, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML config file")
	cmd.PersistentFlags().StringVar(&opts.server, "server", "", "LCI host name (overrides config and LCI_SERVER)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides config and LCI_LOG_LEVEL)")

	// "help" is just another invalid message id; --help still prints usage.
	cmd.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return messageIdArg(cmd, append([]string{"help"}, args...))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &usageError{msg: err.Error()}
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			info := readBuildInfo()
			fmt.Fprintf(stdout, `
version: %s
commit: %s
build date: %s
`, info.version, info.commit, info.date)
		},
	})

	return cmd
}

func messageIdArg(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) < 1:
		return &usageError{msg: "Missing message ID command line argument."}
	case len(args) > 1:
		return &usageError{msg: "Only one command line argument is allowed: message ID"}
	}

	_, err := parseMessageId(args[0])
	return err
}

// parseMessageId accepts surrounding whitespace and a single leading "+".
func parseMessageId(arg string) (uint32, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(arg), "+")
	id, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return 0, &usageError{msg: fmt.Sprintf("Invalid message ID %q: must be an unsigned 32-bit integer", arg)}
	}
	return uint32(id), nil
}

func report(ctx context.Context, opts *options, messageId uint32, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	if opts.server != "" {
		cfg.Server = opts.server
	}
	if opts.logLevel != "" {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
	}

	if err := cfg.Validate(); err != nil {
		return &usageError{msg: err.Error()}
	}

	log := newLogger(stderr, cfg.LogLevel)
	log.Debug().Str("server", cfg.Server).Uint32("messageId", messageId).Msg("starting report")

	lci := lcireport.New(lcireport.NewHttpClient(), cfg.BaseUrl(), log)
	return lcireport.NewReport(lci, stdout).Run(ctx, messageId)
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#E06C75"))

func printFailure(w io.Writer, err error) {
	header := "Report failed with message:"
	if isWebError(err) {
		header = "Web request failed with message:"
	}

	fmt.Fprintf(w, "%s \n%+v\n", styleHeader(w, header), err)

	if body, ok := failure.Body(err); ok {
		fmt.Fprintf(w, "\nResponse: \n%s\n", body)
	}
}

// styleHeader only colours the header when w is a terminal, so redirected
// stderr stays free of escape codes whatever stdout is attached to.
func styleHeader(w io.Writer, header string) string {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return header
	}
	return headerStyle.Render(header)
}

func isWebError(err error) bool {
	var se *failure.StatusError
	var ue *url.Error
	return errors.As(err, &se) || errors.As(err, &ue)
}
