package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kenbun-app/kenbundata/internal/config"
	"github.com/kenbun-app/kenbundata/internal/logging"
	"github.com/kenbun-app/kenbundata/internal/storage"
	"github.com/kenbun-app/kenbundata/internal/storage/factory"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the kenbun CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kenbun",
		Short: "kenbun - archive URLs, blobs, screenshots and HTTP archives",
		Long: `Store and browse kenbun entities in the configured backend.

The backend is chosen by the storage.kind setting (local_file, postgres or
sqlite), read from --config and KENBUN_* environment variables.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (yaml, json or toml)")

	cmd.AddCommand(NewURLCommand(opts))
	cmd.AddCommand(NewBlobCommand(opts))
	cmd.AddCommand(NewScreenshotCommand(opts))
	cmd.AddCommand(NewHARCommand(opts))

	return cmd
}

// Execute runs the command tree with args and reports failures through the
// output formatter. It returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	format, _ := cmd.PersistentFlags().GetString("format")
	if !slices.Contains(ValidFormats, format) {
		format = "text"
	}
	verbose, _ := cmd.PersistentFlags().GetBool("verbose")

	code, exit := classify(err)
	out := &OutputFormatter{Format: format, Writer: stderr, Verbose: verbose}
	if format != "text" {
		out.Writer = stdout
	}
	_ = out.Error(code, err.Error(), errorDetails(err))
	return exit
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openStorage loads configuration and opens the backend it names. The
// returned func closes the backend and any log file.
func (o *RootOptions) openStorage(ctx context.Context, cmd *cobra.Command) (storage.Storage, func(), error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if o.Verbose {
		cfg.Logging.Level = logrus.DebugLevel.String()
	}
	log, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to configure logging", err)
	}
	if cfg.Logging.Output == "stderr" {
		log.SetOutput(cmd.ErrOrStderr())
	}

	st, err := factory.Open(ctx, cfg.Storage, storage.WithLogger(log))
	if err != nil {
		closeLog()
		return nil, nil, WrapExitError(ExitCommandError, "failed to open storage", err)
	}
	return st, func() {
		if err := st.Close(); err != nil {
			log.WithError(err).Warn("failed to close storage")
		}
		closeLog()
	}, nil
}
