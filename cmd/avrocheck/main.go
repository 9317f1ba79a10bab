package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openbindings/avrocheck-go/compat"
	"github.com/openbindings/avrocheck-go/internal/config"
	"github.com/openbindings/avrocheck-go/internal/runner"
	"github.com/openbindings/avrocheck-go/lint"
)

var (
	// Version information
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	var (
		configPath  string
		verbose     bool
		codecCheck  bool
		noLint      bool
		concurrency int
		modeFlag    string

		cfg    *config.Config
		logger *zap.SugaredLogger
		// failed is set by commands whose checks did not pass.
		failed bool
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	newRunner := func(cmd *cobra.Command) *runner.Runner {
		opts := runner.Options{
			Extension:       cfg.Extension,
			Concurrency:     cfg.Concurrency,
			CodecCheck:      cfg.CodecCheck,
			Lint:            cfg.LintEnabled(),
			LintOptions:     []lint.Option{lint.WithDisabled(cfg.Lint.Disable...)},
			ValidateOptions: cfg.ValidateOptions(),
		}
		if cmd.Flags().Changed("codec-check") {
			opts.CodecCheck = codecCheck
		}
		if cmd.Flags().Changed("concurrency") {
			opts.Concurrency = concurrency
		}
		if noLint {
			opts.Lint = false
		}
		return runner.New(cmd.OutOrStdout(), logger, opts)
	}

	mode := func(cmd *cobra.Command) (compat.Mode, error) {
		if cmd.Flags().Changed("mode") {
			return compat.ParseMode(modeFlag)
		}
		return cfg.CompatMode(), nil
	}

	validate := func(cmd *cobra.Command, args []string) error {
		dir := cfg.SchemaDir
		if len(args) > 0 {
			dir = args[0]
		}
		ok, err := newRunner(cmd).ValidateDir(ctx, dir)
		if err != nil {
			return err
		}
		failed = !ok
		return nil
	}

	rootCmd := &cobra.Command{
		Use:   "avrocheck [dir]",
		Short: "Validate Avro schemas and check schema evolution",
		Long: `avrocheck validates Avro schema files (.avsc) for correctness, reports evolution
best-practice warnings and checks compatibility between schema versions.

Without a subcommand it validates every schema in dir (default ./schemas).`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, gitCommit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Debugw("configuration loaded", "path", configPath, "schemaDir", cfg.SchemaDir, "mode", cfg.Mode)
			return nil
		},
		RunE: validate,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	addValidateFlags := func(cmd *cobra.Command) {
		cmd.Flags().BoolVar(&codecCheck, "codec-check", false, "Also build each schema with the goavro codec")
		cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of files checked in parallel")
		cmd.Flags().BoolVar(&noLint, "no-lint", false, "Do not print best-practice warnings")
	}
	addValidateFlags(rootCmd)

	validateCmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Validate every schema file in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validate,
	}
	addValidateFlags(validateCmd)

	compatCmd := &cobra.Command{
		Use:   "compat <reader.avsc> <writer.avsc>",
		Short: "Check whether a reader schema can read data written with a writer schema",
		Long: `Check two schema files under a compatibility mode.

BACKWARD: the reader (new) schema reads data written with the writer (old) schema.
FORWARD:  the writer (old) schema reads data written with the reader (new) schema.
FULL:     both. NONE: always compatible.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mode(cmd)
			if err != nil {
				return err
			}
			ok, err := newRunner(cmd).ComparePair(args[0], args[1], m)
			if err != nil {
				return err
			}
			failed = !ok
			return nil
		},
	}
	compatCmd.Flags().StringVarP(&modeFlag, "mode", "m", string(compat.Backward), "Compatibility mode")

	historyCmd := &cobra.Command{
		Use:   "history [dir]",
		Short: "Check <subject>@<version> schema files against their earlier versions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mode(cmd)
			if err != nil {
				return err
			}
			dir := cfg.SchemaDir
			if len(args) > 0 {
				dir = args[0]
			}
			ok, err := newRunner(cmd).History(ctx, dir, m)
			if err != nil {
				return err
			}
			failed = !ok
			return nil
		},
	}
	historyCmd.Flags().StringVarP(&modeFlag, "mode", "m", string(compat.Backward), "Compatibility mode")

	lintCmd := &cobra.Command{
		Use:   "lint <file>...",
		Short: "Print best-practice warnings for schema files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed = !newRunner(cmd).LintFiles(args, lint.WithDisabled(cfg.Lint.Disable...))
			return nil
		},
	}

	fingerprintCmd := &cobra.Command{
		Use:   "fingerprint <file>...",
		Short: "Print the Parsing Canonical Form and fingerprints of schema files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed = !newRunner(cmd).Fingerprint(args)
			return nil
		},
	}

	var dump bool
	inspectCmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a parsed schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := runner.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			if dump {
				spew.Fdump(out, doc)
				return nil
			}
			b, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode schema: %w", err)
			}
			fmt.Fprintln(out, string(b))
			return nil
		},
	}
	inspectCmd.Flags().BoolVar(&dump, "dump", false, "Dump the parsed tree instead of the schema JSON")

	rootCmd.AddCommand(validateCmd, compatCmd, historyCmd, lintCmd, fingerprintCmd, inspectCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)

	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if failed {
		return 1
	}
	return 0
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
