// Package cli implements the bondmap command tree.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	appmapping "github.com/turtacn/bondmap/internal/application/mapping"
	"github.com/turtacn/bondmap/internal/config"
	domain "github.com/turtacn/bondmap/internal/domain/mapping"
	"github.com/turtacn/bondmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/bondmap/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/bondmap/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	MetricsFile  string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Service      appmapping.Service
	Collector    prometheus.MetricsCollector
	OutputFormat string
	Verbose      bool
	NoColor      bool
	MetricsFile  string
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bondmap",
		Short: "bondmap builds pre/post-reaction atom maps for LAMMPS fix bond/react",
		Long: "bondmap reads the pre- and post-reaction structures of a LAMMPS reaction,\n" +
			"pairs every pre-reaction atom with its post-reaction counterpart and writes\n" +
			"the molecule and map files used by fix bond/react.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./bondmap.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "", "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics to this node_exporter textfile")

	cmd.AddCommand(
		NewMapCmd(),
		NewMoleculeCmd(),
		NewPartialCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "bondmap %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}

// persistentPreRun initializes config, logger, metrics and the service, then
// stores a CLIContext on the command.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := initConfig(opts)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "config initialization failed")
	}
	if opts.OutputFormat != "" {
		cfg.Output.Format = opts.OutputFormat
	}
	if opts.MetricsFile != "" {
		cfg.Metrics.Textfile = opts.MetricsFile
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid settings")
	}

	debug := false
	if f := cmd.Flags().Lookup("debug"); f != nil {
		debug = f.Value.String() == "true"
	}
	logger, err := initLogger(cfg, opts, debug)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "logger initialization failed")
	}

	var collector prometheus.MetricsCollector
	var metrics *prometheus.MappingMetrics
	if cfg.Metrics.Textfile != "" {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace: cfg.Metrics.Namespace,
		}, logger)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "metrics initialization failed")
		}
		metrics = prometheus.NewMappingMetrics(collector)
	}
	color.NoColor = color.NoColor || opts.NoColor

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Service:      appmapping.NewService(serviceOptions(cfg), logger, metrics),
		Collector:    collector,
		OutputFormat: cfg.Output.Format,
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor,
		MetricsFile:  cfg.Metrics.Textfile,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

func serviceOptions(cfg *config.Config) appmapping.Options {
	return appmapping.Options{
		Engine: domain.Options{
			MaxRounds:      cfg.Mapping.MaxRounds,
			InnerPasses:    cfg.Mapping.InnerPasses,
			AllowInference: cfg.Mapping.AllowInference,
		},
		Analyze:     cfg.Partial.Enabled,
		CutDistance: cfg.Partial.CutDistance,
		MapFile:     cfg.Output.MapFile,
	}
}

// initConfig loads configuration with priority: flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	searchPaths := []string{"./bondmap.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".bondmap", "config.yaml"))
	}
	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			return config.Load(p)
		}
	}

	return config.LoadFromEnv()
}

// initLogger creates a logger configured for CLI usage. Logs go to stderr so
// stdout carries only command results.
func initLogger(cfg *config.Config, opts *RootOptions, debug bool) (logging.Logger, error) {
	logCfg := cfg.Log
	if opts.LogLevel != "" {
		logCfg.Level = strings.ToLower(opts.LogLevel)
	}
	if opts.Verbose || debug {
		logCfg.Level = logging.LevelDebug
	}
	return logging.NewLogger(logCfg)
}

// runWithMetrics runs fn and then writes the metrics textfile, when one is
// configured, whether fn failed or not. fn's error takes precedence.
func runWithMetrics(cmd *cobra.Command, fn func() error) error {
	err := fn()
	if ferr := flushMetrics(cmd); err == nil {
		err = ferr
	}
	return err
}

func flushMetrics(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil || cliCtx.Collector == nil || cliCtx.MetricsFile == "" {
		return nil
	}
	if err := cliCtx.Collector.WriteTextfile(cliCtx.MetricsFile); err != nil {
		return errors.Wrap(err, errors.ErrCodeIO, "cannot write metrics")
	}
	cliCtx.Logger.Debug("metrics written", logging.String("file", cliCtx.MetricsFile))
	return nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.InvalidParam("command context is nil")
	}

	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.InvalidParam("CLIContext not found in command context")
	}

	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}

	return nil
}

// tableProvider is implemented by results that render as a table.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult outputs data in the format specified by CLIContext.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return printJSON(cmd, data)
	}

	switch strings.ToLower(cliCtx.OutputFormat) {
	case "json":
		return printJSON(cmd, data)
	case "table":
		return printTable(cmd, data)
	default:
		return printText(cmd, data)
	}
}

// printJSON outputs data as indented JSON to stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// printText outputs data as a simple string representation to stdout.
func printText(cmd *cobra.Command, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	case fmt.Stringer:
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
	return nil
}

// printTable outputs data as a table if it implements tableProvider,
// otherwise falls back to text.
func printTable(cmd *cobra.Command, data interface{}) error {
	if tp, ok := data.(tableProvider); ok {
		fmt.Fprint(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows()))
		return nil
	}
	return printText(cmd, data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// PrintWarning writes a highlighted warning to stderr.
func PrintWarning(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.YellowString("Warning:"), msg)
}

// FormatTable renders headers and rows with tablewriter.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(headers)
	table.AppendBulk(rows)
	table.Render()
	return buf.String()
}
