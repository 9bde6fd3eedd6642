package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-httpmessage/internal/config"
)

// app carries what every command needs once flags are applied.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	format string
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:          "httpmsg",
		Short:        "Inspect HTTP messages and CGI requests",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console or json)")
	flags.String("env-file", "", "dotenv file with default CGI variables")
	flags.Int64("max-body", 0, "largest accepted request body in bytes")
	flags.String("upload-dir", "", "directory for uploaded files")
	flags.StringVarP(&a.format, "output", "o", "json", "dump format (json or yaml)")

	cmd.AddCommand(newParseCmd(a), newCGICmd(a), newVersionCmd())
	return cmd
}

// configure loads the environment config, lets changed flags override it
// and builds the logger.
func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("env-file") {
		cfg.EnvFile, _ = flags.GetString("env-file")
	}
	if flags.Changed("max-body") {
		cfg.MaxBody, _ = flags.GetInt64("max-body")
	}
	if flags.Changed("upload-dir") {
		cfg.UploadDir, _ = flags.GetString("upload-dir")
	}

	switch a.format {
	case "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", a.format)
	}

	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// dump writes v in the selected output format.
func (a *app) dump(w io.Writer, v any) error {
	if a.format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
