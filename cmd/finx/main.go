package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/komsit37/finx/pkg/finx/config"
	"github.com/komsit37/finx/pkg/finx/logx"
	"github.com/komsit37/finx/pkg/finx/render"
	"github.com/komsit37/finx/pkg/finx/report"
	"github.com/komsit37/finx/pkg/finx/server"
)

// env carries the process edges so commands can be run in tests.
type env struct {
	stdout io.Writer
	stderr io.Writer
	// build wires the assembler from configuration.
	build func(cfg *config.Config, logger *log.Logger) *report.Assembler
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(env{stdout: os.Stdout, stderr: os.Stderr, build: newAssembler})
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	env
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	logger     *log.Logger
}

func newRootCmd(e env) *cobra.Command {
	c := &cli{env: e, v: viper.New()}
	var latestIndices bool

	root := &cobra.Command{
		Use:   "finx <symbol> [price|financials|quarterly]",
		Short: "Extract filtered financial data for a symbol as JSON",
		Long: "finx fetches company financials, quarterly results, price snapshots and\n" +
			"market index quotes, keeps a fixed set of fields and prints one document.",
		Args: func(cmd *cobra.Command, args []string) error {
			if latestIndices {
				return nil
			}
			if len(args) < 1 || len(args) > 2 {
				return errors.New("requires a symbol and an optional report (price, financials, quarterly), or --get-latest-indices")
			}
			return nil
		},
		SilenceUsage:      true,
		PersistentPreRunE: c.load,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.build(c.cfg, c.logger)
			if latestIndices {
				return c.emit(a.Run(cmd.Context(), report.OpIndices, ""))
			}
			symbol := args[0]
			selector := ""
			if len(args) > 1 {
				selector = args[1]
			}
			op, ok := report.ParseOperation(selector)
			if !ok {
				c.logger.Warn().Str("report", selector).Msg("unknown report, using financials")
			}
			if op == report.OpIndices {
				return c.emit(a.Run(cmd.Context(), op, ""))
			}
			return c.emit(a.Run(cmd.Context(), op, symbol))
		},
	}
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (yaml)")
	pf.String("format", "json", "output format: json, yaml, table or syms")
	pf.Bool("pretty", false, "indent json output")
	pf.Bool("color", false, "colorize table output")
	pf.String("log-level", "info", "diagnostic log level on stderr")
	_ = c.v.BindPFlag("output.format", pf.Lookup("format"))
	_ = c.v.BindPFlag("output.pretty", pf.Lookup("pretty"))
	_ = c.v.BindPFlag("output.color", pf.Lookup("color"))
	_ = c.v.BindPFlag("log.level", pf.Lookup("log-level"))

	root.Flags().BoolVar(&latestIndices, "get-latest-indices", false, "print the market index snapshot")

	root.AddCommand(c.indicesCmd(), c.serveCmd())
	return root
}

func (c *cli) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.v, c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logx.NewWriter(c.stderr, cfg.Log.Level)
	return nil
}

func (c *cli) indicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indices",
		Short: "Print the market index snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.build(c.cfg, c.logger)
			return c.emit(a.Run(cmd.Context(), report.OpIndices, ""))
		},
	}
	cmd.Flags().String("file", "", "YAML file listing indices (name, symbol)")
	cmd.Flags().Int("concurrency", 1, "indices fetched at once")
	_ = c.v.BindPFlag("indices.file", cmd.Flags().Lookup("file"))
	_ = c.v.BindPFlag("indices.concurrency", cmd.Flags().Lookup("concurrency"))
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.build(c.cfg, c.logger)
			h := server.NewRouter(a, server.Options{
				RateLimit: c.cfg.Server.RateLimit,
				Logger:    c.logger,
			})
			return server.Run(cmd.Context(), c.cfg.Server.Addr, h, c.logger)
		},
	}
	cmd.Flags().String("addr", ":5003", "listen address")
	cmd.Flags().Int("rate-limit", 60, "requests per minute per client IP, 0 to disable")
	_ = c.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = c.v.BindPFlag("server.rate_limit", cmd.Flags().Lookup("rate-limit"))
	return cmd
}

// emit writes doc to stdout in the configured format.
func (c *cli) emit(doc any) error {
	r, err := render.For(c.cfg.Output.Format)
	if err != nil {
		return err
	}
	width, tty := terminal()
	opts := render.Options{
		Pretty: c.cfg.Output.Pretty,
		Color:  c.cfg.Output.Color || (tty && c.cfg.Output.Format == "table"),
	}
	if width > 0 {
		opts.MaxColWidth = width / 3
	}
	if err := r.Render(c.stdout, doc, opts); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
