// ckbjs runs JavaScript against mock CKB transactions, with the CKB syscalls
// bound as globals.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/colorfulnotion/ckbjs/common"
	"github.com/colorfulnotion/ckbjs/glue"
	log "github.com/colorfulnotion/ckbjs/log"
	"github.com/colorfulnotion/ckbjs/runner"
	"github.com/colorfulnotion/ckbjs/txstore"
	"github.com/colorfulnotion/ckbjs/types"
	"github.com/dop251/goja"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel     string
		debug        string
		otlpEndpoint string
		shutdown     func(context.Context) error
	)

	var rootCmd = &cobra.Command{
		Use:     "ckbjs",
		Short:   "Run JavaScript against mock CKB transactions",
		Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.InitLoggerTo(cmd.ErrOrStderr(), logLevel, true); err != nil {
				return err
			}
			log.EnableModules(debug)
			if otlpEndpoint != "" {
				var err error
				shutdown, err = setupTracing(cmd.Context(), otlpEndpoint)
				if err != nil {
					return fmt.Errorf("otlp exporter: %w", err)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if shutdown == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return shutdown(ctx)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&debug, "debug", "", "Debug modules to enable (glue_mod,ckb_mod,runner_mod,store_mod or all)")
	rootCmd.PersistentFlags().StringVar(&otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP endpoint for run spans (e.g. localhost:4318)")

	rootCmd.AddCommand(newRunCmd(), newConsoleCmd(), newInspectCmd(), newImportCmd(), newDiffCmd())
	return rootCmd
}

func addSourceFlags(cmd *cobra.Command, src *txSource) {
	cmd.Flags().StringVar(&src.txPath, "tx", "", "Mock transaction JSON file")
	cmd.Flags().StringVar(&src.storePath, "store", "", "Transaction store directory")
	cmd.Flags().StringVar(&src.hash, "hash", "", "Transaction hash to load from --store")
	cmd.Flags().StringVar(&src.group, "group", "lock", "Script group to run as (lock or type)")
	cmd.Flags().StringVar(&src.side, "side", "input", "For type groups, whether --index is an input or an output")
	cmd.Flags().IntVar(&src.index, "index", 0, "Cell index selecting the script group")
}

func addRunnerFlags(cmd *cobra.Command, cfg *runner.Config) {
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Abort the script after this long (0 disables)")
	cmd.Flags().Uint64Var(&cfg.Glue.MaxBufferSize, "max-buffer", cfg.Glue.MaxBufferSize, "Largest buffer a load may request")
	cmd.Flags().Int64Var(&cfg.RandSeed, "seed", cfg.RandSeed, "Seed for Math.random")
}

func newRunCmd() *cobra.Command {
	var src txSource
	cfg := runner.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "run <script.js>",
		Short: "Run a script as the selected script group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			env, _, err := src.env()
			if err != nil {
				return err
			}
			r, err := runner.New(env, cfg)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := r.Run(ctx, args[0], string(code))
			if err != nil {
				return err
			}
			exit, ok := res.ExitCode()
			if !ok {
				return fmt.Errorf("script returned %v, want an exit code in [-128, 127]", res.Value)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exit code %d (%s)\n", exit, res.Duration)
			if exit != 0 {
				return fmt.Errorf("script exited with %d", exit)
			}
			return nil
		},
	}
	addSourceFlags(cmd, &src)
	addRunnerFlags(cmd, &cfg)
	return cmd
}

func newConsoleCmd() *cobra.Command {
	var (
		src     txSource
		history string
		plain   bool
	)
	cfg := runner.DefaultConfig()
	cfg.Timeout = 0
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive JavaScript console over a mock transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, mtx, err := src.env()
			if err != nil {
				return err
			}
			r, err := runner.New(env, cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			vm := r.Runtime()
			vm.Set("print", func(args ...goja.Value) {
				for _, arg := range args {
					fmt.Fprintln(out, arg.String())
				}
			})

			rl, err := readline.NewEx(&readline.Config{
				Prompt:      "ckb> ",
				HistoryFile: history,
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			fmt.Fprintf(out, "tx %s, %s group of %s\n", mtx.Tx.Hash().String_short(), src.group, src.side)
			fmt.Fprintf(out, "globals: %s\n", strings.Join(glue.Names(), ", "))
			for {
				line, err := rl.Readline()
				if err != nil {
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" {
					return nil
				}
				v, err := r.Eval(cmd.Context(), line)
				if err != nil {
					fmt.Fprintln(out, common.Colorize(err.Error(), common.ColorRed, plain))
					continue
				}
				fmt.Fprintln(out, common.Colorize(formatValue(v), common.ColorGreen, plain))
			}
		},
	}
	addSourceFlags(cmd, &src)
	addRunnerFlags(cmd, &cfg)
	cmd.Flags().StringVar(&history, "history", "/tmp/ckbjs_console_history.txt", "Readline history file")
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors")
	return cmd
}

// formatValue prints ArrayBuffers as hex and everything else as JavaScript
// would.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if ab, ok := v.Export().(goja.ArrayBuffer); ok {
		return fmt.Sprintf("ArrayBuffer(%d) 0x%x", len(ab.Bytes()), ab.Bytes())
	}
	return v.String()
}

func newInspectCmd() *cobra.Command {
	var src txSource
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a mock transaction as a tree, or list a store",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if src.storePath != "" && src.hash == "" && src.txPath == "" {
				store, err := txstore.Open(src.storePath)
				if err != nil {
					return err
				}
				defer store.Close()
				hashes, err := store.List()
				if err != nil {
					return err
				}
				for _, h := range hashes {
					fmt.Fprintln(out, h.Hex())
				}
				return nil
			}
			mtx, err := src.load()
			if err != nil {
				return err
			}
			fmt.Fprint(out, mtx.ToTree().String())
			return nil
		},
	}
	addSourceFlags(cmd, &src)
	return cmd
}

func newImportCmd() *cobra.Command {
	var storePath string
	cmd := &cobra.Command{
		Use:   "import <fixture.json>...",
		Short: "Store mock transactions under their hashes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := txstore.Open(storePath)
			if err != nil {
				return err
			}
			defer store.Close()
			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()
			for _, path := range args {
				mtx, err := types.ReadMockTransaction(path)
				if err != nil {
					return err
				}
				h, err := store.Put(mtx)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(w, "%s %s\n", h.Hex(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&storePath, "store", "", "Transaction store directory")
	cmd.MarkFlagRequired("store")
	return cmd
}
