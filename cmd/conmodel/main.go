// Command conmodel is the thin CLI wiring over the learn/select/
// shift-learn pipeline (spec.md §6, out of scope beyond minimal
// wiring per SPEC_FULL.md §5 Non-goals): it reads a pool's
// include/exclude/type files, drives command.Tool's command strings
// against it, and persists the learner.System between invocations.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/monolearn/conmodel/command"
	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/pool"
)

func main() {
	var debug, jsonLogs bool

	root := &cobra.Command{
		Use:   "conmodel",
		Short: "Generate LP/SAT/clause constraint models separating an INCLUDE set from an EXCLUDE set",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logrus.InfoLevel
			if debug {
				level = logrus.DebugLevel
			}
			logging.Configure(level, jsonLogs)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit structured JSON logs instead of text")

	root.AddCommand(newLearnCmd(), newSelectCmd(), newShiftLearnCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildPool reads {prefix}include, {prefix}exclude, {prefix}type and
// constructs the corresponding pool.Pool, mirroring ToolMILP.main's
// type_good dispatch.
func buildPool(prefix string) (*pool.Pool, error) {
	include, err := readPointSet(prefix + "include")
	if err != nil {
		return nil, err
	}
	exclude, err := readPointSet(prefix + "exclude")
	if err != nil {
		return nil, err
	}
	typ, err := readType(prefix + "type")
	if err != nil {
		return nil, err
	}

	var opts []pool.Option
	switch strings.ToLower(typ.TypeGood) {
	case "upper":
		opts = append(opts, pool.WithType(pool.TypeUpper))
	case "lower":
		opts = append(opts, pool.WithType(pool.TypeLower))
	case "explicit":
		// TypeGeneric is the zero value; no option needed.
	default:
		return nil, fmt.Errorf("%stype: unknown type_good %q", prefix, typ.TypeGood)
	}

	return pool.New(exclude, include, opts...)
}

func sysfilePath(prefix string) string { return prefix + "ineq.system.gz" }

// loadSystemIfPresent restores a previously saved learner.System so
// repeated `learn`/`shift-learn` invocations resume instead of
// starting over (spec.md §3 "Lifecycle").
func loadSystemIfPresent(p *pool.Pool, prefix string) error {
	f, err := os.Open(sysfilePath(prefix))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return p.System.Load(f)
}

func saveSystem(p *pool.Pool, prefix string) error {
	f, err := os.Create(sysfilePath(prefix))
	if err != nil {
		return err
	}
	defer f.Close()
	return p.System.Save(f)
}

func newLearnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "learn <prefix> [commands...]",
		Short: "Drive the learner to completeness over a pool (AutoSimple/AutoShifts by default)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, commands := args[0], args[1:]
			p, err := buildPool(prefix)
			if err != nil {
				return err
			}
			if err := loadSystemIfPresent(p, prefix); err != nil {
				return err
			}

			if len(commands) == 0 {
				if p.IsUpper {
					commands = command.AutoSimple
				} else {
					commands = command.AutoShifts
				}
			}

			tool := command.NewTool(p, prefix+"ineq.")
			ctx := context.Background()
			for _, c := range commands {
				if err := tool.RunCommandString(ctx, c); err != nil {
					return err
				}
			}
			return saveSystem(p, prefix)
		},
	}
}

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <prefix> [commands...]",
		Short: "Finalize the learner frontier and run subset-cover selection (AutoSelect by default)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, commands := args[0], args[1:]
			p, err := buildPool(prefix)
			if err != nil {
				return err
			}
			f, err := os.Open(sysfilePath(prefix))
			if err != nil {
				return fmt.Errorf("select requires a prior `learn` run: %w", err)
			}
			loadErr := p.System.Load(f)
			f.Close()
			if loadErr != nil {
				return loadErr
			}
			if err := p.Finalize(); err != nil {
				return err
			}

			if len(commands) == 0 {
				commands = []string{"AutoSelect"}
			}

			tool := command.NewTool(p, prefix+"ineq.")
			ctx := context.Background()
			for _, c := range commands {
				if err := tool.RunCommandString(ctx, c); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newShiftLearnCmd() *cobra.Command {
	var threads int
	cmd := &cobra.Command{
		Use:   "shift-learn <prefix>",
		Short: "Decompose a non-monotone pool into per-origin subpools, learn each, and select a subset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := args[0]
			p, err := buildPool(prefix)
			if err != nil {
				return err
			}
			if err := loadSystemIfPresent(p, prefix); err != nil {
				return err
			}

			tool := command.NewTool(p, prefix+"ineq.")
			ctx := context.Background()
			for _, c := range []string{
				"AutoChain",
				fmt.Sprintf("ShiftLearn:threads=%d", threads),
				"AutoSelect",
			} {
				if err := tool.RunCommandString(ctx, c); err != nil {
					return err
				}
			}
			return saveSystem(p, prefix)
		},
	}
	cmd.Flags().IntVar(&threads, "threads", 4, "parallel workers for shift-learn's per-origin sub-pools")
	return cmd
}
