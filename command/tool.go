package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/monolearn/conmodel/internal/logging"
	"github.com/monolearn/conmodel/oracle"
	"github.com/monolearn/conmodel/pool"
	"github.com/monolearn/conmodel/shiftlearn"
	"github.com/monolearn/conmodel/strategy"
	"github.com/monolearn/conmodel/subsetcover"
)

var log = logging.For("command")

// AutoSimple, AutoChainCmds, AutoShifts, AutoSmall, AutoMedium, AutoLarge
// are the built-in command chains run by their corresponding Tool
// methods, ported verbatim (as command strings) from
// optimodel/tool/milp.py and optimodel/tool/constraint_base.py. None
// of them ever invoke SubsetGreedy (SPEC_FULL.md §4 item 5: the greedy
// selector is reinstated but never default).
var (
	AutoSimple = []string{
		"Learn:LevelLearn,levels_lower=3",
		"Learn:GainanovSAT,sense=min,save_rate=100",
		"AutoSelect",
	}
	AutoChainCmds = []string{
		"Chain:LevelLearn,levels_lower=3",
		"Chain:GainanovSAT,sense=min,save_rate=100",
	}
	AutoShifts = []string{
		"AutoChain",
		"ShiftLearn:threads=7",
		"AutoSelect",
	}
	AutoSmall = []string{
		"SubsetMILP:",
	}
	AutoMedium = []string{
		"SubsetWriteGecco:",
		"SubsetSCS:largeneighborhoodsearch_2,timeout=10",
		"SubsetSCS:localsearch_rowweighting,timeout=10",
		"SubsetSCS:greedy,timeout=10",
		"SubsetMILP:",
	}
	AutoLarge = []string{
		"SubsetWriteGecco:",
		"SubsetSCS:largeneighborhoodsearch_2,timeout=10",
		"SubsetSCS:localsearch_rowweighting,timeout=10",
		"SubsetSCS:greedy,timeout=10",
		"SubsetSCS:localsearch_rowweighting_2,timeout=300",
		"SubsetSCS:largeneighborhoodsearch_2,timeout=300",
		"SubsetMILP:",
	}
)

// ChainStep is one accumulated (module, args, kwargs) step recorded by
// the Chain command, replayed later against every shift-learn origin
// subpool (SPEC_FULL.md §4 item 2, ported from tool/milp.py's
// Chain/AutoChain).
type ChainStep struct {
	Module string
	Args   []string
	KWArgs map[string]string
}

// Tool is the command dispatcher binding a pool.Pool to a
// subsetcover.Selector and (optionally) an external set-covering
// solver binary, driving them via RunCommandString (spec.md §6).
type Tool struct {
	Pool     *pool.Pool
	Selector *subsetcover.Selector

	// ExternalBinary names the external set-covering solver invoked by
	// SubsetSCS; empty disables it (logged and skipped, not an error).
	ExternalBinary string

	OutputPrefix string

	Chain []ChainStep

	geccoWritten string
	metaWritten  string
}

// NewTool builds a Tool over p, reporting results through a
// subsetcover.Selector rooted at outputPrefix.
func NewTool(p *pool.Pool, outputPrefix string) *Tool {
	return &Tool{
		Pool:         p,
		Selector:     subsetcover.NewSelector(outputPrefix),
		OutputPrefix: outputPrefix,
	}
}

// RunCommandString parses and dispatches one "Method:args" command,
// logging its name and elapsed time (ported from BaseTool.run_command_string).
func (t *Tool) RunCommandString(ctx context.Context, cmd string) error {
	pc := ParseMethod(cmd)
	log.WithField("method", pc.Method).WithField("args", pc.Args).
		WithField("kwargs", pc.KWArgs).Info("command: running")

	fn, ok := dispatch[pc.Method]
	if !ok {
		return fmt.Errorf("command: unknown method %q", pc.Method)
	}
	t0 := time.Now()
	err := fn(t, ctx, pc)
	log.WithField("method", pc.Method).WithField("seconds", time.Since(t0).Seconds()).
		Info("command: finished")
	return err
}

var dispatch = map[string]func(*Tool, context.Context, ParsedCommand) error{
	"AutoSimple":       (*Tool).autoSimple,
	"AutoChain":        (*Tool).autoChain,
	"AutoShifts":       (*Tool).autoShifts,
	"AutoSelect":       (*Tool).autoSelect,
	"AutoSmall":        (*Tool).autoSmall,
	"AutoMedium":       (*Tool).autoMedium,
	"AutoLarge":        (*Tool).autoLarge,
	"Chain":            (*Tool).chainAppend,
	"Learn":            (*Tool).learn,
	"ShiftLearn":       (*Tool).runShiftLearn,
	"SubsetWriteGecco": (*Tool).subsetWriteGecco,
	"SubsetMILP":       (*Tool).subsetMILP,
	"SubsetSCS":        (*Tool).subsetSCS,
}

func (t *Tool) runAll(ctx context.Context, cmds []string) error {
	for _, cmd := range cmds {
		if err := t.RunCommandString(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tool) autoSimple(ctx context.Context, _ ParsedCommand) error { return t.runAll(ctx, AutoSimple) }
func (t *Tool) autoChain(ctx context.Context, _ ParsedCommand) error {
	return t.runAll(ctx, AutoChainCmds)
}
func (t *Tool) autoShifts(ctx context.Context, _ ParsedCommand) error { return t.runAll(ctx, AutoShifts) }
func (t *Tool) autoSmall(ctx context.Context, _ ParsedCommand) error  { return t.runAll(ctx, AutoSmall) }
func (t *Tool) autoMedium(ctx context.Context, _ ParsedCommand) error { return t.runAll(ctx, AutoMedium) }
func (t *Tool) autoLarge(ctx context.Context, _ ParsedCommand) error  { return t.runAll(ctx, AutoLarge) }

// autoSelect picks AutoSmall/AutoMedium/AutoLarge by instance size,
// ported from ConstraintTool.AutoSelect's n_sets/n_vars thresholds.
// A pool that is not yet finalized is finalized first.
func (t *Tool) autoSelect(ctx context.Context, pc ParsedCommand) error {
	cs, err := t.Pool.Constraints()
	if errors.Is(err, pool.ErrNotFinalized) {
		if err := t.Pool.Finalize(); err != nil {
			return err
		}
		cs, err = t.Pool.Constraints()
	}
	if err != nil {
		return err
	}
	nSets := len(cs)
	nVars := len(t.Pool.Exclude)
	param := nSets
	if nVars < param {
		param = nVars
	}
	log.WithField("n_sets", nSets).WithField("n_vars", nVars).Info("command: AutoSelect")

	switch {
	case param < 400:
		log.Info("command: using AutoSmall preset")
		return t.autoSmall(ctx, pc)
	case param < 1500:
		log.Info("command: using AutoMedium preset")
		return t.autoMedium(ctx, pc)
	default:
		log.Info("command: using AutoLarge preset")
		return t.autoLarge(ctx, pc)
	}
}

// chainAppend records "Chain:Module,arg1,key=value" for later replay
// by ShiftLearn's learn_chain, mirroring ToolMILP.Chain.
func (t *Tool) chainAppend(_ context.Context, pc ParsedCommand) error {
	if len(pc.Args) == 0 {
		return fmt.Errorf("command: Chain requires a module name")
	}
	t.Chain = append(t.Chain, ChainStep{
		Module: pc.Args[0],
		Args:   pc.Args[1:],
		KWArgs: pc.KWArgs,
	})
	return nil
}

// learn builds and runs the named strategy directly against t.Pool's
// own System/oracle, mirroring ToolMILP.Learn.
func (t *Tool) learn(_ context.Context, pc ParsedCommand) error {
	if len(pc.Args) == 0 {
		return fmt.Errorf("command: Learn requires a module name")
	}
	step := ChainStep{Module: pc.Args[0], Args: pc.Args[1:], KWArgs: pc.KWArgs}
	strat, err := buildStrategy(step)
	if err != nil {
		return err
	}
	o := oracle.NewLPOracle(t.Pool.N, t.Pool.IsUpper, t.Pool.Include, t.Pool.I2Exc)
	return strat.Run(t.Pool.System, o)
}

// buildStrategy constructs a strategy.Strategy from a ChainStep's
// module name and keyword arguments, mirroring monolearn.Modules'
// registry lookup in the Python original.
func buildStrategy(step ChainStep) (strategy.Strategy, error) {
	switch step.Module {
	case "LevelLearn":
		return strategy.LevelLearn{LevelsLower: kwInt(step.KWArgs, "levels_lower", 0)}, nil
	case "RandomLower":
		return strategy.RandomLower{MaxRepeatRate: kwFloat(step.KWArgs, "max_repeat_rate", 3)}, nil
	case "GainanovSAT":
		sense := strategy.SenseNone
		switch kwString(step.KWArgs, "sense", "") {
		case "min":
			sense = strategy.SenseMin
		case "max":
			sense = strategy.SenseMax
		}
		return strategy.GainanovSAT{
			Sense:    sense,
			SaveRate: kwInt(step.KWArgs, "save_rate", 0),
		}, nil
	default:
		return nil, fmt.Errorf("command: Learn module %q is not registered", step.Module)
	}
}

// runShiftLearn drives a shiftlearn.ShiftLearn over t.Pool using the
// strategies recorded in t.Chain, then invalidates any cached
// gecco/meta output (the constraint set has changed).
func (t *Tool) runShiftLearn(ctx context.Context, pc ParsedCommand) error {
	chain := make([]strategy.Strategy, 0, len(t.Chain))
	for _, step := range t.Chain {
		strat, err := buildStrategy(step)
		if err != nil {
			return err
		}
		chain = append(chain, strat)
	}
	sl, err := shiftlearn.New(t.Pool, chain)
	if err != nil {
		return err
	}
	threads := pc.IntArg("threads", 1)
	acc, err := sl.ProcessAllShifts(threads)
	if err != nil {
		return err
	}
	installed := sl.Compose(acc)
	log.WithField("installed", installed).Info("command: ShiftLearn composed")
	t.geccoWritten = ""
	t.metaWritten = ""
	return nil
}

func (t *Tool) subsetWriteGecco(ctx context.Context, _ ParsedCommand) error {
	cs, err := t.Pool.Constraints()
	if err != nil {
		return err
	}
	if t.metaWritten == "" {
		path := t.OutputPrefix + "subset.meta"
		if err := subsetcover.WriteMeta(path, cs, nil); err != nil {
			return err
		}
		t.metaWritten = path
	}
	path := t.OutputPrefix + "subset.gecco"
	if err := subsetcover.WriteGecco(path, cs, len(t.Pool.I2Exc)); err != nil {
		return err
	}
	t.geccoWritten = path
	return nil
}

func (t *Tool) subsetMILP(ctx context.Context, _ ParsedCommand) error {
	cs, err := t.Pool.Constraints()
	if err != nil {
		return err
	}
	res := subsetcover.SelectMILP(ctx, cs, len(t.Pool.I2Exc))
	return t.Selector.Report(res.Selected, "SubsetMILP", res.Optimal)
}

func (t *Tool) subsetSCS(ctx context.Context, pc ParsedCommand) error {
	if t.ExternalBinary == "" {
		log.Warn("command: no external set-covering solver binary configured, skipping SubsetSCS")
		return nil
	}
	if t.geccoWritten == "" {
		if err := t.subsetWriteGecco(ctx, pc); err != nil {
			return err
		}
	}
	cs, err := t.Pool.Constraints()
	if err != nil {
		return err
	}
	algorithm := "greedy"
	if len(pc.Args) > 0 {
		algorithm = pc.Args[0]
	}
	timeout := time.Duration(pc.IntArg("timeout", 10)) * time.Second
	iterations := pc.IntArg("iterations", 1)
	verbosity := pc.IntArg("verbosity", 0)
	logToStderr := pc.BoolArg("log_to_stderr", false)

	certPath := t.OutputPrefix + "scs.solution"
	for itr := 0; itr < iterations; itr++ {
		log.WithField("iteration", itr+1).WithField("of", iterations).Info("command: SubsetSCS iteration")
		res := subsetcover.SelectExternal(ctx, t.ExternalBinary, algorithm, t.geccoWritten, certPath, timeout, verbosity, logToStderr, cs)
		if len(res.Selected) > 0 {
			if err := t.Selector.Report(res.Selected, "SubsetSCS:"+algorithm, res.Optimal); err != nil {
				return err
			}
		}
	}
	return nil
}

func kwInt(m map[string]string, key string, def int) int {
	v, ok := m[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func kwFloat(m map[string]string, key string, def float64) float64 {
	v, ok := m[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func kwString(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}
