package subsetcover

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/monolearn/conmodel/pool"
)

// externalKillGrace is how long SelectExternal waits after sending the
// solver SIGTERM before escalating to SIGKILL. A soft deadline at
// timeout, hard kill at timeout+externalKillGrace, gives the solver a
// chance to flush whatever certificate it has found so far.
const externalKillGrace = 5 * time.Second

// WriteGecco serializes cs as a GECCO set-cover instance: "n_points
// n_sets" followed by one line per point listing the indices of the
// constraints covering it (ported from constraint_pool.py's
// write_subset_gecco, minus the bzip2 side-compression, which is left
// to the caller since conmodel treats the external solver as an
// out-of-scope collaborator process per spec.md §4.G/§6).
func WriteGecco(path string, cs []pool.Constraint, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	byPoint := make([][]int, n)
	for i, c := range cs {
		for _, p := range c.FSet.Items() {
			if p < n {
				byPoint[p] = append(byPoint[p], i)
			}
		}
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%d %d\n", n, len(cs))
	for p, lst := range byPoint {
		if len(lst) == 0 {
			return fmt.Errorf("subsetcover: point %d has no covering constraint", p)
		}
		fmt.Fprintf(w, "%d %d", p, len(lst))
		for _, i := range lst {
			fmt.Fprintf(w, " %d", i)
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}

// WriteMeta writes the human-inspectable per-constraint sidecar file
// (ported from constraint_pool.py's write_subset_meta): one line per
// constraint, "index fset:colon:separated final:colon:separated
// preselected?".
func WriteMeta(path string, cs []pool.Constraint, preSelected map[int]bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, c := range cs {
		items := c.FSet.Items()
		fsetStrs := make([]string, len(items))
		for k, v := range items {
			fsetStrs[k] = strconv.Itoa(v)
		}
		pre := 0
		if preSelected[i] {
			pre = 1
		}
		fmt.Fprintf(w, "%d %s %s %d\n", i, strings.Join(fsetStrs, ":"), c.Final.String(), pre)
	}
	return w.Flush()
}

// SelectExternal invokes an external unicost set-covering solver
// binary on a pre-written GECCO instance and parses its certificate
// file, mirroring subset_by_setcoveringsolver. A missing or malformed
// certificate is logged and reported as a non-optimal empty Result
// rather than an error; after a timeout the solver is stopped and
// whatever certificate it wrote is still parsed, and the result is
// always marked non-optimal.
//
// timeout is passed to the solver as --timeout and also drives our own
// soft deadline: at timeout the process is sent SIGTERM (not killed
// outright), giving it externalKillGrace to flush a partial
// certificate before a SIGKILL escalation. ctx is still honored for
// caller-initiated cancellation (its own deadline, if any, escalates
// the same way).
func SelectExternal(ctx context.Context, binary, algorithm, geccoPath, certPath string, timeout time.Duration, verbosity int, logToStderr bool, cs []pool.Constraint) Result {
	seed := rand.Int63n(1 << 30)
	args := []string{
		"--algorithm", algorithm,
		"--input", geccoPath,
		"--unicost",
		"--certificate", certPath,
		"--seed", fmt.Sprintf("%d", seed),
		"--timeout", strconv.FormatInt(int64(timeout.Seconds()), 10),
		"--verbosity", strconv.Itoa(verbosity),
	}
	if logToStderr {
		args = append(args, "--log-to-stderr")
	}
	cmd := exec.Command(binary, args...)
	log.WithField("cmd", cmd.String()).Info("subsetcover: invoking external set-covering solver")

	if err := cmd.Start(); err != nil {
		log.WithField("error", err).Warn("subsetcover: failed to start external solver")
		return Result{Optimal: false}
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	softDeadline := time.NewTimer(timeout)
	defer softDeadline.Stop()

	select {
	case err := <-waitErr:
		if err != nil {
			log.WithField("error", err).Warn("subsetcover: external solver exited with an error")
		}
	case <-ctx.Done():
		terminateGracefully(cmd, waitErr, "caller cancellation")
	case <-softDeadline.C:
		terminateGracefully(cmd, waitErr, "timeout")
	}

	f, err := os.Open(certPath)
	if err != nil {
		log.WithField("error", err).Warn("subsetcover: could not open solver certificate")
		return Result{Optimal: false}
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		log.Warn("subsetcover: empty solver certificate")
		return Result{Optimal: false}
	}
	size, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		log.WithField("error", err).Warn("subsetcover: corrupted solver certificate header")
		return Result{Optimal: false}
	}
	if !sc.Scan() {
		log.Warn("subsetcover: solver certificate missing index line")
		return Result{Optimal: false}
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != size {
		log.WithField("declared", size).WithField("got", len(fields)).
			Warn("subsetcover: solver certificate size mismatch, corrupted?")
		return Result{Optimal: false}
	}

	out := make([]pool.Constraint, 0, size)
	for _, tok := range fields {
		i, err := strconv.Atoi(tok)
		if err != nil || i < 0 || i >= len(cs) {
			log.WithField("token", tok).Warn("subsetcover: solver certificate has an out-of-range index")
			return Result{Optimal: false}
		}
		out = append(out, cs[i])
	}
	return Result{Selected: out, Optimal: false}
}

// terminateGracefully sends SIGTERM and waits up to externalKillGrace
// for cmd to exit on its own (flushing a partial certificate) before
// escalating to SIGKILL.
func terminateGracefully(cmd *exec.Cmd, waitErr <-chan error, reason string) {
	log.WithField("reason", reason).Warn("subsetcover: external solver exceeded its deadline, sending SIGTERM")
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		log.WithField("error", err).Warn("subsetcover: failed to signal external solver, killing")
		_ = cmd.Process.Kill()
		<-waitErr
		return
	}

	select {
	case <-waitErr:
	case <-time.After(externalKillGrace):
		log.Warn("subsetcover: external solver ignored SIGTERM, killing")
		_ = cmd.Process.Kill()
		<-waitErr
	}
}
