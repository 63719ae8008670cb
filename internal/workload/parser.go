// Package workload parses the whitespace-separated process description
// file consumed by the minikernel scheduler (spec.md §6).
package workload

import (
	"bufio"
	"fmt"
	"io"

	"github.com/orizon-lang/minikernel/internal/kernel"
)

// Process is one parsed workload line, prior to PCB construction. Field
// order and constraints mirror original_source/src/main.c's fscanf
// validation: dur > 0, priority in [1,5], threads > 0, arrival >= 0.
type Process struct {
	DurationMS int64
	Priority   int
	Threads    int
	ArrivalMS  int64
}

// Workload is a fully parsed and validated process description, ready to
// drive an engine run.
type Workload struct {
	Processes []Process
	Policy    kernel.Policy
}

// Parse reads a workload description from r. Every validation failure is
// wrapped with a "workload:" prefix, matching the original program's
// fail-fast behavior: the first malformed field aborts parsing entirely
// (spec.md §7 "Input format... Logged at parse time; engine exits 1
// without starting the scheduler").
func Parse(r io.Reader) (*Workload, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	nextInt := func(field string) (int64, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, inputFormatErr("reading %s: %w", field, err)
			}
			return 0, inputFormatErr("unexpected end of input reading %s", field)
		}
		var v int64
		if _, err := fmt.Sscanf(sc.Text(), "%d", &v); err != nil {
			return 0, inputFormatErr("%s: %q is not an integer", field, sc.Text())
		}
		return v, nil
	}

	n, err := nextInt("process count")
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > 100 {
		return nil, inputFormatErr("process count %d out of range [1,100]", n)
	}

	w := &Workload{Processes: make([]Process, 0, n)}
	for i := int64(0); i < n; i++ {
		dur, err := nextInt("duration")
		if err != nil {
			return nil, err
		}
		if dur <= 0 {
			return nil, inputFormatErr("process %d: duration %d must be positive", i+1, dur)
		}

		prio, err := nextInt("priority")
		if err != nil {
			return nil, err
		}
		if prio < 1 || prio > 5 {
			return nil, inputFormatErr("process %d: priority %d out of range [1,5]", i+1, prio)
		}

		threads, err := nextInt("thread count")
		if err != nil {
			return nil, err
		}
		if threads <= 0 {
			return nil, inputFormatErr("process %d: thread count %d must be positive", i+1, threads)
		}

		arrival, err := nextInt("arrival time")
		if err != nil {
			return nil, err
		}
		if arrival < 0 {
			return nil, inputFormatErr("process %d: arrival %d must be non-negative", i+1, arrival)
		}

		w.Processes = append(w.Processes, Process{
			DurationMS: dur,
			Priority:   int(prio),
			Threads:    int(threads),
			ArrivalMS:  arrival,
		})
	}

	policyRaw, err := nextInt("policy")
	if err != nil {
		return nil, err
	}
	switch policyRaw {
	case 1:
		w.Policy = kernel.FCFS
	case 2:
		w.Policy = kernel.RoundRobin
	case 3:
		w.Policy = kernel.Priority
	case 4:
		w.Policy = kernel.CFS
	default:
		return nil, inputFormatErr("unrecognized policy %d", policyRaw)
	}

	return w, nil
}

func inputFormatErr(format string, args ...interface{}) error {
	return fmt.Errorf("workload: %w", fmt.Errorf(format, args...))
}
