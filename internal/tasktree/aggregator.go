package tasktree

import "golang.org/x/sys/cpu"

// WorkerSlot accumulates the results of every task one worker executes.
//
// Slot i is written only by worker i and read only after the root join. The
// pads on both sides keep adjacent slots on distinct cache lines.
type WorkerSlot struct {
	_     cpu.CacheLinePad
	Sum   float64
	Count int64
	_     cpu.CacheLinePad
}

func (s *WorkerSlot) fold(estimate float64) {
	s.Sum += estimate
	s.Count++
}

// Finalize merges the worker slots into a RunResult.
//
// The average divides by min(admitted, budget). The admission gate is an
// atomic fetch-and-add, so admitted never exceeds budget here and the cap is
// a guard rather than a correction.
func Finalize(slots []WorkerSlot, budget int64) RunResult {
	res := RunResult{WorkerCounts: make([]int64, len(slots))}
	for i := range slots {
		res.TotalPi += slots[i].Sum
		res.AdmittedTotal += slots[i].Count
		res.WorkerCounts[i] = slots[i].Count
	}
	valid := res.AdmittedTotal
	if budget > 0 && valid > budget {
		valid = budget
	}
	if valid > 0 {
		res.Average = res.TotalPi / float64(valid)
	}
	return res
}
