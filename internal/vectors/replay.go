// Package vectors — replay.go
//
// Run drives a Vector's steps against a freshly-initialised gate
// instance, in order, and reports which steps matched their expected
// outcome code.
package vectors

import (
	"fmt"

	"github.com/octoreflex/sentrygate/internal/gate"
	"github.com/octoreflex/sentrygate/internal/gatemsg"
)

// StepResult is the outcome of replaying a single Step.
type StepResult struct {
	Index    int
	Expected uint32
	Got      uint32
	Passed   bool
	Note     string
}

// Run replays v's steps in order against one gate.Init() instance and
// returns a result per step. It never shares gate state across two
// calls to Run — each call re-initialises the gate first.
func Run(v Vector) []StepResult {
	var clockNs uint64
	gate.RegisterClock(func() uint64 { return clockNs })
	gate.Init()

	results := make([]StepResult, len(v.Steps))
	for i, step := range v.Steps {
		clockNs = step.NowNs

		var got gate.Code
		switch step.Kind {
		case StepSecurityRequest:
			buf := gatemsg.BuildSecurityRequest(step.Provenance)
			got = gate.ProcessSecurityRequest(buf)
		case StepSignatureUpdate:
			buf := gatemsg.BuildSignatureUpdate(step.Provenance, step.NewSignatures)
			got = gate.ApplySignatureUpdate(buf)
		default:
			results[i] = StepResult{Index: i, Expected: step.ExpectedCode, Note: fmt.Sprintf("unknown step kind %q", step.Kind)}
			continue
		}

		results[i] = StepResult{
			Index:    i,
			Expected: step.ExpectedCode,
			Got:      uint32(got),
			Passed:   uint32(got) == step.ExpectedCode,
			Note:     step.Note,
		}
	}
	return results
}
