// Package control implements a JSON-RPC 2.0 control plane for a
// signals.Signals, so that other processes can interrupt or reset it.
//
// Messages are framed with Content-Length headers. Methods:
//
//   - "signal" with params {"action": "interrupt"} or {"action": "reset"}
//     applies the action, records it in the journal if there is one, and
//     returns a Status.
//
//   - "status" returns a Status.
//
//   - "history" with params {"from": m, "upto": n} returns the journal
//     entries with sequence numbers in [m, n).
package control

import (
	"src.intr.sh/pkg/logutil"
	"src.intr.sh/pkg/signals"
)

var logger = logutil.GetLogger("[control] ")

// Names of methods.
const (
	MethodSignal  = "signal"
	MethodStatus  = "status"
	MethodHistory = "history"
)

// SignalParams is the params of the signal method.
type SignalParams struct {
	Action signals.Action `json:"action"`
}

// HistoryParams is the params of the history method.
type HistoryParams struct {
	From int `json:"from"`
	Upto int `json:"upto"`
}

// Status is the result of the signal and status methods.
type Status struct {
	Interrupted bool `json:"interrupted"`
}
