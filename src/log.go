package lvmfx

/*------------------------------------------------------------------
 *
 * Purpose:	Package-wide logger for work outside the realtime DSP
 *		path; cmd/ tools log through it and raise its level.
 *
 * Description:	No function of this package writes to it, Process
 *		included - spec.md §7 is explicit that no error is ever
 *		logged from the hot path. Validation failures in
 *		SetControl, SetParameter and friends are returned as
 *		errors, not logged; the logRejected/logApplied helpers
 *		below have no callers in the package.
 *
 *------------------------------------------------------------------*/

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the package-wide structured logger. It defaults to a quiet,
// warn-level logger writing to stderr; embedders that don't want any
// output can call SetLogger(log.New(io.Discard)).
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "lvmfx",
	Level:  log.WarnLevel,
})

// SetLogger replaces the package-wide logger, e.g. to raise the level for
// debugging or to silence it entirely with log.New(io.Discard).
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.NewWithOptions(io.Discard, log.Options{})
	}
	Logger = l
}

func logRejected(op string, err error) {
	Logger.Warn("rejected", "op", op, "err", err)
}

func logApplied(op string, kv ...any) {
	Logger.Debug(op, kv...)
}
