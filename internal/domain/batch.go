package domain

import "fmt"

// OutcomeKind classifies the result of processing one record in a batch
// job: succeeded, skipped on purpose, failed but worth retrying later, or
// failed in a way the batch driver must not retry.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeSkip
	OutcomeRetryable
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeSkip:
		return "skip"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is returned by per-record operations and aggregated by the
// batch driver instead of steering control flow through errors.
type Outcome struct {
	Kind   OutcomeKind
	Reason string // set for skips
	Err    error  // set for retryable/fatal
}

func Ok() Outcome                  { return Outcome{Kind: OutcomeOK} }
func Skip(reason string) Outcome   { return Outcome{Kind: OutcomeSkip, Reason: reason} }
func Retryable(err error) Outcome  { return Outcome{Kind: OutcomeRetryable, Err: err} }
func FatalError(err error) Outcome { return Outcome{Kind: OutcomeFatal, Err: err} }

// Tally accumulates per-record outcomes over one batch run.
type Tally struct {
	OK        int
	Skipped   int
	Retryable int
	Fatal     int
}

func (t *Tally) Add(o Outcome) {
	switch o.Kind {
	case OutcomeOK:
		t.OK++
	case OutcomeSkip:
		t.Skipped++
	case OutcomeRetryable:
		t.Retryable++
	case OutcomeFatal:
		t.Fatal++
	}
}

func (t Tally) Total() int { return t.OK + t.Skipped + t.Retryable + t.Fatal }
