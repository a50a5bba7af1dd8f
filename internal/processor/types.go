package processor

import (
	"context"
)

// DefaultWorkers is the pool width used when Options.Workers is not set.
const DefaultWorkers = 8

type Options struct {
	Workers int
	Sink    EventSink
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return DefaultWorkers
	}
	return o.Workers
}

func (o Options) sink() EventSink {
	if o.Sink == nil {
		return Discard
	}
	return o.Sink
}

// Job is one file handed to a task.
type Job struct {
	Path string
	Name string
}

// Outcome classifies how a task ended for its file.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeSkipped
	OutcomeErrored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Task processes a single file. A non-nil error always means OutcomeErrored,
// whatever outcome is returned alongside it. detail is a short human-readable
// note ("moved to ...", "no alpha channel").
type Task func(ctx context.Context, job Job) (outcome Outcome, detail string, err error)

type Result struct {
	Path    string
	Name    string
	Outcome Outcome
	Detail  string
	Err     error

	notStarted bool
}

// Summary is the aggregate of one batch. Results are in completion order.
// Succeeded+Skipped+Errored always equals Total.
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Errored   int
	Results   []Result
}

func (s *Summary) add(res Result) {
	switch res.Outcome {
	case OutcomeSucceeded:
		s.Succeeded++
	case OutcomeSkipped:
		s.Skipped++
	default:
		s.Errored++
	}
	s.Results = append(s.Results, res)
}

// Done is the number of files with a recorded outcome.
func (s Summary) Done() int {
	return s.Succeeded + s.Skipped + s.Errored
}

// Failures returns the errored results.
func (s Summary) Failures() []Result {
	var out []Result
	for _, res := range s.Results {
		if res.Outcome == OutcomeErrored {
			out = append(out, res)
		}
	}
	return out
}
