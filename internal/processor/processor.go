package processor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"textools/internal/fsutil"
)

// RunDir enumerates dir once and runs task on every qualifying file in it.
func RunDir(ctx context.Context, dir string, task Task, opts Options) (Summary, error) {
	set, err := fsutil.ListFileSet(dir)
	if err != nil {
		return Summary{}, err
	}
	return Run(ctx, JobsFor(set), task, opts)
}

// JobsFor turns every member of set into a Job.
func JobsFor(set fsutil.FileSet) []Job {
	names := set.Names()
	jobs := make([]Job, 0, len(names))
	for _, name := range names {
		jobs = append(jobs, Job{Path: set.Path(name), Name: name})
	}
	return jobs
}

// Run dispatches one task per job onto a pool of opts.Workers goroutines and
// blocks until all of them have finished. Per-file failures, including panics,
// are recorded in the summary and never stop the other jobs.
//
// Once ctx is done no further jobs are started; those are recorded as skipped
// and Run returns the summary together with ctx.Err(). Tasks already running
// are left to finish.
func Run(ctx context.Context, jobs []Job, task Task, opts Options) (Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := zerolog.Ctx(ctx)
	sink := opts.sink()
	workers := opts.workers()

	summary := Summary{Total: len(jobs)}
	cancelled := false
	sink.Emit(Event{Level: LevelInfo, Message: fmt.Sprintf("found %d files", len(jobs)), Total: len(jobs)})

	results := make(chan Result, workers)
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			if res.notStarted {
				cancelled = true
			}
			summary.add(res)
			sink.Emit(resultEvent(res))
			sink.Emit(Event{Level: LevelProgress, Done: summary.Done(), Total: summary.Total})
		}
	}()

	var g errgroup.Group
	g.SetLimit(workers)
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			results <- notStarted(job, err)
			continue
		}
		logger.Debug().Str("file", job.Name).Msg("dispatching")
		g.Go(func() error {
			results <- runTask(ctx, task, job)
			return nil
		})
	}

	_ = g.Wait()
	close(results)
	<-collectorDone

	msg := fmt.Sprintf("complete: %d succeeded, %d skipped, %d errored",
		summary.Succeeded, summary.Skipped, summary.Errored)
	sink.Emit(Event{Level: LevelInfo, Message: msg, Done: summary.Done(), Total: summary.Total})

	if cancelled {
		return summary, ctx.Err()
	}
	return summary, nil
}

func runTask(ctx context.Context, task Task, job Job) (res Result) {
	if err := ctx.Err(); err != nil {
		return notStarted(job, err)
	}

	res = Result{Path: job.Path, Name: job.Name}
	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().Str("file", job.Name).Interface("panic", r).Msg("task panicked")
			res.Outcome = OutcomeErrored
			res.Detail = ""
			res.Err = errors.Errorf("task panicked: %v", r)
		}
	}()

	outcome, detail, err := task(ctx, job)
	res.Outcome = outcome
	res.Detail = detail
	res.Err = err
	if err != nil {
		res.Outcome = OutcomeErrored
	}
	return res
}

// notStarted keeps the cause out of Result.Err so an unstarted job never
// counts as errored.
func notStarted(job Job, cause error) Result {
	return Result{
		Path:       job.Path,
		Name:       job.Name,
		Outcome:    OutcomeSkipped,
		Detail:     "not started: " + cause.Error(),
		notStarted: true,
	}
}

func resultEvent(res Result) Event {
	switch res.Outcome {
	case OutcomeSucceeded:
		msg := res.Detail
		if msg == "" {
			msg = "processed"
		}
		return Event{Level: LevelInfo, Name: res.Name, Message: msg}
	case OutcomeSkipped:
		msg := "skipped"
		if res.Detail != "" {
			msg += ": " + res.Detail
		}
		return Event{Level: LevelInfo, Name: res.Name, Message: msg}
	default:
		return Event{Level: LevelError, Name: res.Name, Message: "failed", Err: res.Err}
	}
}
