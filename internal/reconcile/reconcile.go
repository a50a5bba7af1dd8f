// Package reconcile compares the texture file sets of two directories and
// applies one of four fixed copy/delete policies to the difference.
//
// Set membership is exact, case-sensitive filename equality. Every policy
// enumerates each directory exactly once, computes its candidate set, and
// dispatches one task per candidate through processor.Run. Files outside the
// candidate set are never touched, and a summary's Total is the size of the
// candidate set.
package reconcile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"textools/internal/fsutil"
	"textools/internal/processor"
)

// BackupPrefix marks the backup copies texture editors leave behind.
const BackupPrefix = "BKP_"

var ErrNotConfirmed = errors.New("deletion not confirmed")

// Confirmer is asked once, after the duplicate set is known and before any
// file is deleted. Only a true answer with a nil error lets deletion proceed.
type Confirmer interface {
	ConfirmDeletion(ctx context.Context, dir string, names []string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, dir string, names []string) (bool, error)

func (f ConfirmFunc) ConfirmDeletion(ctx context.Context, dir string, names []string) (bool, error) {
	return f(ctx, dir, names)
}

// Duplicates is S ∩ D rooted at the destination directory.
func Duplicates(src, dst fsutil.FileSet) fsutil.FileSet {
	return dst.Intersect(src)
}

// Missing is S \ D rooted at the source directory.
func Missing(src, dst fsutil.FileSet) fsutil.FileSet {
	return src.Difference(dst)
}

// Matching is S ∩ D rooted at the source directory.
func Matching(src, dst fsutil.FileSet) fsutil.FileSet {
	return src.Intersect(dst)
}

// Backups is the subset of set whose names start with BackupPrefix.
func Backups(set fsutil.FileSet) fsutil.FileSet {
	return set.MatchPrefix(BackupPrefix)
}

func listBoth(srcDir, dstDir string) (fsutil.FileSet, fsutil.FileSet, error) {
	src, err := fsutil.ListFileSet(srcDir)
	if err != nil {
		return fsutil.FileSet{}, fsutil.FileSet{}, err
	}
	dst, err := fsutil.ListFileSet(dstDir)
	if err != nil {
		return fsutil.FileSet{}, fsutil.FileSet{}, err
	}
	return src, dst, nil
}

// RemoveDuplicates deletes from dstDir every file whose name also exists in
// srcDir. The candidate list is streamed as INFO events and then confirm is
// consulted; a negative answer, a nil confirm, a confirm error or a done ctx
// leaves dstDir untouched, records every candidate as skipped and returns
// ErrNotConfirmed (or the confirm error).
func RemoveDuplicates(ctx context.Context, srcDir, dstDir string, confirm Confirmer, opts processor.Options) (processor.Summary, error) {
	src, dst, err := listBoth(srcDir, dstDir)
	if err != nil {
		return processor.Summary{}, err
	}

	dupes := Duplicates(src, dst)
	sink := opts.Sink
	if sink == nil {
		sink = processor.Discard
	}
	if dupes.Len() == 0 {
		sink.Emit(processor.Event{Level: processor.LevelInfo, Message: "no duplicate filenames found, nothing to delete"})
		return processor.Summary{}, nil
	}

	sink.Emit(processor.Event{
		Level:   processor.LevelInfo,
		Message: fmt.Sprintf("%d files will be deleted from %s", dupes.Len(), dupes.Dir),
		Total:   dupes.Len(),
	})
	for _, name := range dupes.Names() {
		sink.Emit(processor.Event{Level: processor.LevelInfo, Name: name, Message: "duplicate"})
	}

	ok, err := ask(ctx, confirm, dupes)
	if !ok {
		sink.Emit(processor.Event{Level: processor.LevelInfo, Message: "operation cancelled"})
		if err == nil {
			err = ErrNotConfirmed
		}
		return declined(dupes), err
	}

	zerolog.Ctx(ctx).Debug().Int("count", dupes.Len()).Str("dir", dupes.Dir).Msg("deleting duplicates")
	return processor.Run(ctx, processor.JobsFor(dupes), deleteTask("deleted duplicate"), opts)
}

func ask(ctx context.Context, confirm Confirmer, set fsutil.FileSet) (bool, error) {
	if confirm == nil {
		return false, nil
	}
	ok, err := confirm.ConfirmDeletion(ctx, set.Dir, set.Names())
	if err != nil {
		return false, errors.Errorf("confirming deletion: %w", err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	return ok, nil
}

func declined(set fsutil.FileSet) processor.Summary {
	summary := processor.Summary{Total: set.Len(), Skipped: set.Len()}
	for _, name := range set.Names() {
		summary.Results = append(summary.Results, processor.Result{
			Path:    set.Path(name),
			Name:    name,
			Outcome: processor.OutcomeSkipped,
			Detail:  "deletion not confirmed",
		})
	}
	return summary
}

// FindAndSync copies into dstDir every file of srcDir whose name dstDir does
// not have yet. Existing destination files are never overwritten.
func FindAndSync(ctx context.Context, srcDir, dstDir string, opts processor.Options) (processor.Summary, error) {
	src, dst, err := listBoth(srcDir, dstDir)
	if err != nil {
		return processor.Summary{}, err
	}
	return processor.Run(ctx, processor.JobsFor(Missing(src, dst)), copyTask(dst.Dir, false), opts)
}

// CompareAndReplace copies every file of srcDir over the same-named file in
// dstDir. Destination files without a source counterpart are left alone.
func CompareAndReplace(ctx context.Context, srcDir, dstDir string, opts processor.Options) (processor.Summary, error) {
	src, dst, err := listBoth(srcDir, dstDir)
	if err != nil {
		return processor.Summary{}, err
	}
	return processor.Run(ctx, processor.JobsFor(Matching(src, dst)), copyTask(dst.Dir, true), opts)
}

// SweepPrefix deletes every texture in dir whose name starts with BackupPrefix.
func SweepPrefix(ctx context.Context, dir string, opts processor.Options) (processor.Summary, error) {
	set, err := fsutil.ListFileSet(dir)
	if err != nil {
		return processor.Summary{}, err
	}
	return processor.Run(ctx, processor.JobsFor(Backups(set)), deleteTask("deleted"), opts)
}

func deleteTask(detail string) processor.Task {
	return func(_ context.Context, job processor.Job) (processor.Outcome, string, error) {
		if err := fsutil.RemoveFile(job.Path); err != nil {
			return processor.OutcomeErrored, "", err
		}
		return processor.OutcomeSucceeded, detail, nil
	}
}

func copyTask(dstDir string, overwrite bool) processor.Task {
	detail := "copied (new file)"
	if overwrite {
		detail = "replaced"
	}
	return func(_ context.Context, job processor.Job) (processor.Outcome, string, error) {
		if err := fsutil.CopyFile(job.Path, filepath.Join(dstDir, job.Name), overwrite); err != nil {
			return processor.OutcomeErrored, "", err
		}
		return processor.OutcomeSucceeded, detail, nil
	}
}
