package ops

import (
	"context"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"textools/internal/fsutil"
	"textools/internal/processor"
	"textools/internal/reconcile"
	"textools/internal/texture"
)

var (
	ErrSameDirectory  = errors.New("source and destination are the same directory")
	ErrInvalidOptions = errors.New("invalid operation options")
)

// Env carries what every tool needs besides its own options.
type Env struct {
	Workers   int
	Sink      processor.EventSink
	Confirmer reconcile.Confirmer
}

func (e Env) options() processor.Options {
	return processor.Options{Workers: e.Workers, Sink: e.Sink}
}

// Run validates op's directories and options, then runs the tool over every
// texture it selects. Directory and option problems are returned before any
// file is touched; per-file failures only show up in the summary.
func Run(ctx context.Context, op Operation, env Env) (processor.Summary, error) {
	if op == nil {
		return processor.Summary{}, errors.Errorf("nil operation: %w", ErrInvalidOptions)
	}

	logger := zerolog.Ctx(ctx).With().Str("tool", op.Tool().String()).Logger()
	ctx = logger.WithContext(ctx)
	opts := env.options()

	switch op := op.(type) {
	case Flip:
		dir, err := sourceDir(op.Dir)
		if err != nil {
			return processor.Summary{}, err
		}
		return processor.RunDir(ctx, dir, flipTask, opts)

	case AlphaRemap:
		transform, err := remapFor(op.Direction)
		if err != nil {
			return processor.Summary{}, err
		}
		dir, err := sourceDir(op.Dir)
		if err != nil {
			return processor.Summary{}, err
		}
		return processor.RunDir(ctx, dir, editTask(transform), opts)

	case FillTransparency:
		if !slices.Contains(texture.FillColors(), op.Color) {
			return processor.Summary{}, errors.Errorf("fill color %d: %w", int(op.Color), texture.ErrUnknownColor)
		}
		if op.Mode != Fill && op.Mode != Restore {
			return processor.Summary{}, errors.Errorf("fill mode %d: %w", int(op.Mode), ErrInvalidOptions)
		}
		dir, err := sourceDir(op.Dir)
		if err != nil {
			return processor.Summary{}, err
		}
		restore := op.Mode == Restore
		return processor.RunDir(ctx, dir, editTask(func(b *texture.Buffer) int {
			return texture.FillTransparent(b, op.Color, restore)
		}), opts)

	case PrefixSweep:
		dir, err := sourceDir(op.Dir)
		if err != nil {
			return processor.Summary{}, err
		}
		return reconcile.SweepPrefix(ctx, dir, opts)

	case AlphaMove:
		src, dst, err := dirPair(op.SourceDir, op.DestDir, true)
		if err != nil {
			return processor.Summary{}, err
		}
		return processor.RunDir(ctx, src, moveTask(dst, texture.HasAlpha, "fully opaque"), opts)

	case VariableAlphaMove:
		src, dst, err := dirPair(op.SourceDir, op.DestDir, true)
		if err != nil {
			return processor.Summary{}, err
		}
		variable := func(b *texture.Buffer) bool {
			return texture.HasVariableAlpha(b, texture.ReferenceAlpha)
		}
		return processor.RunDir(ctx, src, moveTask(dst, variable, "uniform alpha 128"), opts)

	case FindAndSync:
		src, dst, err := dirPair(op.SourceDir, op.DestDir, true)
		if err != nil {
			return processor.Summary{}, err
		}
		return reconcile.FindAndSync(ctx, src, dst, opts)

	case CompareAndReplace:
		src, dst, err := dirPair(op.SourceDir, op.DestDir, false)
		if err != nil {
			return processor.Summary{}, err
		}
		return reconcile.CompareAndReplace(ctx, src, dst, opts)

	case DuplicateRemoval:
		src, dst, err := dirPair(op.SourceDir, op.DestDir, false)
		if err != nil {
			return processor.Summary{}, err
		}
		return reconcile.RemoveDuplicates(ctx, src, dst, env.Confirmer, opts)

	default:
		return processor.Summary{}, errors.Errorf("operation %T: %w", op, ErrInvalidOptions)
	}
}

func remapFor(d Direction) (func(*texture.Buffer) int, error) {
	switch d {
	case Solidify:
		return texture.Solidify, nil
	case Desolidify:
		return texture.Desolidify, nil
	default:
		return nil, errors.Errorf("alpha direction %d: %w", int(d), ErrInvalidOptions)
	}
}

func sourceDir(path string) (string, error) {
	return fsutil.ValidateDir(path, false)
}

// dirPair validates both directories of a dual-directory tool. The
// destination is created when create is set; either way it must not be the
// source itself.
func dirPair(srcPath, dstPath string, create bool) (string, string, error) {
	src, err := fsutil.ValidateDir(srcPath, false)
	if err != nil {
		return "", "", err
	}
	dst, err := fsutil.ValidateDir(dstPath, create)
	if err != nil {
		return "", "", err
	}
	if src == dst {
		return "", "", errors.Errorf("%s: %w", src, ErrSameDirectory)
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", "", errors.Errorf("stat %s: %w", src, err)
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return "", "", errors.Errorf("stat %s: %w", dst, err)
	}
	if os.SameFile(srcInfo, dstInfo) {
		return "", "", errors.Errorf("%s and %s: %w", src, dst, ErrSameDirectory)
	}
	return src, dst, nil
}
