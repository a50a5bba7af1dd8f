package ops

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"textools/internal/fsutil"
	"textools/internal/processor"
	"textools/internal/texture"
)

// editTask decodes a texture, applies transform and saves the result only if
// at least one pixel changed. Files without an alpha channel are skipped
// without being rewritten.
func editTask(transform func(*texture.Buffer) int) processor.Task {
	return func(_ context.Context, job processor.Job) (processor.Outcome, string, error) {
		buf, err := decodeAlphaTexture(job.Path)
		if err != nil {
			return processor.OutcomeErrored, "", err
		}
		if buf == nil {
			return processor.OutcomeSkipped, "no alpha channel", nil
		}

		changed := transform(buf)
		if changed == 0 {
			return processor.OutcomeSkipped, "no matching pixels", nil
		}
		if err := texture.EncodeFile(buf, job.Path); err != nil {
			return processor.OutcomeErrored, "", err
		}
		return processor.OutcomeSucceeded, fmt.Sprintf("%d pixels changed", changed), nil
	}
}

// decodeAlphaTexture decodes path only when its header declares a 4-channel
// layout. A nil buffer with a nil error means the file has no alpha channel.
func decodeAlphaTexture(path string) (*texture.Buffer, error) {
	hdr, err := texture.ReadHeaderFile(path)
	if err != nil {
		return nil, err
	}
	if hdr.Channels() != 4 {
		return nil, nil
	}
	return texture.DecodeFile(path)
}

func flipTask(_ context.Context, job processor.Job) (processor.Outcome, string, error) {
	buf, err := texture.DecodeFile(job.Path)
	if err != nil {
		return processor.OutcomeErrored, "", err
	}
	if buf.Img.Rect.Dy() < 2 {
		return processor.OutcomeSkipped, "single row", nil
	}

	texture.FlipVertical(buf)
	if err := texture.EncodeFile(buf, job.Path); err != nil {
		return processor.OutcomeErrored, "", err
	}
	return processor.OutcomeSucceeded, "flipped", nil
}

// moveTask moves every texture that matches into dstDir, leaving the pixels
// untouched. reason is the skip detail for alpha-capable textures that do not
// match.
func moveTask(dstDir string, match func(*texture.Buffer) bool, reason string) processor.Task {
	return func(ctx context.Context, job processor.Job) (processor.Outcome, string, error) {
		buf, err := decodeAlphaTexture(job.Path)
		if err != nil {
			return processor.OutcomeErrored, "", err
		}
		if buf == nil {
			return processor.OutcomeSkipped, "no alpha channel", nil
		}
		if !match(buf) {
			return processor.OutcomeSkipped, reason, nil
		}

		dst := filepath.Join(dstDir, job.Name)
		if err := fsutil.MoveFile(job.Path, dst); err != nil {
			return processor.OutcomeErrored, "", err
		}
		zerolog.Ctx(ctx).Debug().Str("file", job.Name).Str("to", dst).Msg("moved")
		return processor.OutcomeSucceeded, "moved to " + dstDir, nil
	}
}
