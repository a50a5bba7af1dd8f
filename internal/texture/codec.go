package texture

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
	"gitlab.com/tozd/go/errors"

	"textools/internal/fsutil"
	"textools/pkg/imgutil"
)

var ErrUnsupportedLayout = errors.New("unsupported pixel layout")

// DecodeError marks a file whose contents could not be turned into a Buffer.
// It is a per-file failure; the file itself is never modified.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode: " + e.Err.Error()
	}
	return "decode " + e.Path + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Buffer is a decoded texture. It is owned by a single task and mutated in place.
type Buffer struct {
	Img    *image.NRGBA
	Header imgutil.Header
}

// NewBuffer wraps img as a 4-channel texture.
func NewBuffer(img *image.NRGBA) *Buffer {
	b := img.Bounds()
	return &Buffer{
		Img: img,
		Header: imgutil.Header{
			Width:     b.Dx(),
			Height:    b.Dy(),
			BitDepth:  8,
			ColorType: imgutil.ColorRGBA,
		},
	}
}

// Channels is the sample count of the source file's layout.
func (b *Buffer) Channels() int {
	return b.Header.Channels()
}

// HasAlphaChannel reports whether the texture is a 4-channel RGBA image.
func (b *Buffer) HasAlphaChannel() bool {
	return b.Channels() == 4
}

// DecodeFile reads and decodes the PNG at path. Read failures are returned as
// they are; malformed or unsupported contents come back as *DecodeError.
func DecodeFile(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading texture: %w", err)
	}

	buf, err := Decode(data)
	if err != nil {
		var decErr *DecodeError
		if errors.As(err, &decErr) {
			decErr.Path = path
		}
		return nil, err
	}
	return buf, nil
}

// ReadHeaderFile reads only the IHDR chunk of the PNG at path, so callers can
// turn away layouts they do not handle before paying for a full decode. Errors
// follow DecodeFile: I/O failures as they are, bad contents as *DecodeError.
func ReadHeaderFile(path string) (imgutil.Header, error) {
	hdr, err := imgutil.ReadHeaderFile(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return imgutil.Header{}, errors.Errorf("reading texture: %w", err)
		}
		return imgutil.Header{}, &DecodeError{Path: path, Err: err}
	}
	return hdr, nil
}

// Decode parses PNG bytes into a Buffer.
func Decode(data []byte) (*Buffer, error) {
	hdr, err := imgutil.ReadHeader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if hdr.BitDepth > 8 || hdr.Channels() == 0 {
		return nil, &DecodeError{Err: errors.Errorf("%s at %d bits: %w", hdr.ColorType, hdr.BitDepth, ErrUnsupportedLayout)}
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Bounds().Min != (image.Point{}) {
		nrgba = imaging.Clone(img)
	}

	return &Buffer{Img: nrgba, Header: hdr}, nil
}

// Encode writes b as PNG. 4-channel buffers keep colour type 6 even when fully
// opaque; other buffers let the encoder pick the smallest layout.
func Encode(w io.Writer, b *Buffer) error {
	var img image.Image = b.Img
	if b.HasAlphaChannel() {
		img = keepAlpha{b.Img}
	}
	if err := png.Encode(w, img); err != nil {
		return errors.Errorf("encoding png: %w", err)
	}
	return nil
}

// EncodeFile overwrites path with b through a temp file and rename. The
// existing file's permissions are kept.
func EncodeFile(b *Buffer, path string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return fsutil.WriteAtomic(path, mode, func(w io.Writer) error {
		return Encode(w, b)
	})
}

// keepAlpha hides the opaque fast path of image/png, which would otherwise
// write an all-opaque texture as RGB and drop its alpha channel.
type keepAlpha struct {
	*image.NRGBA
}

func (keepAlpha) Opaque() bool {
	return false
}
