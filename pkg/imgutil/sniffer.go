package imgutil

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

// ColorType is the PNG IHDR colour type.
type ColorType uint8

const (
	ColorGray      ColorType = 0
	ColorRGB       ColorType = 2
	ColorPalette   ColorType = 3
	ColorGrayAlpha ColorType = 4
	ColorRGBA      ColorType = 6
)

func (c ColorType) String() string {
	switch c {
	case ColorGray:
		return "gray"
	case ColorRGB:
		return "rgb"
	case ColorPalette:
		return "palette"
	case ColorGrayAlpha:
		return "gray+alpha"
	case ColorRGBA:
		return "rgba"
	default:
		return "unknown"
	}
}

// Channels reports the number of samples per pixel for the colour type.
// Palette images count as a single channel.
func (c ColorType) Channels() int {
	switch c {
	case ColorGray, ColorPalette:
		return 1
	case ColorGrayAlpha:
		return 2
	case ColorRGB:
		return 3
	case ColorRGBA:
		return 4
	default:
		return 0
	}
}

// Header is the decoded IHDR chunk of a PNG stream.
type Header struct {
	Width     int
	Height    int
	BitDepth  uint8
	ColorType ColorType
}

// Channels is a shortcut for h.ColorType.Channels().
func (h Header) Channels() int {
	return h.ColorType.Channels()
}

var (
	ErrNotPNG     = errors.New("not a PNG file")
	ErrMissingHDR = errors.New("PNG stream has no IHDR chunk")
)

var pngSig = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// IsPNG inspects the first 8 bytes of a file for the PNG signature.
func IsPNG(header []byte) bool {
	return hasPrefix(header, pngSig)
}

// ReadHeaderFile opens path and reads its IHDR chunk without decoding any
// pixel data.
func ReadHeaderFile(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	return ReadHeader(f)
}

// ReadHeader reads the signature and the IHDR chunk that must follow it. A
// stream whose first chunk is anything else is rejected with ErrMissingHDR,
// the same as image/png does.
func ReadHeader(r io.Reader) (Header, error) {
	br := bufio.NewReader(r)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return Header{}, errors.Errorf("reading signature: %w", err)
	}
	if !IsPNG(sig) {
		return Header{}, ErrNotPNG
	}

	chunk := make([]byte, 8)
	if _, err := io.ReadFull(br, chunk); err != nil {
		if err == io.EOF {
			return Header{}, ErrMissingHDR
		}
		return Header{}, errors.Errorf("reading chunk header: %w", err)
	}
	if string(chunk[4:8]) != "IHDR" {
		return Header{}, ErrMissingHDR
	}
	if length := binary.BigEndian.Uint32(chunk[0:4]); length != 13 {
		return Header{}, errors.Errorf("IHDR length %d, want 13", length)
	}

	data := make([]byte, 13)
	if _, err := io.ReadFull(br, data); err != nil {
		return Header{}, errors.Errorf("reading IHDR: %w", err)
	}
	return Header{
		Width:     int(binary.BigEndian.Uint32(data[0:4])),
		Height:    int(binary.BigEndian.Uint32(data[4:8])),
		BitDepth:  data[8],
		ColorType: ColorType(data[9]),
	}, nil
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}
