// Package texture decodes PNG textures into pixel buffers, classifies them by
// their alpha channel and applies the in-place pixel transforms used by the
// batch tools.
//
// # Buffers
//
// Every decoded file becomes a Buffer holding an *image.NRGBA (straight,
// non-premultiplied 8-bit samples) plus the IHDR header of the source file.
// The header, not the decoded Go type, decides whether a texture counts as
// alpha-capable: only PNG colour type 6 (RGBA) is a 4-channel texture. Gray,
// gray+alpha, RGB and palette files all decode into NRGBA too, but every alpha
// classifier reports "no alpha" for them and every alpha transform is a no-op.
//
// 16-bit files are rejected with ErrUnsupportedLayout; saving them through an
// 8-bit buffer would silently drop precision.
//
// # Transforms
//
// RemapAlpha, FillTransparent and FlipVertical work on every pixel
// independently and return how many pixels they changed. A caller persists the
// buffer with EncodeFile only when that count is non-zero, so a texture the
// transform does not affect stays byte-identical on disk.
//
// RemapAlpha is not generally invertible: Solidify followed by Desolidify
// restores the original alpha-128 pixels only when the texture held no alpha
// values other than 0, 128 and 255 to begin with, because pixels that were
// already 255 are lowered as well.
//
// # Saving
//
// EncodeFile writes through a temporary file and renames it into place. A
// 4-channel buffer is always written as 8-bit RGBA, even when every pixel ended
// up opaque, so a texture never loses its alpha channel by being saved.
package texture
