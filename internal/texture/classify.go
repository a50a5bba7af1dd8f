package texture

// ReferenceAlpha is the single alpha value a PS2-era texture uses for "normal"
// translucency. Textures using anything else have variable alpha.
const ReferenceAlpha uint8 = 128

// AlphaExtrema scans every pixel's alpha once and returns the smallest and
// largest value. Buffers without an alpha channel report (255, 255), and so do
// empty buffers.
func AlphaExtrema(b *Buffer) (lo, hi uint8) {
	if !b.HasAlphaChannel() {
		return 0xff, 0xff
	}

	lo, hi = 0xff, 0
	seen := false
	forEachPixel(b, func(px []uint8) {
		seen = true
		a := px[3]
		if a < lo {
			lo = a
		}
		if a > hi {
			hi = a
		}
	})
	if !seen {
		return 0xff, 0xff
	}
	return lo, hi
}

// HasAlpha reports whether a 4-channel texture has at least one pixel that is
// not fully opaque.
func HasAlpha(b *Buffer) bool {
	lo, _ := AlphaExtrema(b)
	return lo < 0xff
}

// HasVariableAlpha reports whether any pixel's alpha differs from reference.
// Buffers without an alpha channel never do.
func HasVariableAlpha(b *Buffer, reference uint8) bool {
	if !b.HasAlphaChannel() {
		return false
	}

	pix := b.Img.Pix
	w := b.Img.Bounds().Dx() * 4
	for y := 0; y < b.Img.Bounds().Dy(); y++ {
		row := pix[y*b.Img.Stride : y*b.Img.Stride+w]
		for i := 3; i < len(row); i += 4 {
			if row[i] != reference {
				return true
			}
		}
	}
	return false
}

// forEachPixel calls fn with the 4-byte slice of every pixel, row by row.
func forEachPixel(b *Buffer, fn func(px []uint8)) {
	img := b.Img
	w := img.Bounds().Dx() * 4
	for y := 0; y < img.Bounds().Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for i := 0; i < len(row); i += 4 {
			fn(row[i : i+4 : i+4])
		}
	}
}
