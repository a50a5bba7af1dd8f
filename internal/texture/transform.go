package texture

const (
	// HalfAlpha is the semi-transparent level Solidify raises and Desolidify produces.
	HalfAlpha uint8 = 128
	// SolidAlpha is fully opaque.
	SolidAlpha uint8 = 255
)

// RemapAlpha sets alpha to `to` on every pixel whose alpha equals `from`.
// Fully transparent pixels are never touched, even when from is 0. Returns
// the number of pixels changed; buffers without an alpha channel are left
// alone and report 0.
func RemapAlpha(b *Buffer, from, to uint8) int {
	if !b.HasAlphaChannel() || from == 0 || from == to {
		return 0
	}

	changed := 0
	forEachPixel(b, func(px []uint8) {
		if px[3] == from {
			px[3] = to
			changed++
		}
	})
	return changed
}

// Solidify turns semi-transparent (128) pixels fully opaque.
func Solidify(b *Buffer) int {
	return RemapAlpha(b, HalfAlpha, SolidAlpha)
}

// Desolidify turns fully opaque pixels semi-transparent (128).
func Desolidify(b *Buffer) int {
	return RemapAlpha(b, SolidAlpha, HalfAlpha)
}

// FillTransparent paints every fully transparent pixel with c. With restore
// set it does the reverse: every pixel whose four channels exactly equal c is
// reset to (0,0,0,0). Returns the number of pixels changed.
func FillTransparent(b *Buffer, c FillColor, restore bool) int {
	if !b.HasAlphaChannel() {
		return 0
	}

	fill := c.NRGBA()
	changed := 0
	forEachPixel(b, func(px []uint8) {
		switch {
		case !restore && px[3] == 0:
			px[0], px[1], px[2], px[3] = fill.R, fill.G, fill.B, fill.A
			changed++
		case restore && px[0] == fill.R && px[1] == fill.G && px[2] == fill.B && px[3] == fill.A:
			px[0], px[1], px[2], px[3] = 0, 0, 0, 0
			changed++
		}
	})
	return changed
}

// FlipVertical reverses the row order in place. It works on every buffer,
// with or without alpha, and applying it twice restores the original.
func FlipVertical(b *Buffer) {
	img := b.Img
	h := img.Bounds().Dy()
	w := img.Bounds().Dx() * 4
	tmp := make([]uint8, w)
	for top, bottom := 0, h-1; top < bottom; top, bottom = top+1, bottom-1 {
		rowTop := img.Pix[top*img.Stride : top*img.Stride+w]
		rowBottom := img.Pix[bottom*img.Stride : bottom*img.Stride+w]
		copy(tmp, rowTop)
		copy(rowTop, rowBottom)
		copy(rowBottom, tmp)
	}
}
