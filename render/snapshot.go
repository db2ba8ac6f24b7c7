package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// SnapshotOptions controls rasterizing a frame into an image
// Zero values select basicfont 7x13, white on black
type SnapshotOptions struct {
	Face       font.Face
	Background color.Color
	// Foreground returns the color of a glyph; nil draws everything white
	Foreground func(r rune) color.Color
}

func (o SnapshotOptions) withDefaults() SnapshotOptions {
	if o.Face == nil {
		o.Face = basicfont.Face7x13
	}
	if o.Background == nil {
		o.Background = color.Black
	}
	if o.Foreground == nil {
		o.Foreground = func(rune) color.Color { return color.White }
	}
	return o
}

// cellSize returns the pixel size of one grid cell for a monospace face
func cellSize(face font.Face) (int, int) {
	adv, ok := face.GlyphAdvance('M')
	if !ok || adv <= 0 {
		adv = fixed.I(7)
	}
	return adv.Ceil(), face.Metrics().Height.Ceil()
}

// Snapshot draws the current image of b into a new RGBA image
func (b *Buffer) Snapshot(opts SnapshotOptions) *image.RGBA {
	opts = opts.withDefaults()
	cw, ch := cellSize(opts.Face)
	ascent := opts.Face.Metrics().Ascent

	img := image.NewRGBA(image.Rect(0, 0, cw*b.width, ch*b.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Face: opts.Face}
	var buf [4]byte
	for y := 0; y < b.height; y++ {
		for x, r := range b.Row(y) {
			if r == b.blank {
				continue
			}
			d.Src = image.NewUniform(opts.Foreground(r))
			d.Dot = fixed.Point26_6{X: fixed.I(x * cw), Y: fixed.I(y*ch) + ascent}
			n := utf8.EncodeRune(buf[:], r)
			d.DrawBytes(buf[:n])
		}
	}
	return img
}

// WritePNG encodes a snapshot of b as PNG
func (b *Buffer) WritePNG(w io.Writer, opts SnapshotOptions) error {
	if err := png.Encode(w, b.Snapshot(opts)); err != nil {
		return fmt.Errorf("render: encode snapshot: %w", err)
	}
	return nil
}
