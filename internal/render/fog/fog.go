// Package fog darkens everything the viewer cannot see.
//
// The overlay is a translucent black layer with the field-of-view fan and the
// close-vision disc cut out of it. It only presents a vision snapshot; it never
// decides what is visible.
package fog

import (
	"image"
	"image/color"

	"chosenoffset.com/pixelescape/internal/core/vision"
	"chosenoffset.com/pixelescape/internal/render"
)

const (
	// DefaultDarkness is the opacity of the fog layer outside the view.
	DefaultDarkness = 0.7
	discSegments    = 32
)

// Overlay draws the fog layer over a finished frame.
type Overlay struct {
	renderer render.Renderer
	darkness float64
	enabled  bool

	mask  render.Image
	white render.Image
}

// NewOverlay creates an enabled overlay that draws through r.
func NewOverlay(r render.Renderer) *Overlay {
	return &Overlay{
		renderer: r,
		darkness: DefaultDarkness,
		enabled:  true,
	}
}

// SetDarkness sets the fog opacity, clamped to [0, 1].
func (o *Overlay) SetDarkness(alpha float64) {
	switch {
	case alpha < 0:
		alpha = 0
	case alpha > 1:
		alpha = 1
	}
	o.darkness = alpha
}

// Darkness returns the fog opacity.
func (o *Overlay) Darkness() float64 {
	return o.darkness
}

// SetEnabled turns the overlay on or off.
func (o *Overlay) SetEnabled(enabled bool) {
	o.enabled = enabled
}

// Enabled reports whether Apply draws anything.
func (o *Overlay) Enabled() bool {
	return o.enabled
}

// Toggle flips the enabled state and returns the new one.
func (o *Overlay) Toggle() bool {
	o.enabled = !o.enabled
	return o.enabled
}

// Apply darkens dst outside the snapshot's view. Nothing is drawn when the
// overlay is disabled or the snapshot is insufficient, so missing data never
// hides the world.
func (o *Overlay) Apply(dst render.Image, vd *vision.VisibilityData, cam Camera) {
	if !o.enabled || !vd.Sufficient() || o.darkness == 0 {
		return
	}

	mask := o.maskFor(dst)
	mask.Fill(color.NRGBA{A: uint8(o.darkness*255 + 0.5)})

	cut := &render.DrawTrianglesOptions{AntiAlias: true, Blend: render.BlendClear}
	if vertices, indices := FanMesh(vd, cam); len(indices) > 0 {
		mask.DrawTriangles(vertices, indices, o.whiteImage(), cut)
	}
	if vertices, indices := DiscMesh(vd.Apex, vd.CloseVisionRadius, discSegments, cam); len(indices) > 0 {
		mask.DrawTriangles(vertices, indices, o.whiteImage(), cut)
	}

	dst.DrawImage(mask)
}

// maskFor returns an offscreen image the size of dst, reallocating on resize.
func (o *Overlay) maskFor(dst render.Image) render.Image {
	w, h := dst.Size()
	if o.mask != nil {
		if mw, mh := o.mask.Size(); mw == w && mh == h {
			return o.mask
		}
		o.mask.Dispose()
	}
	o.mask = o.renderer.NewImage(w, h)
	return o.mask
}

// whiteImage is the 1x1 solid source every mesh vertex samples at (1, 1).
func (o *Overlay) whiteImage() render.Image {
	if o.white == nil {
		base := o.renderer.NewImage(3, 3)
		base.Fill(color.White)
		o.white = base.SubImage(image.Rect(1, 1, 2, 2))
	}
	return o.white
}
