package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/hailam/dragboard/internal/obslog"
)

// One pass of a 9-tap Gaussian along Dir. Run twice for a 2D blur.
var blurShaderSrc = []byte(`
//kage:unit pixels

package main

var Dir vec2

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
    var acc vec4
    acc += imageSrc0At(srcPos - 4*Dir) * 0.0162
    acc += imageSrc0At(srcPos - 3*Dir) * 0.0540
    acc += imageSrc0At(srcPos - 2*Dir) * 0.1218
    acc += imageSrc0At(srcPos - 1*Dir) * 0.1954
    acc += imageSrc0At(srcPos) * 0.2252
    acc += imageSrc0At(srcPos + 1*Dir) * 0.1954
    acc += imageSrc0At(srcPos + 2*Dir) * 0.1218
    acc += imageSrc0At(srcPos + 3*Dir) * 0.0540
    acc += imageSrc0At(srcPos + 4*Dir) * 0.0162
    return acc
}
`)

var tintShaderSrc = []byte(`
//kage:unit pixels

package main

var Tint vec4

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
    return mix(imageSrc0At(srcPos), vec4(Tint.rgb, 1.0), Tint.a)
}
`)

// Frost blurs and tints a region of the screen, used behind the promotion
// picker. Without shader support it falls back to a flat translucent fill.
type Frost struct {
	Sigma float64
	Tint  color.RGBA

	compiled bool
	blur     *ebiten.Shader
	tint     *ebiten.Shader
	a, b     *ebiten.Image
}

// NewFrost returns a frost with the given blur spread and tint.
func NewFrost(sigma float64, tint color.RGBA) *Frost {
	return &Frost{Sigma: sigma, Tint: tint}
}

func (f *Frost) compile() {
	f.compiled = true
	var err error
	if f.blur, err = ebiten.NewShader(blurShaderSrc); err != nil {
		obslog.L().Warn("blur shader unavailable", zap.Error(err))
		return
	}
	if f.tint, err = ebiten.NewShader(tintShaderSrc); err != nil {
		obslog.L().Warn("tint shader unavailable", zap.Error(err))
		f.blur = nil
	}
}

// Available reports whether the shaders compiled. It is false until the
// first Draw.
func (f *Frost) Available() bool {
	return f.blur != nil && f.tint != nil
}

func (f *Frost) buffers(w, h int) {
	if f.a == nil || f.a.Bounds().Dx() != w || f.a.Bounds().Dy() != h {
		f.a = ebiten.NewImage(w, h)
		f.b = ebiten.NewImage(w, h)
	}
}

// Draw frosts r on screen in place.
func (f *Frost) Draw(screen *ebiten.Image, r image.Rectangle) {
	if r.Empty() {
		return
	}
	if !f.compiled {
		f.compile()
	}
	if !f.Available() {
		vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), f.Tint, false)
		return
	}

	w, h := r.Dx(), r.Dy()
	f.buffers(w, h)
	f.a.Clear()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(-r.Min.X), float64(-r.Min.Y))
	f.a.DrawImage(screen, op)

	f.pass(f.b, f.a, []float32{float32(f.Sigma), 0})
	f.pass(f.a, f.b, []float32{0, float32(f.Sigma)})

	top := &ebiten.DrawRectShaderOptions{
		Uniforms: map[string]any{"Tint": tintUniform(f.Tint)},
		Images:   [4]*ebiten.Image{f.a},
	}
	top.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	screen.DrawRectShader(w, h, f.tint, top)
}

func (f *Frost) pass(dst, src *ebiten.Image, dir []float32) {
	dst.Clear()
	b := src.Bounds()
	dst.DrawRectShader(b.Dx(), b.Dy(), f.blur, &ebiten.DrawRectShaderOptions{
		Uniforms: map[string]any{"Dir": dir},
		Images:   [4]*ebiten.Image{src},
	})
}

// tintUniform converts c to the shader's 0..1 vec4.
func tintUniform(c color.RGBA) []float32 {
	return []float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}
