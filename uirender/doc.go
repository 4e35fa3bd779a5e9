// Package uirender draws immediate-mode UI draw lists through a
// GraphicsDevice.
//
// A UI layer lays out widgets between BeforeLayout and AfterLayout and hands
// the resulting DrawData to AfterLayout, which uploads the geometry and
// records one indexed draw per DrawCommand, clipped by a scissor rectangle.
// Textures are referenced by opaque TextureID values obtained from
// BindTexture:
//
//	r, err := uirender.New(device, uirender.ConfigFor(target))
//	font, err := r.BindTexture(atlas)
//	...
//	r.BeforeLayout(target)
//	// build DrawData referencing font and r.White()
//	err = r.AfterLayout(data)
package uirender
