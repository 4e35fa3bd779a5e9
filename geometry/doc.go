// Package geometry builds meshes and camera matrices that respect a
// device's coordinate conventions.
//
// Code that draws full-screen quads or renders cubemap faces asks the
// device once through Conventions instead of branching per backend:
//
//	quad := geometry.FullscreenQuad(device)
//	proj := geometry.Perspective(mgl32.DegToRad(60), aspect, 0.1, 100, device)
package geometry
