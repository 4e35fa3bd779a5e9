// Package imaging prepares images for upload to rhi textures.
//
// It decodes the formats golang.org/x/image adds to the standard library,
// converts any image.Image to tightly packed RGBA8, builds mip chains with
// bilinear filtering and uploads whole chains to Texture2D and Cubemap
// resources. Cubemap faces are prepared concurrently.
package imaging
