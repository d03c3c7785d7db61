// Package imaging implements the raster side of QuickPass: decoding acquired
// photos and composing them into fixed-size document images.
//
// Rendering uses golang.org/x/image/draw with a Catmull-Rom kernel. WebP input
// is decoded with golang.org/x/image/webp; output is always JPEG.
package imaging
