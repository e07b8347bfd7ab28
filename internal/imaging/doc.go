// Package imaging holds the pixel buffers the projection code reads and writes.
//
// Bitmap is an RGBA raster with bilinear sampling, the resize used to fit a
// panorama to its sphere camera, and the drawing helpers behind footprint
// overlays. ImageCache decodes panoramas once and shares them between
// concurrent patch workers, and SaveBitmap encodes patches by file extension.
//
// # Coordinate System
//
// Integer pixel indices are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward. Continuous image coordinates put the
// center of pixel (i, j) at (i+0.5, j+0.5); InterpolateBilinear takes pixel
// index coordinates, so callers holding image coordinates subtract 0.5.
//
// # Border Handling
//
// BorderUndefined reports no sample outside [0, W-1] x [0, H-1].
// BorderWrapClamp wraps columns and clamps rows, which is what an
// equirectangular panorama needs at its seam and poles.
//
// # Color Representation
//
// Sampled colors are returned in multiple formats:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Bitmaps returned by the cache are
// shared and must be treated as read-only; reading one Bitmap from many
// goroutines is safe.
//
// # Performance Considerations
//
// An 8192x4096 panorama occupies 128 MiB once decoded. Long-running processes
// should Evict() panoramas they are done with.
package imaging
