// Package patch synthesizes calibrated pinhole images from equirectangular
// panoramas.
//
// # Projections
//
// SphericalToPatch unprojects every destination pixel through the pinhole
// camera's intrinsics, giving a rectilinear view that downstream feature
// extraction treats like a native photograph. SphericalToTangent spreads the
// same field of view over a grid that is uniform in angle on the tangent
// plane; it matches SphericalToPatch at the center and drifts toward the
// edges.
//
// Both share one sampling core: the destination ray is rotated into the
// panorama frame, addressed as longitude/latitude, and sampled bilinearly with
// wraparound across the +/-180 degree seam and clamping at the poles.
//
// # Batches
//
// SphericalToPinhole renders a batch of (image id, rotation) pairs on a
// bounded pool of goroutines. The source panorama is shared read-only; every
// item owns its destination bitmap and output file, so one item's failure
// never affects another.
//
// # Thread Safety
//
// All functions are safe for concurrent use. Logf, Debugf, SetLogger and
// SetDebug are not; configure logging before starting work.
package patch
