// Package sphere converts between the coordinate systems a panoramic camera
// shares with the pinhole reconstruction pipeline.
//
// # Coordinate System
//
// Camera and panorama frames use the same axes:
//   - X points right
//   - Y points down
//   - Z points forward (the optical axis)
//
// A normalized image point (u, v) is the intersection of a ray with the plane
// Z = 1. A bearing vector is the unit-length direction of that ray.
//
// Longitude and latitude are in degrees:
//   - lon = atan2(X, Z), wrapped to [-180, 180); 0 looks forward, +90 looks right
//   - lat = asin(-Y), in [-90, 90]; +90 looks straight up
//
// An equirectangular panorama of W x H pixels maps longitude linearly across
// its width and latitude linearly down its height; the left edge is lon -180 and
// the top edge is lat +90.
//
// # Rotations
//
// A Rotation maps rays from a virtual pinhole camera frame into the panorama
// frame: v_sphere = R * v_cam. GetTangentPlaneRotation composes
// Ry(lon) * Rx(lat) * Rz(roll), so the camera's optical axis lands on
// (lon, lat) and roll spins the image about that axis.
//
// # Error Handling
//
// Degenerate inputs (non-positive dimensions, out-of-range field of view,
// vectors with no usable depth, non-orthonormal rotations) return errors
// wrapping ErrInvalidParameter.
package sphere
