// Package imaging holds the raster side of character segmentation: decoding
// scans, cropping regions, binarizing them and rendering diagnostic plots.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. A Region
// covers rows [Top, Bottom) and columns [Left, Right). Crops returned by
// CropRegion are re-based to (0,0); the clamped Region tells the caller where
// the crop sat in the source image.
//
// # Binarization
//
// Binarize converts to BT.601 luminance, picks a global threshold with Otsu's
// method and inverts the result: ink pixels are 255, paper is 0. Column sums
// of the mask are therefore multiples of 255, and the empirical thresholds in
// package segment are tuned to that scale.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless and
// allocate their own buffers, so they can run concurrently on shared, unmodified
// images.
//
// # Errors
//
// Decoding failures wrap ErrUndecodable; empty or fully out-of-bounds crops wrap
// ErrEmptyRegion. Use errors.Is to classify them.
package imaging
