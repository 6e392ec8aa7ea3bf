// Package imaging turns source images into the darkness fields the string-art
// engine consumes.
//
// The pipeline is: decode (PNG, JPEG, GIF or BMP) through ImageCache, an
// optional crop to a region of interest, ResizeForProcessing to bound run
// time, and then either PrepareGray for a single darkness field or
// PrepareColor for four CMYK channel fields. Prepare bundles the last three
// steps.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the
// top-left corner, X increasing rightward and Y increasing downward. Regions
// are half-open: (X1,Y1) is inclusive and (X2,Y2) is exclusive.
//
// # Darkness
//
// A darkness value is 1 for full ink and 0 for none. In grayscale mode it is
// (255 - luminance) / 255. In color mode each channel's darkness is the
// amount of that ink the CMYK separation calls for.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The preparation functions are
// stateless and never modify their input image.
package imaging
