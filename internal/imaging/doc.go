// Package imaging holds the pixel-geometry side of media resolution: probing
// the dimensions of raster files and computing crop rectangles.
//
// All rectangles use a top-left origin with X increasing rightward and Y
// increasing downward. A crop's (Left,Top) corner is inclusive and its
// (Right,Bottom) corner exclusive.
//
// # Thread Safety
//
// DimensionCache is safe for concurrent use. The geometry functions are pure.
//
// # Orientation
//
// Probed dimensions honour the EXIF orientation tag, so a portrait photo stored
// as landscape pixels with orientation 6 reports portrait dimensions. Crops
// computed by authoring tools are expressed against the oriented image.
package imaging
