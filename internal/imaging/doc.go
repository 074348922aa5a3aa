// Package imaging provides the raster side of the annotator: loading source
// images, drawing detection boxes with their confidence labels, and writing
// the annotated artifacts as JPEG files.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Surfaces
//
// A Surface is a private RGBA copy of a source image. Drawing never touches
// the decoded source, so one Source can feed any number of render passes,
// each starting from the decoded source pixels.
//
// # Boxes and Labels
//
// DrawBox outlines a box with a closed rectangle of fixed line width
// (LineWidth pixels) and writes a text label just above the top edge. Parts of
// the outline that fall outside the canvas are clipped. The label's vertical
// position is mirrored into the canvas when the box sits at the very top of
// the image, so the text never starts at a negative Y.
//
// # Colors
//
// The two annotation colors are defined in Palette: red for the aggregate
// artifact and green for per-target artifacts.
//
// # Saving
//
// SaveJPEG creates or truncates the destination and encodes into it.
// SaveJPEGDurable additionally fsyncs the file before closing it, for copies
// that must be on disk once the call returns.
package imaging
