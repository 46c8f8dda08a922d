// Package formats provides decoders for the on-disk terrain formats:
// heightfield cells (hf.cell) and textured quadtrees (*.tqt).
//
// Both formats share the same layout convention: a fixed little-endian
// header, one uint64 offset per quadtree node in canonical order (see
// quadtree.NodeIndex), then the node records at those offsets.
package formats

// Note: the cell format is implemented in cell.go
// Note: the textured quadtree format is implemented in tqt.go
