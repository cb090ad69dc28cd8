// Package serialization implements the .dynm checkpoint format.
//
// A .dynm file is a 64-byte fixed header (magic, version, sizes, SHA-256
// checksum of the data section), a JSON manifest describing each tensor,
// alignment padding, and the raw tensor data laid out back to back in
// manifest order. Tensors are keyed by their fully qualified parameter
// path and written in sorted-name order, so two checkpoints of the same
// model are byte-comparable.
package serialization
