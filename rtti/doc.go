// Package rtti implements the runtime type information table a collector or
// reflection layer consults to learn the shape of a value's type.
//
// # Wire Layout
//
// The table is a sequence of little-endian u32 words:
//
//	word 0          count
//	word 1 + 2*id   flags of type id
//	word 2 + 2*id   base type id of type id, 0 if none
//
// Flags pack, LSB first:
//
//	bit  0..2   shape: array, set, map (at most one)
//	bit  3      acyclic
//	bit  4..8   value alignment one-hot: 1, 2, 4, 8, 16 bytes
//	bit  9      value nullable
//	bit  10     value managed
//	bit  11..15 key alignment one-hot: 1, 2, 4, 8, 16 bytes
//	bit  16     key nullable
//	bit  17     key managed
//
// Code generators and runtimes must agree on this layout byte for byte.
//
// # Decoding
//
// Queries decode the one-hot groups into Shape and Align values. A table is
// trusted at query time: ids must be below Count, and a malformed group
// decodes to its lowest set bit. Validate reports every violation, and
// building with -tags rttidebug makes NewTable and Decode panic on a
// malformed table.
package rtti
