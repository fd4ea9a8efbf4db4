// Package witgen derives runtime type descriptors from WIT type definitions.
//
// It is a table generator: each heap-allocated WIT type becomes one record.
//
// # Mapping
//
//   - list<tuple<K, V>> becomes a map with K in the key slot and V in the value slot
//   - any other list<T> becomes an array with T in the value slot
//   - string, record, tuple, variant, enum, flags, option, result and
//     resource handles become plain types
//
// Slot alignment is the Canonical ABI alignment of the element. A slot is
// managed when the element is or contains a string, list or resource handle,
// and nullable when the element is an option. A type is acyclic unless it can
// reach a resource handle, since handles may refer to arbitrary guest state.
//
// Scalars have no descriptor of their own and are rejected by Add.
package witgen
