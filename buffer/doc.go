// Package buffer provides linmem.Buffer implementations.
//
// Owned wraps a Go byte slice. Wazero adapts the linear memory of an
// instantiated wazero module so that views can be laid over guest memory
// directly; writes through a view land in the guest.
package buffer
