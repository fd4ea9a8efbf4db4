// Package guest loads a core WebAssembly module with wazero and exposes its
// linear memory as a DataView together with the runtime type table the module
// exports.
//
// The host module "env" provides the imports an AssemblyScript module expects
// from its loader:
//
//	abort(message: usize, fileName: usize, line: u32, column: u32)
//	trace(message: usize, n: i32, a0..a4: f64)
//	seed(): f64
//
// Strings are read straight out of guest memory through the view.
package guest
