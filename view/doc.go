// Package view provides DataView, a bounds-checked window over a
// linmem.Buffer with typed accessors for fixed-width numbers.
//
// # Byte Order
//
// Multi-byte accessors take a littleEndian flag. The zero value, exported as
// BigEndian, selects network byte order regardless of the host. Values are
// loaded in host order and byte-reversed with Reverse when the requested order
// differs, so floats keep their exact IEEE-754 bit pattern, NaN payloads
// included.
//
// # Bounds
//
// A view is fixed at construction: ByteOffset and ByteLength never change.
// Every access checks offset+width against ByteLength using the full width of
// the accessed type and fails with an errors.KindOutOfBounds error before
// touching memory. Construction fails with errors.KindInvalidRange when the
// extent does not fit the buffer or exceeds Config.MaxByteLength.
//
// # Usage
//
//	dv, err := view.NewRange(buf, 8, 16)
//	if err != nil {
//	    return err
//	}
//	if err := dv.SetFloat64(0, 1.5, view.LittleEndian); err != nil {
//	    return err
//	}
//	f, err := dv.GetFloat64(0, view.LittleEndian)
//
// DataView does no locking. Concurrent use of views sharing a buffer must be
// synchronized by the caller.
package view
