package view

// Number is the set of types a DataView can load and store.
type Number interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// SizeOf returns the byte width of T.
func SizeOf[T Number]() uint32 {
	var zero T
	switch any(zero).(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	default:
		return 8
	}
}

// TypeName returns the short name used in errors and the CLI ("u32", "f64", ...).
func TypeName[T Number]() string {
	var zero T
	switch any(zero).(type) {
	case int8:
		return "i8"
	case uint8:
		return "u8"
	case int16:
		return "i16"
	case uint16:
		return "u16"
	case int32:
		return "i32"
	case uint32:
		return "u32"
	case float32:
		return "f32"
	case int64:
		return "i64"
	case uint64:
		return "u64"
	default:
		return "f64"
	}
}

// Load reads a T at byteOffset. littleEndian is ignored for 8-bit types.
func Load[T Number](v *DataView, byteOffset uint32, littleEndian bool) (T, error) {
	var zero T
	var (
		r   any
		err error
	)
	switch any(zero).(type) {
	case int8:
		r, err = v.GetInt8(byteOffset)
	case uint8:
		r, err = v.GetUint8(byteOffset)
	case int16:
		r, err = v.GetInt16(byteOffset, littleEndian)
	case uint16:
		r, err = v.GetUint16(byteOffset, littleEndian)
	case int32:
		r, err = v.GetInt32(byteOffset, littleEndian)
	case uint32:
		r, err = v.GetUint32(byteOffset, littleEndian)
	case float32:
		r, err = v.GetFloat32(byteOffset, littleEndian)
	case int64:
		r, err = v.GetInt64(byteOffset, littleEndian)
	case uint64:
		r, err = v.GetUint64(byteOffset, littleEndian)
	case float64:
		r, err = v.GetFloat64(byteOffset, littleEndian)
	}
	if err != nil {
		return zero, err
	}
	return r.(T), nil
}

// Store writes value at byteOffset. littleEndian is ignored for 8-bit types.
func Store[T Number](v *DataView, byteOffset uint32, value T, littleEndian bool) error {
	switch x := any(value).(type) {
	case int8:
		return v.SetInt8(byteOffset, x)
	case uint8:
		return v.SetUint8(byteOffset, x)
	case int16:
		return v.SetInt16(byteOffset, x, littleEndian)
	case uint16:
		return v.SetUint16(byteOffset, x, littleEndian)
	case int32:
		return v.SetInt32(byteOffset, x, littleEndian)
	case uint32:
		return v.SetUint32(byteOffset, x, littleEndian)
	case float32:
		return v.SetFloat32(byteOffset, x, littleEndian)
	case int64:
		return v.SetInt64(byteOffset, x, littleEndian)
	case uint64:
		return v.SetUint64(byteOffset, x, littleEndian)
	case float64:
		return v.SetFloat64(byteOffset, x, littleEndian)
	}
	return nil
}
