package guest

// Minimal core module assembler for tests.

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func vec(items ...[]byte) []byte {
	return concat(uleb(uint32(len(items))), concat(items...))
}

func name(s string) []byte {
	return concat(uleb(uint32(len(s))), []byte(s))
}

func section(id byte, body []byte) []byte {
	return concat([]byte{id}, uleb(uint32(len(body))), body)
}

func i32Const(v int32) []byte {
	return concat([]byte{0x41}, sleb(v))
}

type segment struct {
	offset int32
	data   []byte
}

type testModule struct {
	memory   bool
	rttiBase *int32
	// failMessage, when set, exports "fail" which calls env.abort with a
	// string placed at failMessage.
	failMessage *int32
	data        []segment
}

func (m testModule) bytes() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	if m.failMessage != nil {
		out = append(out, section(1, vec(
			[]byte{0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x00},
			[]byte{0x60, 0x00, 0x00},
		))...)
		out = append(out, section(2, vec(
			concat(name("env"), name("abort"), []byte{0x00, 0x00}),
		))...)
		out = append(out, section(3, vec([]byte{0x01}))...)
	}
	if m.memory {
		out = append(out, section(5, vec([]byte{0x00, 0x01}))...)
	}
	if m.rttiBase != nil {
		out = append(out, section(6, vec(
			concat([]byte{0x7f, 0x00}, i32Const(*m.rttiBase), []byte{0x0b}),
		))...)
	}

	var exports [][]byte
	if m.memory {
		exports = append(exports, concat(name("memory"), []byte{0x02, 0x00}))
	}
	if m.rttiBase != nil {
		exports = append(exports, concat(name("__rtti_base"), []byte{0x03, 0x00}))
	}
	if m.failMessage != nil {
		exports = append(exports, concat(name("fail"), []byte{0x00, 0x01}))
	}
	if len(exports) > 0 {
		out = append(out, section(7, vec(exports...))...)
	}

	if m.failMessage != nil {
		body := concat(
			[]byte{0x00}, // no locals
			i32Const(*m.failMessage),
			i32Const(0),
			i32Const(7),
			i32Const(3),
			[]byte{0x10, 0x00}, // call abort
			[]byte{0x0b},
		)
		out = append(out, section(10, vec(concat(uleb(uint32(len(body))), body)))...)
	}

	if len(m.data) > 0 {
		segs := make([][]byte, len(m.data))
		for i, s := range m.data {
			segs[i] = concat([]byte{0x00}, i32Const(s.offset), []byte{0x0b}, uleb(uint32(len(s.data))), s.data)
		}
		out = append(out, section(11, vec(segs...))...)
	}
	return out
}

// asString lays out s (BMP only) as a length-prefixed UTF-16LE string whose payload
// starts 4 bytes after the segment offset.
func asString(s string) []byte {
	runes := []rune(s)
	out := make([]byte, 4, 4+2*len(runes))
	n := uint32(2 * len(runes))
	out[0], out[1], out[2], out[3] = byte(n), byte(n>>8), byte(n>>16), byte(n>>24)
	for _, r := range runes {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}

func ptr(v int32) *int32 { return &v }
