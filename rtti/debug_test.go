//go:build rttidebug

package rtti

import "testing"

func TestDebugAssertions_PanicOnMalformed(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewTable should panic on two shape bits in a debug build")
		}
	}()
	NewTable([]Typeinfo{{Flags: Array | Set}})
}
