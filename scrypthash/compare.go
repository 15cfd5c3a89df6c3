package scrypthash

import "crypto/subtle"

// ConstantTimeEqual reports whether a and b hold the same bytes, in time
// that does not depend on where, if anywhere, they first differ.
//
// Operands of different lengths compare unequal, but the length check itself
// runs in time independent of content: every byte of the longer operand is
// folded into the accumulator regardless of earlier mismatches, so timing
// cannot distinguish "wrong at byte 0" from "wrong at byte k".
func ConstantTimeEqual(a, b []byte) bool {
	lenEq := subtle.ConstantTimeEq(int32(len(a)), int32(len(b)))

	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	var acc byte
	for i := 0; i < n; i++ {
		var x, y byte
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		acc |= x ^ y
	}
	return subtle.ConstantTimeByteEq(acc, 0)&lenEq == 1
}
