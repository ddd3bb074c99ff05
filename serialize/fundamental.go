// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package serialize

import "reflect"

// isFundamental reports whether rt encodes inline, at fixed width, with no
// AutoSize wrapper — the source's "fixed-width fundamental" group: bool,
// char, and 8/16-bit integers, plus the IEEE float/complex types, which the
// source also encodes at a fixed raw width rather than through auto_size.
func isFundamental(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Bool,
		reflect.Int8, reflect.Int16,
		reflect.Uint8, reflect.Uint16,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

func fundamentalWidth(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Float32:
		return 4
	case reflect.Float64:
		return 8
	case reflect.Complex64:
		return 8
	case reflect.Complex128:
		return 16
	default:
		return 0
	}
}

// isAutoSizeScalar reports whether k is one of the ≥32-bit integer kinds the
// source routes through auto_size instead of a fixed width — its
// auto_intmax/auto_uintmax instantiations, and by extension any named type
// (including enums and time.Duration) whose underlying kind is one of
// these, since reflect.Kind never distinguishes a named type from its
// underlying one.
func isAutoSizeScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

// isSignedAutoSizeScalar reports whether k's auto_size encoding must go
// through the sign-preserving (auto_intmax) path rather than the unsigned
// (auto_uintmax) one.
func isSignedAutoSizeScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}
