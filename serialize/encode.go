// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package serialize

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/pkg/errors"
)

// Marshal encodes v's structural representation. v must be a struct, a
// pointer to one, or one of the fundamental/container types this package
// understands directly — matching the shapes a command or response payload
// takes in practice.
func Marshal(v interface{}) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, errors.Wrap(ErrUnsupportedType, "serialize.Marshal: nil value")
	}
	return encodeValue(nil, rv)
}

func encodeValue(buf []byte, rv reflect.Value) ([]byte, error) {
	rt := rv.Type()

	if rt == reflect.TypeOf(Void{}) {
		return buf, nil // encodes to nothing, per the source's type_void
	}

	if isFundamental(rt) {
		return encodeFundamental(buf, rv), nil
	}

	if isAutoSizeScalar(rt.Kind()) {
		return encodeAutoSizeScalar(buf, rv), nil
	}

	switch rt.Kind() {
	case reflect.String:
		return wrapNonFundamental(buf, []byte(rv.String())), nil

	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return wrapNonFundamental(buf, rv.Bytes()), nil
		}
		return encodeSequence(buf, rv)

	case reflect.Array:
		if rt.Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return wrapNonFundamental(buf, b), nil
		}
		return encodeSequence(buf, rv)

	case reflect.Map:
		return encodeMap(buf, rv)

	case reflect.Ptr:
		return encodeOptionalLike(buf, rv.IsNil(), func() (reflect.Value, bool) { return rv.Elem(), !rv.IsNil() })

	case reflect.Struct:
		if enc, handled, err := encodeOptional(rv); handled {
			if err != nil {
				return nil, err
			}
			return wrapNonFundamental(buf, enc), nil
		}
		return encodeStruct(buf, rv)

	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "serialize: kind %s", rt.Kind())
	}
}

func encodeFundamental(buf []byte, rv reflect.Value) []byte {
	rt := rv.Type()
	w := fundamentalWidth(rt.Kind())
	var tmp [16]byte
	switch rt.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			tmp[0] = 1
		}
	case reflect.Int8, reflect.Int16:
		putInt(tmp[:w], rv.Int())
	case reflect.Uint8, reflect.Uint16:
		putUint(tmp[:w], rv.Uint())
	case reflect.Float32:
		binary.LittleEndian.PutUint32(tmp[:4], math.Float32bits(float32(rv.Float())))
	case reflect.Float64:
		binary.LittleEndian.PutUint64(tmp[:8], math.Float64bits(rv.Float()))
	case reflect.Complex64:
		c := complex64(rv.Complex())
		binary.LittleEndian.PutUint32(tmp[:4], math.Float32bits(real(c)))
		binary.LittleEndian.PutUint32(tmp[4:8], math.Float32bits(imag(c)))
	case reflect.Complex128:
		c := rv.Complex()
		binary.LittleEndian.PutUint64(tmp[:8], math.Float64bits(real(c)))
		binary.LittleEndian.PutUint64(tmp[8:16], math.Float64bits(imag(c)))
	}
	return append(buf, tmp[:w]...)
}

func putInt(b []byte, v int64) {
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	}
}

func putUint(b []byte, v uint64) {
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	}
}

// encodeAutoSizeScalar encodes a ≥32-bit integer (or a named type built on
// one, including an enum or time.Duration) via auto_size, per spec §4.2's
// "Integer fundamentals (≥32-bit ...): auto_size variant; preserves sign"
// and "Enumerations: encoded as their underlying integer via auto_size".
func encodeAutoSizeScalar(buf []byte, rv reflect.Value) []byte {
	if isSignedAutoSizeScalar(rv.Kind()) {
		return appendAutoSizeSigned(buf, rv.Int())
	}
	return appendAutoSize(buf, rv.Uint())
}

func encodeSequence(buf []byte, rv reflect.Value) ([]byte, error) {
	var enc []byte
	enc = appendAutoSize(enc, uint64(rv.Len()))
	for i := 0; i < rv.Len(); i++ {
		var err error
		enc, err = encodeValue(enc, rv.Index(i))
		if err != nil {
			return nil, errors.Wrapf(err, "serialize: element %d", i)
		}
	}
	return wrapNonFundamental(buf, enc), nil
}

func encodeMap(buf []byte, rv reflect.Value) ([]byte, error) {
	var enc []byte
	keys := rv.MapKeys()
	enc = appendAutoSize(enc, uint64(len(keys)))
	for _, k := range keys {
		var err error
		enc, err = encodeValue(enc, k)
		if err != nil {
			return nil, errors.Wrap(err, "serialize: map key")
		}
		enc, err = encodeValue(enc, rv.MapIndex(k))
		if err != nil {
			return nil, errors.Wrap(err, "serialize: map value")
		}
	}
	return wrapNonFundamental(buf, enc), nil
}

func encodeStruct(buf []byte, rv reflect.Value) ([]byte, error) {
	rt := rv.Type()
	var enc []byte
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" {
			continue // unexported, matches original's public-member-only field list
		}
		var err error
		enc, err = encodeValue(enc, rv.Field(i))
		if err != nil {
			return nil, errors.Wrapf(err, "serialize: field %s", f.Name)
		}
	}
	return wrapNonFundamental(buf, enc), nil
}

// encodeOptional special-cases Optional[T], whose generic instantiation
// reflect cannot name structurally; it is detected by field shape alone
// (exactly two fields, Valid bool then Value T), so any struct of that shape
// is encoded the same way.
func encodeOptional(rv reflect.Value) (enc []byte, handled bool, err error) {
	rt := rv.Type()
	if rt.Kind() != reflect.Struct || rt.NumField() != 2 {
		return nil, false, nil
	}
	if rt.Field(0).Name != "Valid" || rt.Field(1).Name != "Value" {
		return nil, false, nil
	}
	if rt.Field(0).Type.Kind() != reflect.Bool {
		return nil, false, nil
	}
	valid := rv.Field(0).Bool()
	enc, err = encodeOptionalLikeBody(valid, rv.Field(1))
	return enc, true, err
}

func encodeOptionalLikeBody(present bool, value reflect.Value) ([]byte, error) {
	if !present {
		return []byte{0}, nil
	}
	enc, err := encodeValue([]byte{1}, value)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

func encodeOptionalLike(buf []byte, isNil bool, deref func() (reflect.Value, bool)) ([]byte, error) {
	v, present := deref()
	enc, err := encodeOptionalLikeBody(present, v)
	if err != nil {
		return nil, err
	}
	return wrapNonFundamental(buf, enc), nil
}
