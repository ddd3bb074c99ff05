// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package serialize

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/pkg/errors"

	"code.hybscloud.com/rpccore"
)

// ErrUnsupportedType is returned for Go values/shapes this codec has no
// encoding for (channels, funcs, interfaces with no concrete value, etc).
var ErrUnsupportedType = rpccore.ErrInvalidArgument

// Unmarshal decodes data into v, which must be a non-nil pointer to the same
// shape Marshal was given.
func Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.Wrap(ErrUnsupportedType, "serialize.Unmarshal: v must be a non-nil pointer")
	}
	n, err := decodeValue(data, rv.Elem())
	if err != nil {
		return err
	}
	if n != len(data) {
		return errors.Wrapf(rpccore.ErrDecode, "serialize.Unmarshal: %d trailing bytes", len(data)-n)
	}
	return nil
}

func decodeValue(data []byte, rv reflect.Value) (n int, err error) {
	rt := rv.Type()

	if rt == reflect.TypeOf(Void{}) {
		return 0, nil // encodes to nothing, per the source's type_void
	}

	if isFundamental(rt) {
		return decodeFundamental(data, rv)
	}

	if isAutoSizeScalar(rt.Kind()) {
		return decodeAutoSizeScalar(data, rv)
	}

	switch rt.Kind() {
	case reflect.String:
		body, n, err := takeNonFundamental(data)
		if err != nil {
			return 0, err
		}
		rv.SetString(string(body))
		return n, nil

	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			body, n, err := takeNonFundamental(data)
			if err != nil {
				return 0, err
			}
			b := make([]byte, len(body))
			copy(b, body)
			rv.SetBytes(b)
			return n, nil
		}
		return decodeSequenceIntoSlice(data, rv)

	case reflect.Array:
		if rt.Elem().Kind() == reflect.Uint8 {
			body, n, err := takeNonFundamental(data)
			if err != nil {
				return 0, err
			}
			reflect.Copy(rv, reflect.ValueOf(body))
			return n, nil
		}
		return decodeSequenceIntoArray(data, rv)

	case reflect.Map:
		return decodeMap(data, rv)

	case reflect.Ptr:
		return decodePtr(data, rv)

	case reflect.Struct:
		if handled, n, err := decodeOptional(data, rv); handled {
			return n, err
		}
		return decodeStruct(data, rv)

	default:
		return 0, errors.Wrapf(ErrUnsupportedType, "serialize: kind %s", rt.Kind())
	}
}

func decodeFundamental(data []byte, rv reflect.Value) (int, error) {
	rt := rv.Type()
	w := fundamentalWidth(rt.Kind())
	if len(data) < w {
		return 0, rpccore.ErrDecode
	}
	b := data[:w]
	switch rt.Kind() {
	case reflect.Bool:
		rv.SetBool(b[0] != 0)
	case reflect.Int8:
		rv.SetInt(int64(int8(b[0])))
	case reflect.Int16:
		rv.SetInt(int64(int16(binary.LittleEndian.Uint16(b))))
	case reflect.Uint8:
		rv.SetUint(uint64(b[0]))
	case reflect.Uint16:
		rv.SetUint(uint64(binary.LittleEndian.Uint16(b)))
	case reflect.Float32:
		rv.SetFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(b))))
	case reflect.Float64:
		rv.SetFloat(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	case reflect.Complex64:
		re := math.Float32frombits(binary.LittleEndian.Uint32(b[0:4]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(b[4:8]))
		rv.SetComplex(complex(float64(re), float64(im)))
	case reflect.Complex128:
		re := math.Float64frombits(binary.LittleEndian.Uint64(b[0:8]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(b[8:16]))
		rv.SetComplex(complex(re, im))
	}
	return w, nil
}

// decodeAutoSizeScalar decodes a ≥32-bit integer (or a named type built on
// one) via auto_size, symmetric with encodeAutoSizeScalar.
func decodeAutoSizeScalar(data []byte, rv reflect.Value) (int, error) {
	if isSignedAutoSizeScalar(rv.Kind()) {
		v, n, ok := decodeAutoSizeSigned(data)
		if !ok {
			return 0, rpccore.ErrDecode
		}
		rv.SetInt(v)
		return n, nil
	}
	v, n, ok := decodeAutoSize(data)
	if !ok {
		return 0, rpccore.ErrDecode
	}
	rv.SetUint(v)
	return n, nil
}

func decodeSequenceIntoSlice(data []byte, rv reflect.Value) (int, error) {
	body, total, err := takeNonFundamental(data)
	if err != nil {
		return 0, err
	}
	count, hn, ok := decodeAutoSize(body)
	if !ok {
		return 0, rpccore.ErrDecode
	}
	body = body[hn:]
	elemType := rv.Type().Elem()
	out := reflect.MakeSlice(rv.Type(), int(count), int(count))
	for i := 0; i < int(count); i++ {
		ev := reflect.New(elemType).Elem()
		n, err := decodeValue(body, ev)
		if err != nil {
			return 0, errors.Wrapf(err, "serialize: element %d", i)
		}
		out.Index(i).Set(ev)
		body = body[n:]
	}
	rv.Set(out)
	return total, nil
}

func decodeSequenceIntoArray(data []byte, rv reflect.Value) (int, error) {
	body, total, err := takeNonFundamental(data)
	if err != nil {
		return 0, err
	}
	count, hn, ok := decodeAutoSize(body)
	if !ok {
		return 0, rpccore.ErrDecode
	}
	body = body[hn:]
	if int(count) != rv.Len() {
		return 0, errors.Wrapf(rpccore.ErrDecode, "serialize: array length mismatch: wire %d, type %d", count, rv.Len())
	}
	for i := 0; i < rv.Len(); i++ {
		n, err := decodeValue(body, rv.Index(i))
		if err != nil {
			return 0, errors.Wrapf(err, "serialize: element %d", i)
		}
		body = body[n:]
	}
	return total, nil
}

func decodeMap(data []byte, rv reflect.Value) (int, error) {
	body, total, err := takeNonFundamental(data)
	if err != nil {
		return 0, err
	}
	count, hn, ok := decodeAutoSize(body)
	if !ok {
		return 0, rpccore.ErrDecode
	}
	body = body[hn:]
	mt := rv.Type()
	out := reflect.MakeMapWithSize(mt, int(count))
	for i := 0; i < int(count); i++ {
		kv := reflect.New(mt.Key()).Elem()
		n, err := decodeValue(body, kv)
		if err != nil {
			return 0, errors.Wrap(err, "serialize: map key")
		}
		body = body[n:]

		vv := reflect.New(mt.Elem()).Elem()
		n, err = decodeValue(body, vv)
		if err != nil {
			return 0, errors.Wrap(err, "serialize: map value")
		}
		body = body[n:]

		out.SetMapIndex(kv, vv)
	}
	rv.Set(out)
	return total, nil
}

func decodeStruct(data []byte, rv reflect.Value) (int, error) {
	body, total, err := takeNonFundamental(data)
	if err != nil {
		return 0, err
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" {
			continue
		}
		n, err := decodeValue(body, rv.Field(i))
		if err != nil {
			return 0, errors.Wrapf(err, "serialize: field %s", f.Name)
		}
		body = body[n:]
	}
	return total, nil
}

func decodePtr(data []byte, rv reflect.Value) (int, error) {
	body, total, err := takeNonFundamental(data)
	if err != nil {
		return 0, err
	}
	if len(body) < 1 {
		return 0, rpccore.ErrDecode
	}
	if body[0] == 0 {
		rv.Set(reflect.Zero(rv.Type()))
		return total, nil
	}
	elem := reflect.New(rv.Type().Elem())
	if _, err := decodeValue(body[1:], elem.Elem()); err != nil {
		return 0, err
	}
	rv.Set(elem)
	return total, nil
}

// decodeOptional mirrors encodeOptional's shape detection for Optional[T].
func decodeOptional(data []byte, rv reflect.Value) (handled bool, n int, err error) {
	rt := rv.Type()
	if rt.Kind() != reflect.Struct || rt.NumField() != 2 {
		return false, 0, nil
	}
	if rt.Field(0).Name != "Valid" || rt.Field(1).Name != "Value" || rt.Field(0).Type.Kind() != reflect.Bool {
		return false, 0, nil
	}
	body, total, err := takeNonFundamental(data)
	if err != nil {
		return true, 0, err
	}
	if len(body) < 1 {
		return true, 0, rpccore.ErrDecode
	}
	if body[0] == 0 {
		rv.Set(reflect.Zero(rt))
		return true, total, nil
	}
	if _, err := decodeValue(body[1:], rv.Field(1)); err != nil {
		return true, 0, err
	}
	rv.Field(0).SetBool(true)
	return true, total, nil
}
