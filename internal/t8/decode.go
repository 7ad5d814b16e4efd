package t8

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ArrayFormat selects the wire encoding of a sample array. The device
// base64-encodes every array; zint and zlib additionally deflate it.
type ArrayFormat string

const (
	// FormatZint is zlib-deflated little-endian int16 samples. Values must be
	// scaled by the record's factor to recover engineering units.
	FormatZint ArrayFormat = "zint"
	// FormatZlib is zlib-deflated little-endian float32 samples.
	FormatZlib ArrayFormat = "zlib"
	// FormatB64 is raw little-endian float32 samples.
	FormatB64 ArrayFormat = "b64"
)

// decodeArray reverses the base64 (and, for zint/zlib, the deflate) layer
// and returns the raw sample bytes.
func decodeArray(raw string, format ArrayFormat) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode base64 array: %w", err)
	}
	switch format {
	case FormatZint, FormatZlib:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open zlib array: %w", err)
		}
		defer func() { _ = r.Close() }()
		inflated, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("inflate array: %w", err)
		}
		return inflated, nil
	case FormatB64:
		return data, nil
	default:
		return nil, fmt.Errorf("unknown array format %q", format)
	}
}

// decodeFloats decodes a sample array into float64 values. For zint the
// samples are int16 counts; for zlib and b64 they are float32.
func decodeFloats(raw string, format ArrayFormat) ([]float64, error) {
	data, err := decodeArray(raw, format)
	if err != nil {
		return nil, err
	}
	if format == FormatZint {
		if len(data)%2 != 0 {
			return nil, fmt.Errorf("int16 array has odd length %d", len(data))
		}
		out := make([]float64, len(data)/2)
		for i := range out {
			out[i] = float64(int16(binary.LittleEndian.Uint16(data[i*2:])))
		}
		return out, nil
	}
	return float32sToFloat64s(data)
}

func float32sToFloat64s(data []byte) ([]float64, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("float32 array length %d is not a multiple of 4", len(data))
	}
	out := make([]float64, len(data)/4)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
	}
	return out, nil
}

// decodeUint32s decodes a zlib array of uint32 values (trend timestamps).
func decodeUint32s(raw string) ([]uint32, error) {
	data, err := decodeArray(raw, FormatZlib)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("uint32 array length %d is not a multiple of 4", len(data))
	}
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out, nil
}

// decodeUint16s decodes a zlib array of uint16 values (unit ids).
func decodeUint16s(raw string) ([]uint16, error) {
	data, err := decodeArray(raw, FormatZlib)
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("uint16 array length %d is not a multiple of 2", len(data))
	}
	out := make([]uint16, len(data)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return out, nil
}

// decodeBytes decodes a zlib array of uint8 values (alarm/state/mask flags).
func decodeBytes(raw string) ([]uint8, error) {
	return decodeArray(raw, FormatZlib)
}
