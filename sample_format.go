package sound

import (
	"fmt"
	"strings"
)

// SampleFormat describes how a single sample is encoded in Buffer.Data.
// Integer formats are two's complement, float formats are IEEE 754.
type SampleFormat uint8

const (
	Int8 SampleFormat = iota
	Int16
	Int32
	Float32
	Float64
)

var sampleFormatNames = [...]string{
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Float32: "float32",
	Float64: "float64",
}

// Valid reports whether f is one of the defined formats.
func (f SampleFormat) Valid() bool {
	return int(f) < len(sampleFormatNames)
}

// BytesPerSample returns the storage size of one sample, or 0 for an invalid
// format.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case Int8:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// BitDepth returns the number of bits per sample.
func (f SampleFormat) BitDepth() int {
	return f.BytesPerSample() * 8
}

// IsFloat reports whether f is a floating point format.
func (f SampleFormat) IsFloat() bool {
	return f == Float32 || f == Float64
}

func (f SampleFormat) String() string {
	if f.Valid() {
		return sampleFormatNames[f]
	}

	return fmt.Sprintf("format(%d)", uint8(f))
}

// ParseSampleFormat parses a format name such as "int16", "s16" or "f32".
func ParseSampleFormat(name string) (SampleFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int8", "i8", "s8":
		return Int8, nil
	case "int16", "i16", "s16":
		return Int16, nil
	case "int32", "i32", "s32":
		return Int32, nil
	case "float32", "f32", "float":
		return Float32, nil
	case "float64", "f64", "double":
		return Float64, nil
	default:
		return 0, newError(KindInvalidArgument, "ParseSampleFormat", nil, "unknown sample format %q", name)
	}
}

// intFormatForBits maps an integer bit depth to a format.
func intFormatForBits(bits int) (SampleFormat, bool) {
	switch bits {
	case 8:
		return Int8, true
	case 16:
		return Int16, true
	case 32:
		return Int32, true
	default:
		return 0, false
	}
}

func floatFormatForBits(bits int) (SampleFormat, bool) {
	switch bits {
	case 32:
		return Float32, true
	case 64:
		return Float64, true
	default:
		return 0, false
	}
}
