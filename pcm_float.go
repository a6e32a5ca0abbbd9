package sound

import (
	"encoding/binary"
	"math"
)

const (
	scalePCMInt8  = 128.0
	scalePCMInt16 = 32768.0
	scalePCMInt32 = 2147483648.0
	maxPCMInt8    = 127
	maxPCMInt16   = 32767
	maxPCMInt32   = 2147483647
)

// Buffer payloads are kept in host byte order.
var nativeEndian = binary.NativeEndian

func clampFloat32(value, min, max float32) float32 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

func clampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

func normalizePCMInt(sample int, format SampleFormat) float32 {
	return float32(normalizePCMInt64(sample, format))
}

func normalizePCMInt64(sample int, format SampleFormat) float64 {
	switch format {
	case Int8:
		return float64(sample) / scalePCMInt8
	case Int16:
		return float64(sample) / scalePCMInt16
	case Int32:
		return float64(sample) / scalePCMInt32
	default:
		return 0
	}
}

func clampScaledPCM(value, scale float64, max int64) int64 {
	sample := min(int64(math.Round(clampFloat64(value, -1, 1)*scale)), max)

	if lowest := int64(-scale); sample < lowest {
		sample = lowest
	}

	return sample
}

func float32ToPCMInt(value float32, format SampleFormat) int {
	return float64ToPCMInt(float64(value), format)
}

func float64ToPCMInt(value float64, format SampleFormat) int {
	switch format {
	case Int8:
		return int(clampScaledPCM(value, scalePCMInt8, maxPCMInt8))
	case Int16:
		return int(clampScaledPCM(value, scalePCMInt16, maxPCMInt16))
	case Int32:
		return int(clampScaledPCM(value, scalePCMInt32, maxPCMInt32))
	default:
		return 0
	}
}

// sampleAt returns the raw integer value of the i-th integer sample.
func sampleAt(data []byte, format SampleFormat, i int) int {
	switch format {
	case Int8:
		return int(int8(data[i]))
	case Int16:
		return int(int16(nativeEndian.Uint16(data[i*2:])))
	case Int32:
		return int(int32(nativeEndian.Uint32(data[i*4:])))
	default:
		return 0
	}
}

// putSample stores an integer sample at index i.
func putSample(data []byte, format SampleFormat, i, value int) {
	switch format {
	case Int8:
		data[i] = byte(int8(value))
	case Int16:
		nativeEndian.PutUint16(data[i*2:], uint16(int16(value)))
	case Int32:
		nativeEndian.PutUint32(data[i*4:], uint32(int32(value)))
	}
}

// Float32s decodes the payload into interleaved samples normalized to [-1, 1].
func (b *Buffer) Float32s() []float32 {
	if b == nil || !b.Format.Valid() {
		return nil
	}

	n := len(b.Data) / b.Format.BytesPerSample()
	out := make([]float32, n)

	for i := range n {
		switch b.Format {
		case Float32:
			out[i] = math.Float32frombits(nativeEndian.Uint32(b.Data[i*4:]))
		case Float64:
			out[i] = float32(math.Float64frombits(nativeEndian.Uint64(b.Data[i*8:])))
		default:
			out[i] = normalizePCMInt(sampleAt(b.Data, b.Format, i), b.Format)
		}
	}

	return out
}

// Float64s is Float32s with double precision. Int32 and Float64 payloads
// survive the conversion exactly.
func (b *Buffer) Float64s() []float64 {
	if b == nil || !b.Format.Valid() {
		return nil
	}

	n := len(b.Data) / b.Format.BytesPerSample()
	out := make([]float64, n)

	for i := range n {
		switch b.Format {
		case Float32:
			out[i] = float64(math.Float32frombits(nativeEndian.Uint32(b.Data[i*4:])))
		case Float64:
			out[i] = math.Float64frombits(nativeEndian.Uint64(b.Data[i*8:]))
		default:
			out[i] = normalizePCMInt64(sampleAt(b.Data, b.Format, i), b.Format)
		}
	}

	return out
}

// Ints returns the integer samples of the payload. Float buffers yield nil.
func (b *Buffer) Ints() []int {
	if b == nil || b.Format.IsFloat() || !b.Format.Valid() {
		return nil
	}

	n := len(b.Data) / b.Format.BytesPerSample()
	out := make([]int, n)

	for i := range n {
		out[i] = sampleAt(b.Data, b.Format, i)
	}

	return out
}

// NewBufferFromFloat32 encodes interleaved normalized samples into a buffer of
// the requested format. Values outside [-1, 1] are clamped.
func NewBufferFromFloat32(samples []float32, format SampleFormat, channels, sampleRate int) (*Buffer, error) {
	if channels > 0 && len(samples)%channels != 0 {
		return nil, newError(KindInvalidArgument, "NewBufferFromFloat32", nil,
			"%d samples don't divide into %d channels", len(samples), channels)
	}

	frames := 0
	if channels > 0 {
		frames = len(samples) / channels
	}

	buf, err := NewBuffer(format, frames, channels, sampleRate)
	if err != nil {
		return nil, err
	}

	for i, v := range samples {
		switch format {
		case Float32:
			nativeEndian.PutUint32(buf.Data[i*4:], math.Float32bits(clampFloat32(v, -1, 1)))
		case Float64:
			nativeEndian.PutUint64(buf.Data[i*8:], math.Float64bits(clampFloat64(float64(v), -1, 1)))
		default:
			putSample(buf.Data, format, i, float32ToPCMInt(v, format))
		}
	}

	return buf, nil
}

// NewBufferFromFloat64 is NewBufferFromFloat32 for double precision samples.
func NewBufferFromFloat64(samples []float64, format SampleFormat, channels, sampleRate int) (*Buffer, error) {
	if channels > 0 && len(samples)%channels != 0 {
		return nil, newError(KindInvalidArgument, "NewBufferFromFloat64", nil,
			"%d samples don't divide into %d channels", len(samples), channels)
	}

	frames := 0
	if channels > 0 {
		frames = len(samples) / channels
	}

	buf, err := NewBuffer(format, frames, channels, sampleRate)
	if err != nil {
		return nil, err
	}

	for i, v := range samples {
		switch format {
		case Float32:
			nativeEndian.PutUint32(buf.Data[i*4:], math.Float32bits(float32(clampFloat64(v, -1, 1))))
		case Float64:
			nativeEndian.PutUint64(buf.Data[i*8:], math.Float64bits(clampFloat64(v, -1, 1)))
		default:
			putSample(buf.Data, format, i, float64ToPCMInt(v, format))
		}
	}

	return buf, nil
}

// newBufferFromInts packs decoded integer samples.
func newBufferFromInts(op string, samples []int, format SampleFormat, channels, sampleRate int) (*Buffer, error) {
	data := make([]byte, len(samples)*format.BytesPerSample())
	for i, v := range samples {
		putSample(data, format, i, v)
	}

	return newBufferFromData(op, format, channels, sampleRate, data)
}
