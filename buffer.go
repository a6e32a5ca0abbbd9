package sound

import (
	"time"

	"github.com/go-audio/audio"
)

// Buffer holds decoded audio in memory.
//
// Data is interleaved (one sample per channel per frame) and owned by the
// Buffer. Size always equals Frames * Channels * Format.BytesPerSample().
type Buffer struct {
	SampleRate int
	Channels   int
	Frames     int
	Size       int
	Format     SampleFormat
	Data       []byte
}

// NewBuffer allocates a zeroed buffer of the given shape.
func NewBuffer(format SampleFormat, frames, channels, sampleRate int) (*Buffer, error) {
	const op = "NewBuffer"

	if !format.Valid() {
		return nil, newError(KindInvalidArgument, op, nil, "invalid sample format %d", uint8(format))
	}

	if channels < 1 {
		return nil, newError(KindInvalidArgument, op, nil, "channel count must be at least 1, got %d", channels)
	}

	if frames < 0 {
		return nil, newError(KindInvalidArgument, op, nil, "negative frame count %d", frames)
	}

	if sampleRate < 1 {
		return nil, newError(KindInvalidArgument, op, nil, "sample rate must be positive, got %d", sampleRate)
	}

	size := frames * channels * format.BytesPerSample()

	return &Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Frames:     frames,
		Size:       size,
		Format:     format,
		Data:       make([]byte, size),
	}, nil
}

// newBufferFromData wraps data read by a codec. The frame count is derived
// from the payload length, which must hold a whole number of frames.
func newBufferFromData(op string, format SampleFormat, channels, sampleRate int, data []byte) (*Buffer, error) {
	if channels < 1 {
		return nil, newError(KindCorrupt, op, nil, "invalid channel count %d", channels)
	}

	if sampleRate < 1 {
		return nil, newError(KindCorrupt, op, nil, "invalid sample rate %d", sampleRate)
	}

	blockAlign := channels * format.BytesPerSample()
	if len(data)%blockAlign != 0 {
		return nil, newError(KindCorrupt, op, nil,
			"payload of %d bytes is not a whole number of %d byte frames", len(data), blockAlign)
	}

	return &Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Frames:     len(data) / blockAlign,
		Size:       len(data),
		Format:     format,
		Data:       data,
	}, nil
}

// Release drops the sample storage and zeroes the descriptor. The buffer must
// not be used afterwards.
func (b *Buffer) Release() {
	if b == nil {
		return
	}

	*b = Buffer{}
}

// Validate checks that the descriptor is consistent with the payload.
func (b *Buffer) Validate() error {
	const op = "Buffer.Validate"

	if b == nil {
		return newError(KindInvalidArgument, op, nil, "nil buffer")
	}

	if !b.Format.Valid() {
		return newError(KindInvalidArgument, op, nil, "invalid sample format %d", uint8(b.Format))
	}

	if b.Channels < 1 {
		return newError(KindInvalidArgument, op, nil, "channel count must be at least 1, got %d", b.Channels)
	}

	if b.SampleRate < 1 {
		return newError(KindInvalidArgument, op, nil, "sample rate must be positive, got %d", b.SampleRate)
	}

	if b.Frames < 0 {
		return newError(KindInvalidArgument, op, nil, "negative frame count %d", b.Frames)
	}

	want := b.Frames * b.BlockAlign()
	if b.Size != want {
		return newError(KindInvalidArgument, op, nil,
			"size %d doesn't match %d frames of %d bytes", b.Size, b.Frames, b.BlockAlign())
	}

	if len(b.Data) != b.Size {
		return newError(KindInvalidArgument, op, nil, "data holds %d bytes, size is %d", len(b.Data), b.Size)
	}

	return nil
}

// BlockAlign returns the number of bytes in one frame.
func (b *Buffer) BlockAlign() int {
	return b.Channels * b.Format.BytesPerSample()
}

// ByteRate returns the number of payload bytes per second of audio.
func (b *Buffer) ByteRate() int {
	return b.SampleRate * b.BlockAlign()
}

// Duration returns the playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}

	return time.Duration(b.Frames) * time.Second / time.Duration(b.SampleRate)
}

// AudioFormat returns the buffer shape as a go-audio format descriptor.
func (b *Buffer) AudioFormat() *audio.Format {
	if b == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: b.Channels,
		SampleRate:  b.SampleRate,
	}
}
