package sound

import (
	"testing"
	"time"
)

func TestNewBuffer(t *testing.T) {
	buf, err := NewBuffer(Int16, 100, 2, 44100)
	if err != nil {
		t.Fatalf("NewBuffer() error=%v", err)
	}

	if buf.Size != 400 || len(buf.Data) != 400 {
		t.Fatalf("Size=%d len(Data)=%d, want 400", buf.Size, len(buf.Data))
	}

	if got := buf.BlockAlign(); got != 4 {
		t.Fatalf("BlockAlign()=%d, want 4", got)
	}

	if got := buf.ByteRate(); got != 176400 {
		t.Fatalf("ByteRate()=%d, want 176400", got)
	}

	if err := buf.Validate(); err != nil {
		t.Fatalf("Validate()=%v, want nil", err)
	}
}

func TestNewBufferInvalidArguments(t *testing.T) {
	tests := []struct {
		name     string
		format   SampleFormat
		frames   int
		channels int
		rate     int
	}{
		{"bad format", SampleFormat(7), 1, 1, 8000},
		{"no channels", Int16, 1, 0, 8000},
		{"negative frames", Int16, -1, 1, 8000},
		{"zero rate", Int16, 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewBuffer(tt.format, tt.frames, tt.channels, tt.rate)
			if buf != nil {
				t.Fatalf("NewBuffer()=%+v, want nil buffer", buf)
			}

			assertKind(t, err, KindInvalidArgument)
		})
	}
}

func TestBufferValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *Buffer)
	}{
		{"size mismatch", func(b *Buffer) { b.Size = 3 }},
		{"short data", func(b *Buffer) { b.Data = b.Data[:2] }},
		{"bad format", func(b *Buffer) { b.Format = SampleFormat(200) }},
		{"zero channels", func(b *Buffer) { b.Channels = 0 }},
		{"zero rate", func(b *Buffer) { b.SampleRate = 0 }},
		{"frames disagree", func(b *Buffer) { b.Frames = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewBuffer(Int32, 4, 1, 8000)
			if err != nil {
				t.Fatalf("NewBuffer() error=%v", err)
			}

			tt.mutate(buf)
			assertKind(t, buf.Validate(), KindInvalidArgument)
		})
	}

	var nilBuf *Buffer
	assertKind(t, nilBuf.Validate(), KindInvalidArgument)
}

func TestBufferRelease(t *testing.T) {
	buf, err := NewBuffer(Float64, 10, 2, 48000)
	if err != nil {
		t.Fatalf("NewBuffer() error=%v", err)
	}

	buf.Release()

	if buf.Data != nil || buf.Size != 0 || buf.Frames != 0 || buf.Channels != 0 || buf.SampleRate != 0 {
		t.Fatalf("after Release buffer=%+v, want zero descriptor", *buf)
	}

	// releasing a zeroed descriptor is harmless
	buf.Release()

	var nilBuf *Buffer
	nilBuf.Release()
}

func TestBufferDuration(t *testing.T) {
	tests := []struct {
		frames int
		rate   int
		want   time.Duration
	}{
		{48000, 48000, time.Second},
		{22050, 44100, 500 * time.Millisecond},
		{0, 8000, 0},
	}

	for _, tt := range tests {
		buf, err := NewBuffer(Int8, tt.frames, 1, tt.rate)
		if err != nil {
			t.Fatalf("NewBuffer() error=%v", err)
		}

		if got := buf.Duration(); got != tt.want {
			t.Fatalf("Duration(%d frames at %d Hz)=%v, want %v", tt.frames, tt.rate, got, tt.want)
		}
	}
}

func TestBufferAudioFormat(t *testing.T) {
	buf, err := NewBuffer(Int16, 1, 6, 96000)
	if err != nil {
		t.Fatalf("NewBuffer() error=%v", err)
	}

	f := buf.AudioFormat()
	if f.NumChannels != 6 || f.SampleRate != 96000 {
		t.Fatalf("AudioFormat()=%+v, want 6 channels at 96000 Hz", f)
	}
}
