package sound

import (
	"io"
	"os"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

// LoadAIFF reads an AIFF file. 24-bit samples are widened to Int32.
func LoadAIFF(path string) (*Buffer, error) {
	return loadSeekableFile("LoadAIFF", path, func(rs io.ReadSeeker) (*Buffer, error) {
		return decodeAIFF("LoadAIFF", rs)
	})
}

// SaveAIFF writes an integer buffer as an AIFF file. AIFF has no float
// encoding, float buffers are rejected.
func SaveAIFF(buf *Buffer, path string) error {
	const op = "SaveAIFF"

	if err := buf.Validate(); err != nil {
		return err
	}

	if buf.Format.IsFloat() {
		return newError(KindUnsupported, op, nil, "AIFF can't store %s samples", buf.Format)
	}

	return saveFile(op, path, func(f *os.File) error {
		return encodeAIFF(op, f, buf)
	})
}

func decodeAIFF(op string, rs io.ReadSeeker) (buf *Buffer, err error) {
	defer recoverCorrupt(op, &buf, &err)

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, newError(KindUnknownFormat, op, nil, "not a readable AIFF file")
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, newError(KindCorrupt, op, err, "decoding samples: %v", err)
	}

	if pcm.Format == nil {
		return nil, newError(KindCorrupt, op, nil, "missing COMM chunk")
	}

	format, shift, ok := widenedIntFormat(int(dec.BitDepth))
	if !ok {
		return nil, newError(KindUnsupported, op, nil, "%d bits per sample", dec.BitDepth)
	}

	samples := pcm.Data
	if shift > 0 {
		for i := range samples {
			samples[i] <<= shift
		}
	}

	return newBufferFromInts(op, samples, format, pcm.Format.NumChannels, pcm.Format.SampleRate)
}

func encodeAIFF(op string, w io.WriteSeeker, buf *Buffer) error {
	bitDepth := buf.Format.BitDepth()
	enc := aiff.NewEncoder(w, buf.SampleRate, bitDepth, buf.Channels)

	pcm := &audio.IntBuffer{
		Format:         buf.AudioFormat(),
		Data:           buf.Ints(),
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(pcm); err != nil {
		return newError(KindIO, op, err, "writing samples: %v", err)
	}

	if err := enc.Close(); err != nil {
		return newError(KindIO, op, err, "finishing file: %v", err)
	}

	return nil
}

// widenedIntFormat picks the smallest integer format holding bits and the
// left shift that scales samples to it.
func widenedIntFormat(bits int) (SampleFormat, int, bool) {
	switch {
	case bits < 1 || bits > 32:
		return 0, 0, false
	case bits <= 8:
		return Int8, 8 - bits, true
	case bits <= 16:
		return Int16, 16 - bits, true
	default:
		return Int32, 32 - bits, true
	}
}
