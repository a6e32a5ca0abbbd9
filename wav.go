package sound

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/go-audio/riff"
)

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	// riffSizeUnknown is written by streaming encoders that never patch the header.
	riffSizeUnknown = 0xFFFFFFFF
)

// LoadWAV reads a RIFF/WAVE file.
func LoadWAV(path string) (*Buffer, error) {
	return loadFile("LoadWAV", path, func(r io.Reader, size int64) (*Buffer, error) {
		return decodeWAV("LoadWAV", r, size)
	})
}

// SaveWAV writes buf as a RIFF/WAVE file. Integer formats use the PCM tag,
// float formats the IEEE float tag.
func SaveWAV(buf *Buffer, path string) error {
	const op = "SaveWAV"

	if err := buf.Validate(); err != nil {
		return err
	}

	if err := checkWAV(op, buf); err != nil {
		return err
	}

	return saveFile(op, path, func(f *os.File) error {
		return writeBuffered(f, func(w io.Writer) error {
			return encodeWAV(op, w, buf)
		})
	})
}

func decodeWAV(op string, r io.Reader, size int64) (*Buffer, error) {
	if size < riffHeaderSize {
		return nil, newError(KindUnknownFormat, op, nil, "%d bytes is too short for a RIFF header", size)
	}

	parser := riff.New(r)

	id, riffSize, err := parser.IDnSize()
	if err != nil {
		return nil, readError(op, err, "RIFF header")
	}

	parser.ID = id
	parser.Size = riffSize

	if err := binary.Read(r, binary.BigEndian, &parser.Format); err != nil {
		return nil, readError(op, err, "RIFF form type")
	}

	if parser.ID != riff.RiffID || parser.Format != riff.WavFormatID {
		return nil, newError(KindUnknownFormat, op, riff.ErrFmtNotSupported,
			"container %q/%q is not RIFF/WAVE", parser.ID[:], parser.Format[:])
	}

	end := size
	if riffSize != riffSizeUnknown && int64(riffSize)+8 < end {
		end = int64(riffSize) + 8
	}

	state := &wavState{op: op}
	registry := newDefaultWavChunkRegistry()
	pos := int64(riffHeaderSize)

	for end-pos >= chunkHeaderSize && !state.complete() {
		id, chunkSize, err := parser.IDnSize()
		if err != nil {
			return nil, readError(op, err, "chunk header")
		}

		pos += chunkHeaderSize

		if int64(chunkSize) > end-pos {
			return nil, newError(KindCorrupt, op, nil,
				"chunk %q declares %d bytes, only %d remain", id[:], chunkSize, end-pos)
		}

		chunk := &riff.Chunk{
			ID:   id,
			Size: int(chunkSize),
			R:    io.LimitReader(r, int64(chunkSize)),
		}

		handled, err := registry.Decode(state, chunk)
		if err != nil {
			return nil, err
		}

		if !handled {
			chunk.Drain()
		}

		pos += int64(chunkSize)

		// all RIFF chunks must be word aligned, the pad byte isn't part of the size.
		if chunkSize%2 == 1 && pos < end {
			if _, err := io.CopyN(io.Discard, r, 1); err != nil {
				return nil, readError(op, err, "chunk padding")
			}

			pos++
		}
	}

	if state.fmt == nil {
		return nil, newError(KindUnknownFormat, op, nil, "no fmt chunk")
	}

	if !state.hasData {
		return nil, newError(KindUnknownFormat, op, nil, "no data chunk")
	}

	return state.buffer()
}

// buffer maps the collected chunks to a Buffer.
func (s *wavState) buffer() (*Buffer, error) {
	f := s.fmt
	op := s.op

	if f.NumChannels == 0 {
		return nil, newError(KindCorrupt, op, nil, "fmt chunk declares 0 channels")
	}

	if f.SampleRate == 0 {
		return nil, newError(KindCorrupt, op, nil, "fmt chunk declares a 0 Hz sample rate")
	}

	var (
		format    SampleFormat
		ok        bool
		bits      = int(f.BitsPerSample)
		tag       = f.effectiveFormatTag()
		companded func(byte) int16
	)

	switch tag {
	case wavFormatPCM:
		format, ok = intFormatForBits(bits)
	case wavFormatIEEEFloat:
		format, ok = floatFormatForBits(bits)
	case wavFormatALaw:
		format, ok, companded = Int16, bits == 8, decodeALawSample
	case wavFormatMuLaw:
		format, ok, companded = Int16, bits == 8, decodeMuLawSample
	default:
		return nil, newError(KindUnsupported, op, nil, "encoding tag %#04x", tag)
	}

	if !ok {
		return nil, newError(KindUnsupported, op, nil, "%d bits per sample with encoding tag %#04x", bits, tag)
	}

	storedBytes := format.BytesPerSample()
	if companded != nil {
		storedBytes = 1
	}

	blockAlign := int(f.NumChannels) * storedBytes
	if int(f.BlockAlign) != blockAlign {
		return nil, newError(KindCorrupt, op, nil,
			"block align %d, want %d for %d channels of %d bits", f.BlockAlign, blockAlign, f.NumChannels, bits)
	}

	if len(s.data)%blockAlign != 0 {
		return nil, newError(KindCorrupt, op, nil,
			"data chunk of %d bytes is not a whole number of %d byte frames", len(s.data), blockAlign)
	}

	// fact is checked for non-PCM encodings only
	frames := len(s.data) / blockAlign
	if s.factFrames != nil && tag != wavFormatPCM && int64(*s.factFrames) != int64(frames) {
		return nil, newError(KindCorrupt, op, nil,
			"fact chunk declares %d frames, data chunk holds %d", *s.factFrames, frames)
	}

	data := s.data
	switch {
	case companded != nil:
		data = expandG711(data, companded)
	case format == Int8:
		flipSignBits(data)
	}

	return newBufferFromData(op, format, int(f.NumChannels), int(f.SampleRate), data)
}

// flipSignBits converts between unsigned (WAV) and signed 8-bit samples.
func flipSignBits(data []byte) {
	for i := range data {
		data[i] ^= 0x80
	}
}

func buildFmtChunk(buf *Buffer) *fmtChunk {
	tag := uint16(wavFormatPCM)
	if buf.Format.IsFloat() {
		tag = wavFormatIEEEFloat
	}

	return &fmtChunk{
		FormatTag:      tag,
		NumChannels:    uint16(buf.Channels),
		SampleRate:     uint32(buf.SampleRate),
		AvgBytesPerSec: uint32(buf.ByteRate()),
		BlockAlign:     uint16(buf.BlockAlign()),
		BitsPerSample:  uint16(buf.Format.BitDepth()),
	}
}

// wavHeaderSize returns the number of bytes written before the sample data.
func wavHeaderSize(float bool) int {
	if float {
		// fmt with cbSize, then fact
		return riffHeaderSize + chunkHeaderSize + wavFmtChunkExtendedSize + chunkHeaderSize + 4 + chunkHeaderSize
	}

	return riffHeaderSize + chunkHeaderSize + wavFmtChunkSize + chunkHeaderSize
}

// checkWAV reports buffers whose shape doesn't fit the fmt and RIFF fields.
func checkWAV(op string, buf *Buffer) error {
	if buf.Channels > 0xFFFF || uint64(buf.ByteRate()) > 0xFFFFFFFF {
		return newError(KindUnsupported, op, nil,
			"%d channels at %d Hz can't be described by a fmt chunk", buf.Channels, buf.SampleRate)
	}

	total := int64(wavHeaderSize(buf.Format.IsFloat())) + int64(buf.Size) + int64(buf.Size%2)
	if total-8 > 0xFFFFFFFF {
		return newError(KindUnsupported, op, nil, "%d bytes of samples exceed the RIFF size limit", buf.Size)
	}

	return nil
}

func encodeWAV(op string, w io.Writer, buf *Buffer) error {
	float := buf.Format.IsFloat()
	pad := buf.Size % 2
	total := int64(wavHeaderSize(float)) + int64(buf.Size) + int64(pad)

	e := &headerWriter{w: w}
	chunk := buildFmtChunk(buf)

	fields := []any{riff.RiffID, uint32(total - 8), riff.WavFormatID, riff.FmtID}
	if float {
		fields = append(fields, uint32(wavFmtChunkExtendedSize))
	} else {
		fields = append(fields, uint32(wavFmtChunkSize))
	}

	fields = append(fields,
		chunk.FormatTag,
		chunk.NumChannels,
		chunk.SampleRate,
		chunk.AvgBytesPerSec,
		chunk.BlockAlign,
		chunk.BitsPerSample,
	)

	if float {
		// non-PCM data carries an empty extension and a fact chunk
		fields = append(fields, uint16(0), CIDFact, uint32(4), uint32(buf.Frames))
	}

	fields = append(fields, riff.DataFormatID, uint32(buf.Size))

	for _, field := range fields {
		if err := e.AddLE(field); err != nil {
			return newError(KindIO, op, err, "writing header: %v", err)
		}
	}

	data := buf.Data
	if buf.Format == Int8 {
		data = append([]byte(nil), buf.Data...)
		flipSignBits(data)
	}

	n, err := w.Write(data)
	e.WrittenBytes += n

	if err != nil {
		return newError(KindIO, op, err, "wrote %d of %d sample bytes: %v", n, len(data), err)
	}

	if pad == 1 {
		if err := e.AddLE(uint8(0)); err != nil {
			return newError(KindIO, op, err, "writing data padding: %v", err)
		}
	}

	return nil
}
