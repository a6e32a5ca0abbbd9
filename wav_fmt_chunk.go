package sound

import (
	"encoding/binary"

	"github.com/go-audio/riff"
)

const (
	wavFormatPCM        = 0x0001
	wavFormatIEEEFloat  = 0x0003
	wavFormatALaw       = 0x0006
	wavFormatMuLaw      = 0x0007
	wavFormatExtensible = 0xFFFE

	wavFmtChunkSize         = 16
	wavFmtChunkExtendedSize = 18
	wavExtensibleSize       = 22
)

// fmtChunk is the decoded WAV fmt chunk.
type fmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	Extensible     *fmtExtensible
}

// fmtExtensible holds the WAVE_FORMAT_EXTENSIBLE fields.
type fmtExtensible struct {
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
}

// effectiveFormatTag resolves the extensible sub-format GUID to a plain tag.
func (f *fmtChunk) effectiveFormatTag() uint16 {
	if f == nil {
		return 0
	}

	if f.FormatTag == wavFormatExtensible && f.Extensible != nil {
		return binary.LittleEndian.Uint16(f.Extensible.SubFormat[:2])
	}

	return f.FormatTag
}

func decodeFmtChunk(op string, chunk *riff.Chunk) (*fmtChunk, error) {
	if chunk.Size < wavFmtChunkSize {
		return nil, newError(KindCorrupt, op, nil, "fmt chunk is %d bytes, want at least %d", chunk.Size, wavFmtChunkSize)
	}

	f := &fmtChunk{}

	fields := []any{
		&f.FormatTag,
		&f.NumChannels,
		&f.SampleRate,
		&f.AvgBytesPerSec,
		&f.BlockAlign,
		&f.BitsPerSample,
	}
	for _, field := range fields {
		if err := chunk.ReadLE(field); err != nil {
			return nil, readError(op, err, "fmt chunk")
		}
	}

	if chunk.Size < wavFmtChunkExtendedSize {
		return f, nil
	}

	var extraSize uint16
	if err := chunk.ReadLE(&extraSize); err != nil {
		return nil, readError(op, err, "fmt extension size")
	}

	if int(extraSize) > chunk.Size-wavFmtChunkExtendedSize {
		return nil, newError(KindCorrupt, op, nil,
			"fmt extension of %d bytes overruns a %d byte chunk", extraSize, chunk.Size)
	}

	if f.FormatTag != wavFormatExtensible || extraSize < wavExtensibleSize {
		return f, nil
	}

	extra := make([]byte, wavExtensibleSize)
	if err := chunk.ReadLE(extra); err != nil {
		return nil, readError(op, err, "fmt extension")
	}

	ext := &fmtExtensible{
		ValidBitsPerSample: binary.LittleEndian.Uint16(extra[0:2]),
		ChannelMask:        binary.LittleEndian.Uint32(extra[2:6]),
	}
	copy(ext.SubFormat[:], extra[6:22])
	f.Extensible = ext

	return f, nil
}
