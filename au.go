package sound

import (
	"encoding/binary"
	"io"
	"os"
)

// AU (Sun/NeXT .snd) header layout, all fields big endian.
const (
	auMagic        = 0x2e736e64 // ".snd"
	auHeaderSize   = 24
	auSizeUnknown  = 0xFFFFFFFF
	auMaxDataBytes = 0xFFFFFFFE
)

// AU encoding field values.
const (
	auEncodingMuLaw8      = 1
	auEncodingLinear8     = 2
	auEncodingLinear16    = 3
	auEncodingLinear24    = 4
	auEncodingLinear32    = 5
	auEncodingFloat       = 6
	auEncodingDouble      = 7
	auEncodingFragmented  = 8
	auEncodingDSPProgram  = 9
	auEncodingFixed8      = 10
	auEncodingFixed32     = 13
	auEncodingEmphasized  = 18
	auEncodingMuLawSquash = 21
	auEncodingALaw8       = 27
)

// auHeader is the fixed part of an AU file.
type auHeader struct {
	Magic      uint32
	DataOffset uint32
	DataSize   uint32
	Encoding   uint32
	SampleRate uint32
	Channels   uint32
}

// LoadAU reads a Sun/NeXT AU file.
func LoadAU(path string) (*Buffer, error) {
	return loadFile("LoadAU", path, func(r io.Reader, size int64) (*Buffer, error) {
		return decodeAU("LoadAU", r, size)
	})
}

// SaveAU writes buf as an AU file with a 24 byte header.
func SaveAU(buf *Buffer, path string) error {
	const op = "SaveAU"

	if err := buf.Validate(); err != nil {
		return err
	}

	if _, err := auEncodingFor(buf.Format); err != nil {
		return newError(KindUnsupported, op, err, "%s samples", buf.Format)
	}

	if uint64(buf.Size) > auMaxDataBytes || uint64(buf.Channels) > 0xFFFFFFFF || uint64(buf.SampleRate) > 0xFFFFFFFF {
		return newError(KindUnsupported, op, nil,
			"%d bytes, %d channels at %d Hz exceed the header fields", buf.Size, buf.Channels, buf.SampleRate)
	}

	return saveFile(op, path, func(f *os.File) error {
		return writeBuffered(f, func(w io.Writer) error {
			return encodeAU(op, w, buf)
		})
	})
}

// auEncodingFor maps a sample format to its AU encoding. Every format has one.
func auEncodingFor(format SampleFormat) (uint32, error) {
	switch format {
	case Int8:
		return auEncodingLinear8, nil
	case Int16:
		return auEncodingLinear16, nil
	case Int32:
		return auEncodingLinear32, nil
	case Float32:
		return auEncodingFloat, nil
	case Float64:
		return auEncodingDouble, nil
	default:
		return 0, ErrUnsupported
	}
}

func decodeAU(op string, r io.Reader, size int64) (*Buffer, error) {
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, newError(KindUnknownFormat, op, err, "%d bytes is too short for a magic number", size)
	}

	if magic != auMagic {
		return nil, newError(KindUnknownFormat, op, nil, "magic %#08x is not .snd", magic)
	}

	if size < auHeaderSize {
		return nil, newError(KindCorrupt, op, nil, "header truncated to %d bytes", size)
	}

	h := auHeader{Magic: magic}
	for _, field := range []*uint32{&h.DataOffset, &h.DataSize, &h.Encoding, &h.SampleRate, &h.Channels} {
		if err := binary.Read(r, binary.BigEndian, field); err != nil {
			return nil, newError(KindCorrupt, op, err, "truncated header")
		}
	}

	if h.DataOffset < auHeaderSize {
		return nil, newError(KindCorrupt, op, nil, "data offset %d is inside the %d byte header", h.DataOffset, auHeaderSize)
	}

	if int64(h.DataOffset) > size {
		return nil, newError(KindCorrupt, op, nil, "data offset %d is past the end of a %d byte file", h.DataOffset, size)
	}

	if h.Channels == 0 {
		return nil, newError(KindCorrupt, op, nil, "header declares 0 channels")
	}

	if h.SampleRate == 0 {
		return nil, newError(KindCorrupt, op, nil, "header declares a 0 Hz sample rate")
	}

	format, companded, err := auSampleFormat(op, h.Encoding)
	if err != nil {
		return nil, err
	}

	// skip the annotation
	if _, err := io.CopyN(io.Discard, r, int64(h.DataOffset)-auHeaderSize); err != nil {
		return nil, readError(op, err, "annotation")
	}

	dataSize := int64(h.DataSize)
	if h.DataSize == auSizeUnknown {
		dataSize = size - int64(h.DataOffset)
	}

	if remain := size - int64(h.DataOffset); dataSize > remain {
		return nil, newError(KindIO, op, io.ErrUnexpectedEOF,
			"truncated sample data, header declares %d bytes, %d remain", dataSize, remain)
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, readError(op, err, "sample data")
	}

	if companded != nil {
		if len(data)%int(h.Channels) != 0 {
			return nil, newError(KindCorrupt, op, nil,
				"payload of %d bytes is not a whole number of %d byte frames", len(data), h.Channels)
		}

		data = expandG711(data, companded)
	}

	return newBufferFromData(op, format, int(h.Channels), int(h.SampleRate), data)
}

// auSampleFormat maps an AU encoding to a sample format. Companded encodings
// come with the function expanding them to Int16.
func auSampleFormat(op string, encoding uint32) (SampleFormat, func(byte) int16, error) {
	switch encoding {
	case auEncodingLinear8:
		return Int8, nil, nil
	case auEncodingLinear16:
		return Int16, nil, nil
	case auEncodingLinear32:
		return Int32, nil, nil
	case auEncodingFloat:
		return Float32, nil, nil
	case auEncodingDouble:
		return Float64, nil, nil
	case auEncodingMuLaw8:
		return Int16, decodeMuLawSample, nil
	case auEncodingALaw8:
		return Int16, decodeALawSample, nil
	}

	switch {
	case encoding == auEncodingFragmented, encoding == auEncodingDSPProgram,
		encoding >= auEncodingFixed8 && encoding <= auEncodingFixed32,
		encoding >= auEncodingEmphasized && encoding <= auEncodingMuLawSquash:
		return 0, nil, newError(KindObsolete, op, nil, "encoding %d", encoding)
	case encoding == auEncodingLinear24:
		return 0, nil, newError(KindUnsupported, op, nil, "24-bit linear encoding")
	default:
		return 0, nil, newError(KindUnsupported, op, nil, "encoding %d", encoding)
	}
}

func encodeAU(op string, w io.Writer, buf *Buffer) error {
	encoding, err := auEncodingFor(buf.Format)
	if err != nil {
		return newError(KindUnsupported, op, err, "%s samples", buf.Format)
	}

	e := &headerWriter{w: w}

	h := auHeader{
		Magic:      auMagic,
		DataOffset: auHeaderSize,
		DataSize:   uint32(buf.Size),
		Encoding:   encoding,
		SampleRate: uint32(buf.SampleRate),
		Channels:   uint32(buf.Channels),
	}
	if err := e.AddBE(h); err != nil {
		return newError(KindIO, op, err, "writing header: %v", err)
	}

	n, err := w.Write(buf.Data)
	e.WrittenBytes += n

	if err != nil {
		return newError(KindIO, op, err, "wrote %d of %d sample bytes: %v", n, len(buf.Data), err)
	}

	return nil
}
