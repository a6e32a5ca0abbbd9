package sound

import (
	"io"
	"os"
)

// RawParams describes a headerless payload. Raw files can't describe
// themselves, so the caller supplies every field.
type RawParams struct {
	Format     SampleFormat
	Channels   int
	SampleRate int
}

func (p *RawParams) validate(op string) error {
	if p == nil {
		return newError(KindUnsupported, op, nil, "raw payloads need an explicit format, channel count and sample rate")
	}

	if !p.Format.Valid() {
		return newError(KindInvalidArgument, op, nil, "invalid sample format %d", uint8(p.Format))
	}

	if p.Channels < 1 {
		return newError(KindInvalidArgument, op, nil, "channel count must be at least 1, got %d", p.Channels)
	}

	if p.SampleRate < 1 {
		return newError(KindInvalidArgument, op, nil, "sample rate must be positive, got %d", p.SampleRate)
	}

	return nil
}

// LoadRaw reads a headerless file whose layout is described by params. A nil
// params is unsupported, a params with missing fields is an invalid argument.
func LoadRaw(path string, params *RawParams) (*Buffer, error) {
	const op = "LoadRaw"

	if err := params.validate(op); err != nil {
		return nil, err
	}

	return loadFile(op, path, func(r io.Reader, size int64) (*Buffer, error) {
		return decodeRaw(op, r, size, *params)
	})
}

// SaveRaw writes the payload of buf without any header.
func SaveRaw(buf *Buffer, path string) error {
	const op = "SaveRaw"

	if err := buf.Validate(); err != nil {
		return err
	}

	return saveFile(op, path, func(f *os.File) error {
		n, err := f.Write(buf.Data)
		if err != nil {
			return newError(KindIO, op, err, "wrote %d of %d sample bytes: %v", n, len(buf.Data), err)
		}

		return nil
	})
}

func decodeRaw(op string, r io.Reader, size int64, params RawParams) (*Buffer, error) {
	blockAlign := int64(params.Channels * params.Format.BytesPerSample())
	if size%blockAlign != 0 {
		return nil, newError(KindCorrupt, op, nil,
			"%d bytes is not a whole number of %d byte frames", size, blockAlign)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, readError(op, err, "sample data")
	}

	return newBufferFromData(op, params.Format, params.Channels, params.SampleRate, data)
}
