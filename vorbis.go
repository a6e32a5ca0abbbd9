package sound

import (
	"io"
	"math"

	"github.com/jfreymuth/oggvorbis"
)

// LoadVorbis decodes an Ogg Vorbis file into a Float32 buffer.
func LoadVorbis(path string) (*Buffer, error) {
	return loadFile("LoadVorbis", path, func(r io.Reader, _ int64) (*Buffer, error) {
		return decodeVorbis("LoadVorbis", r)
	})
}

func decodeVorbis(op string, r io.Reader) (buf *Buffer, err error) {
	defer recoverCorrupt(op, &buf, &err)

	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, newError(KindCorrupt, op, err, "decoding stream: %v", err)
	}

	if format == nil || format.Channels < 1 {
		return nil, newError(KindCorrupt, op, nil, "stream has no channels")
	}

	data := make([]byte, len(samples)*4)
	for i, v := range samples {
		nativeEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}

	return newBufferFromData(op, Float32, format.Channels, format.SampleRate, data)
}
