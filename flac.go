package sound

import (
	"errors"
	"io"
	"os"

	goflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

const (
	flacBlockSize     = 4096
	flacMaxChannels   = 8
	flacMaxSampleRate = 655350
	flacMaxPrealloc   = 1 << 20
)

// LoadFLAC decodes a FLAC file. Bit depths that aren't 8, 16 or 32 are
// widened to the next integer format.
func LoadFLAC(path string) (*Buffer, error) {
	return loadFile("LoadFLAC", path, func(r io.Reader, _ int64) (*Buffer, error) {
		return decodeFLAC("LoadFLAC", r)
	})
}

// SaveFLAC encodes an Int8 or Int16 buffer as FLAC using verbatim subframes.
func SaveFLAC(buf *Buffer, path string) error {
	const op = "SaveFLAC"

	if err := buf.Validate(); err != nil {
		return err
	}

	if buf.Format != Int8 && buf.Format != Int16 {
		return newError(KindUnsupported, op, nil, "FLAC encoding of %s samples", buf.Format)
	}

	if buf.Channels > flacMaxChannels {
		return newError(KindUnsupported, op, nil, "%d channels, FLAC allows %d", buf.Channels, flacMaxChannels)
	}

	if buf.SampleRate > flacMaxSampleRate {
		return newError(KindUnsupported, op, nil, "%d Hz sample rate", buf.SampleRate)
	}

	return saveFile(op, path, func(f *os.File) error {
		// the encoder closes writers that implement io.Closer, saveFile owns f
		return encodeFLAC(op, struct{ io.WriteSeeker }{f}, buf)
	})
}

func decodeFLAC(op string, r io.Reader) (buf *Buffer, err error) {
	defer recoverCorrupt(op, &buf, &err)

	stream, err := goflac.New(r)
	if err != nil {
		return nil, newError(KindUnknownFormat, op, err, "reading stream info: %v", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)

	format, shift, ok := widenedIntFormat(int(info.BitsPerSample))
	if !ok {
		return nil, newError(KindUnsupported, op, nil, "%d bits per sample", info.BitsPerSample)
	}

	// NSamples is only a hint, a damaged header must not size the allocation
	samples := make([]int, 0, min(info.NSamples, flacMaxPrealloc)*uint64(channels))

	for {
		audioFrame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, newError(KindCorrupt, op, err, "decoding frame: %v", err)
		}

		if len(audioFrame.Subframes) != channels {
			return nil, newError(KindCorrupt, op, nil,
				"frame has %d subframes for %d channels", len(audioFrame.Subframes), channels)
		}

		blockSize := int(audioFrame.BlockSize)
		for i := range blockSize {
			for ch := range channels {
				samples = append(samples, int(audioFrame.Subframes[ch].Samples[i])<<shift)
			}
		}
	}

	return newBufferFromInts(op, samples, format, channels, int(info.SampleRate))
}

func encodeFLAC(op string, w io.WriteSeeker, buf *Buffer) error {
	bitDepth := buf.Format.BitDepth()

	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(buf.SampleRate),
		NChannels:     uint8(buf.Channels),
		BitsPerSample: uint8(bitDepth),
		NSamples:      uint64(buf.Frames),
	}

	enc, err := goflac.NewEncoder(w, info)
	if err != nil {
		return newError(KindIO, op, err, "creating encoder: %v", err)
	}

	channels := make([][]int32, buf.Channels)
	for ch := range channels {
		channels[ch] = make([]int32, flacBlockSize)
	}

	for start := 0; start < buf.Frames; {
		blockSize := min(buf.Frames-start, flacBlockSize)

		for ch := range channels {
			channels[ch] = channels[ch][:blockSize]
		}

		for i := range blockSize {
			for ch := range buf.Channels {
				channels[ch][i] = int32(sampleAt(buf.Data, buf.Format, (start+i)*buf.Channels+ch))
			}
		}

		if err := enc.WriteFrame(buildFLACFrame(channels, blockSize, buf)); err != nil {
			return newError(KindIO, op, err, "writing frame: %v", err)
		}

		start += blockSize
	}

	if err := enc.Close(); err != nil {
		return newError(KindIO, op, err, "closing encoder: %v", err)
	}

	return nil
}

// buildFLACFrame wraps per-channel samples into a frame of verbatim subframes.
func buildFLACFrame(channels [][]int32, blockSize int, buf *Buffer) *frame.Frame {
	subframes := make([]*frame.Subframe, len(channels))
	for ch := range channels {
		subframes[ch] = &frame.Subframe{
			SubHeader: frame.SubHeader{
				Pred: frame.PredVerbatim,
			},
			Samples:  channels[ch],
			NSamples: blockSize,
		}
	}

	return &frame.Frame{
		Header: frame.Header{
			HasFixedBlockSize: true,
			BlockSize:         uint16(blockSize),
			SampleRate:        uint32(buf.SampleRate),
			Channels:          frame.Channels(len(channels) - 1),
			BitsPerSample:     uint8(buf.Format.BitDepth()),
		},
		Subframes: subframes,
	}
}
