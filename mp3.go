package sound

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always produces 16-bit little endian stereo.
const mp3Channels = 2

// LoadMP3 decodes an MPEG audio file into an Int16 stereo buffer.
func LoadMP3(path string) (*Buffer, error) {
	return loadFile("LoadMP3", path, func(r io.Reader, _ int64) (*Buffer, error) {
		return decodeMP3("LoadMP3", r)
	})
}

func decodeMP3(op string, r io.Reader) (buf *Buffer, err error) {
	defer recoverCorrupt(op, &buf, &err)

	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, newError(KindCorrupt, op, err, "opening MPEG stream: %v", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, newError(KindCorrupt, op, err, "decoding MPEG frames: %v", err)
	}

	// drop a trailing partial frame
	pcm = pcm[:len(pcm)-len(pcm)%(mp3Channels*2)]

	for i := 0; i < len(pcm); i += 2 {
		nativeEndian.PutUint16(pcm[i:], binary.LittleEndian.Uint16(pcm[i:]))
	}

	return newBufferFromData(op, Int16, mp3Channels, dec.SampleRate(), pcm)
}

// Bitrates in kbit/s by bitrate index 1-14.
var (
	mpeg1Layer1Rates = [...]int{32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448}
	mpeg1Layer2Rates = [...]int{32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384}
	mpeg1Layer3Rates = [...]int{32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}
	mpeg2Layer1Rates = [...]int{32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256}
	mpeg2Layer2Rates = [...]int{8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}
)

// Sample rates by version (MPEG 2.5, reserved, MPEG 2, MPEG 1) and rate index.
var mpegSampleRates = [4][3]int{
	{11025, 12000, 8000},
	{},
	{22050, 24000, 16000},
	{44100, 48000, 32000},
}

// mpegFrameLength returns the size in bytes of the MPEG audio frame whose
// header starts h, or 0 for free format streams and invalid headers.
func mpegFrameLength(h []byte) int {
	if !isMPEGFrameSync(h) {
		return 0
	}

	version := (h[1] >> 3) & 0x03
	layer := (h[1] >> 1) & 0x03
	bitrateIndex := int(h[2] >> 4)
	padding := int(h[2]>>1) & 0x01

	if bitrateIndex == 0 {
		return 0
	}

	sampleRate := mpegSampleRates[version][(h[2]>>2)&0x03]
	mpeg1 := version == 3

	var rates [14]int
	switch {
	case layer == 3 && mpeg1:
		rates = mpeg1Layer1Rates
	case layer == 2 && mpeg1:
		rates = mpeg1Layer2Rates
	case mpeg1:
		rates = mpeg1Layer3Rates
	case layer == 3:
		rates = mpeg2Layer1Rates
	default:
		rates = mpeg2Layer2Rates
	}

	bitrate := rates[bitrateIndex-1] * 1000

	switch {
	case layer == 3:
		return (12*bitrate/sampleRate + padding) * 4
	case layer == 1 && !mpeg1:
		return 72*bitrate/sampleRate + padding
	default:
		return 144*bitrate/sampleRate + padding
	}
}

// confirmMPEG checks that the frame at the start of data is followed by
// another frame header. complete tells whether data holds the whole file.
// Free format streams can't be measured and are accepted.
func confirmMPEG(data []byte, complete bool) bool {
	if bytes.HasPrefix(data, []byte("ID3")) {
		return true
	}

	if !isMPEGFrameSync(data) {
		return false
	}

	n := mpegFrameLength(data)
	switch {
	case n == 0 && data[2]>>4 == 0:
		return true
	case n < 4:
		return false
	case n == len(data) && complete:
		return true
	case n+4 > len(data):
		return false
	default:
		return isMPEGFrameSync(data[n:])
	}
}
