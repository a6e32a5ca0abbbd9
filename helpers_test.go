package sound

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type testChunk struct {
	id   string
	size uint32
	data []byte
}

var (
	errFileTooSmall         = errors.New("file too small")
	errInvalidRiffWaveHdr   = errors.New("invalid riff/wave header")
	errChunkExceedsFileSize = errors.New("chunk exceeds file size")
)

func parseWavChunks(data []byte) ([]testChunk, error) {
	if len(data) < 12 {
		return nil, errFileTooSmall
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errInvalidRiffWaveHdr
	}

	chunks := make([]testChunk, 0)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		end := offset + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("%w: %q", errChunkExceedsFileSize, id)
		}

		payload := append([]byte(nil), data[offset:end]...)
		chunks = append(chunks, testChunk{id: id, size: size, data: payload})

		offset = end
		if size%2 == 1 {
			offset++
		}
	}

	return chunks, nil
}

func chunkIDs(chunks []testChunk) []string {
	ids := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		ids = append(ids, ch.id)
	}

	return ids
}

// riffChunk frames payload as a chunk, adding the pad byte for odd sizes.
func riffChunk(id string, payload []byte) []byte {
	out := make([]byte, 0, 8+len(payload)+1)
	out = append(out, id...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)

	if len(payload)%2 == 1 {
		out = append(out, 0)
	}

	return out
}

// wavFile wraps chunks into a RIFF/WAVE container.
func wavFile(chunks ...[]byte) []byte {
	body := bytes.Join(chunks, nil)

	out := make([]byte, 0, 12+len(body))
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(4+len(body)))
	out = append(out, "WAVE"...)

	return append(out, body...)
}

func fmtPayload(tag, channels uint16, rate uint32, blockAlign, bits uint16) []byte {
	out := make([]byte, 0, 16)
	out = binary.LittleEndian.AppendUint16(out, tag)
	out = binary.LittleEndian.AppendUint16(out, channels)
	out = binary.LittleEndian.AppendUint32(out, rate)
	out = binary.LittleEndian.AppendUint32(out, rate*uint32(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, blockAlign)

	return binary.LittleEndian.AppendUint16(out, bits)
}

type auTestHeader struct {
	offset, size, encoding, rate, channels uint32
}

func auFile(h auTestHeader, annotation, payload []byte) []byte {
	out := []byte(".snd")
	for _, v := range []uint32{h.offset, h.size, h.encoding, h.rate, h.channels} {
		out = binary.BigEndian.AppendUint32(out, v)
	}

	out = append(out, annotation...)

	return append(out, payload...)
}

// writeTestFile stores data under a fresh temp dir and returns its path.
func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("os.WriteFile(%q)=%v, want nil", path, err)
	}

	return path
}

// patternBuffer fills a buffer with a deterministic byte pattern.
func patternBuffer(t *testing.T, format SampleFormat, frames, channels, rate int) *Buffer {
	t.Helper()

	buf, err := NewBuffer(format, frames, channels, rate)
	if err != nil {
		t.Fatalf("NewBuffer(%s, %d, %d, %d)=%v, want nil", format, frames, channels, rate, err)
	}

	for i := range buf.Data {
		buf.Data[i] = byte(i*37 + 11)
	}

	return buf
}

func assertKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()

	if got := KindOf(err); got != want {
		t.Fatalf("KindOf(%v)=%s, want %s", err, got, want)
	}
}

func assertSameBuffer(t *testing.T, got, want *Buffer) {
	t.Helper()

	if got.Format != want.Format || got.Channels != want.Channels || got.SampleRate != want.SampleRate ||
		got.Frames != want.Frames || got.Size != want.Size {
		t.Fatalf("buffer %s, want format=%s channels=%d rate=%d frames=%d size=%d",
			describe(got), want.Format, want.Channels, want.SampleRate, want.Frames, want.Size)
	}

	if !bytes.Equal(got.Data, want.Data) {
		t.Fatalf("payload differs after round trip")
	}
}

func describe(b *Buffer) string {
	return fmt.Sprintf("format=%s channels=%d rate=%d frames=%d size=%d",
		b.Format, b.Channels, b.SampleRate, b.Frames, b.Size)
}

func assertNoFile(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("os.Stat(%q)=%v, want not exist", path, err)
	}
}
