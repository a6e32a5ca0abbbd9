package sound

import (
	"io"

	"github.com/go-audio/riff"
)

// CIDFact is the chunk ID of the fact chunk.
var CIDFact = [4]byte{'f', 'a', 'c', 't'}

// wavState collects what the chunk handlers found while scanning a file.
type wavState struct {
	op         string
	fmt        *fmtChunk
	data       []byte
	hasData    bool
	factFrames *uint32
}

func (s *wavState) complete() bool {
	return s.fmt != nil && s.hasData
}

// wavChunkHandler decodes one kind of RIFF/WAV chunk.
type wavChunkHandler interface {
	CanHandle(chunkID [4]byte) bool
	Decode(s *wavState, ch *riff.Chunk) error
}

// wavChunkRegistry resolves chunks to handlers. Chunks nobody handles are
// skipped by the caller.
type wavChunkRegistry struct {
	handlers []wavChunkHandler
}

func newDefaultWavChunkRegistry() *wavChunkRegistry {
	r := &wavChunkRegistry{}
	r.Register(&fmtChunkHandler{})
	r.Register(&factChunkHandler{})
	r.Register(&dataChunkHandler{})

	return r
}

// Register appends a handler to the registry.
func (r *wavChunkRegistry) Register(handler wavChunkHandler) {
	if r == nil || handler == nil {
		return
	}

	r.handlers = append(r.handlers, handler)
}

// Decode dispatches a chunk to the first matching handler.
func (r *wavChunkRegistry) Decode(s *wavState, ch *riff.Chunk) (bool, error) {
	if r == nil || ch == nil {
		return false, nil
	}

	for _, handler := range r.handlers {
		if handler.CanHandle(ch.ID) {
			return true, handler.Decode(s, ch)
		}
	}

	return false, nil
}

type fmtChunkHandler struct{}

func (*fmtChunkHandler) CanHandle(id [4]byte) bool { return id == riff.FmtID }

func (*fmtChunkHandler) Decode(s *wavState, ch *riff.Chunk) error {
	if s.fmt != nil {
		return newError(KindCorrupt, s.op, nil, "duplicate fmt chunk")
	}

	f, err := decodeFmtChunk(s.op, ch)
	if err != nil {
		return err
	}

	s.fmt = f
	ch.Drain()

	return nil
}

// factChunkHandler records the frame count that non-PCM files declare.
type factChunkHandler struct{}

func (*factChunkHandler) CanHandle(id [4]byte) bool { return id == CIDFact }

func (*factChunkHandler) Decode(s *wavState, ch *riff.Chunk) error {
	if s.factFrames != nil {
		return newError(KindCorrupt, s.op, nil, "duplicate fact chunk")
	}

	if ch.Size < 4 {
		return newError(KindCorrupt, s.op, nil, "fact chunk is %d bytes, want at least 4", ch.Size)
	}

	var frames uint32
	if err := ch.ReadLE(&frames); err != nil {
		return readError(s.op, err, "fact chunk")
	}

	s.factFrames = &frames
	ch.Drain()

	return nil
}

type dataChunkHandler struct{}

func (*dataChunkHandler) CanHandle(id [4]byte) bool { return id == riff.DataFormatID }

func (*dataChunkHandler) Decode(s *wavState, ch *riff.Chunk) error {
	if s.hasData {
		return newError(KindCorrupt, s.op, nil, "duplicate data chunk")
	}

	data := make([]byte, ch.Size)
	if _, err := io.ReadFull(ch, data); err != nil {
		return readError(s.op, err, "sample data")
	}

	s.data = data
	s.hasData = true

	return nil
}
