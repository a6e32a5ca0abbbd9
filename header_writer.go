package sound

import (
	"encoding/binary"
	"fmt"
	"io"
)

// headerWriter serializes container header fields and counts what it wrote.
type headerWriter struct {
	w            io.Writer
	WrittenBytes int
}

// AddLE serializes and adds the passed value using little endian.
func (e *headerWriter) AddLE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.w, binary.LittleEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write little endian: %w", err)
	}

	return nil
}

// AddBE serializes and adds the passed value using big endian.
func (e *headerWriter) AddBE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.w, binary.BigEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write big endian: %w", err)
	}

	return nil
}
