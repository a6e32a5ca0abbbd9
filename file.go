package sound

import (
	"bufio"
	"errors"
	"io"
	"os"
)

// openFile opens path for reading and returns its size. Directories are
// rejected.
func openFile(op, path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, newError(KindFilesystem, op, err, "'%s': %v", path, pathErrText(err))
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, newError(KindFilesystem, op, err, "'%s': %v", path, pathErrText(err))
	}

	if info.IsDir() {
		f.Close()
		return nil, 0, newError(KindFilesystem, op, nil, "'%s' is a directory", path)
	}

	return f, info.Size(), nil
}

// loadFile opens path and hands the file and its size to decode. The file is
// closed on every path.
func loadFile(op, path string, decode func(r io.Reader, size int64) (*Buffer, error)) (*Buffer, error) {
	f, size, err := openFile(op, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decode(bufio.NewReader(f), size)
}

// loadSeekableFile is loadFile for decoders that need to seek.
func loadSeekableFile(op, path string, decode func(rs io.ReadSeeker) (*Buffer, error)) (*Buffer, error) {
	f, _, err := openFile(op, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decode(f)
}

// saveFile creates path and runs encode on it. A failed encode removes the
// partially written file.
func saveFile(op, path string, encode func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return newError(KindFilesystem, op, err, "'%s': %v", path, pathErrText(err))
	}

	err = encode(f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = newError(KindIO, op, closeErr, "closing '%s': %v", path, closeErr)
	}

	if err != nil {
		_ = os.Remove(path)

		var e Error
		if errors.As(err, &e) {
			return e
		}

		return newError(KindIO, op, err, "writing '%s': %v", path, err)
	}

	return nil
}

// recoverCorrupt turns a panic raised while decoding into a corrupt error.
// It must be deferred directly by a decoder with named results.
func recoverCorrupt(op string, buf **Buffer, err *error) {
	r := recover()
	if r == nil {
		return
	}

	*buf = nil
	*err = newError(KindCorrupt, op, nil, "malformed stream: %v", r)
}

// writeBuffered runs write against a buffered writer and flushes it.
func writeBuffered(w io.Writer, write func(w io.Writer) error) error {
	bw := bufio.NewWriter(w)
	if err := write(bw); err != nil {
		return err
	}

	return bw.Flush()
}

// readError classifies a failed read of what.
func readError(op string, err error, what string) Error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return newError(KindIO, op, err, "truncated %s", what)
	}

	return newError(KindIO, op, err, "reading %s: %v", what, err)
}

func pathErrText(err error) string {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}

	return err.Error()
}
