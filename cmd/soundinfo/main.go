// This tool prints the shape of the passed sound files.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cwbudde/sound"
)

const missingPathMessage = "You must pass the path of at least one sound file"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	var e sound.Error
	if errors.As(err, &e) {
		sound.PrintError(e)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	for _, path := range args {
		if err := describe(path, out); err != nil {
			return err
		}
	}

	return nil
}

func describe(path string, out io.Writer) error {
	container, err := sniffFile(path)
	if err != nil {
		return err
	}

	buf, err := sound.Load(path)
	if err != nil {
		return err
	}
	defer buf.Release()

	fmt.Fprintf(out, "File: %s\n", path)
	fmt.Fprintf(out, "Container: %s\n", container)
	fmt.Fprintf(out, "Format: %s\n", buf.Format)
	fmt.Fprintf(out, "Channels: %d\n", buf.Channels)
	fmt.Fprintf(out, "SampleRate: %d\n", buf.SampleRate)
	fmt.Fprintf(out, "Frames: %d\n", buf.Frames)
	fmt.Fprintf(out, "Bytes: %d\n", buf.Size)
	fmt.Fprintf(out, "Duration: %s\n", buf.Duration())

	return nil
}

// sniffFile reports the container of path, or "unknown" when nothing matches.
func sniffFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", sound.MakeError(sound.KindFilesystem, "soundinfo", err.Error())
	}
	defer file.Close()

	header := make([]byte, 12)

	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", sound.MakeError(sound.KindIO, "soundinfo", err.Error())
	}

	c, ok := sound.Sniff(header[:n])
	if !ok {
		return "unknown", nil
	}

	return c.String(), nil
}
