package sound

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Container identifies a file layout handled by the package.
type Container uint8

const (
	ContainerAU Container = iota
	ContainerWAV
	ContainerRaw
	ContainerAIFF
	ContainerFLAC
	ContainerMP3
	ContainerVorbis
)

// headerProbeLen is the number of leading bytes Load inspects. Sniff needs 12
// of them, the rest lets Load find the second frame of an MPEG stream.
const headerProbeLen = 4096

var containerNames = [...]string{
	ContainerAU:     "au",
	ContainerWAV:    "wav",
	ContainerRaw:    "raw",
	ContainerAIFF:   "aiff",
	ContainerFLAC:   "flac",
	ContainerMP3:    "mp3",
	ContainerVorbis: "vorbis",
}

var containerAliases = map[string]Container{
	"au":     ContainerAU,
	"snd":    ContainerAU,
	"wav":    ContainerWAV,
	"wave":   ContainerWAV,
	"raw":    ContainerRaw,
	"pcm":    ContainerRaw,
	"aiff":   ContainerAIFF,
	"aif":    ContainerAIFF,
	"aifc":   ContainerAIFF,
	"flac":   ContainerFLAC,
	"mp3":    ContainerMP3,
	"ogg":    ContainerVorbis,
	"oga":    ContainerVorbis,
	"vorbis": ContainerVorbis,
}

func (c Container) String() string {
	if int(c) < len(containerNames) {
		return containerNames[c]
	}

	return "unknown"
}

// ParseContainer resolves a container name or alias, ignoring case.
func ParseContainer(name string) (Container, error) {
	c, ok := containerAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, newError(KindInvalidArgument, "ParseContainer", nil, "unknown container %q", name)
	}

	return c, nil
}

// CanLoad reports whether the package can read the container. Raw files are
// readable only through LoadRaw.
func (c Container) CanLoad() bool {
	return int(c) < len(containerNames)
}

// CanSave reports whether the package can write the container.
func (c Container) CanSave() bool {
	switch c {
	case ContainerAU, ContainerWAV, ContainerRaw, ContainerAIFF, ContainerFLAC:
		return true
	default:
		return false
	}
}

// Supports reports whether Save can store samples of the given format in c.
func (c Container) Supports(format SampleFormat) bool {
	if !format.Valid() {
		return false
	}

	switch c {
	case ContainerAU, ContainerWAV, ContainerRaw:
		return true
	case ContainerAIFF:
		return !format.IsFloat()
	case ContainerFLAC:
		return format == Int8 || format == Int16
	default:
		return false
	}
}

// FormatFromPath guesses a container from the file extension. Load and Save
// never call it; it exists for tools that want a default.
func FormatFromPath(path string) (Container, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, false
	}

	c, ok := containerAliases[strings.ToLower(ext)]

	return c, ok
}

// Sniff identifies a container from the first bytes of a file. Raw payloads
// carry no signature and are never reported. A bare MPEG frame header is only
// 11 sync bits, so headerless data can look like MP3 here; Load also requires
// a second frame header before it picks the MP3 codec.
func Sniff(header []byte) (Container, bool) {
	switch {
	case len(header) >= 12 && bytes.HasPrefix(header, []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return ContainerWAV, true
	case bytes.HasPrefix(header, []byte(".snd")):
		return ContainerAU, true
	case len(header) >= 12 && bytes.HasPrefix(header, []byte("FORM")) &&
		(bytes.Equal(header[8:12], []byte("AIFF")) || bytes.Equal(header[8:12], []byte("AIFC"))):
		return ContainerAIFF, true
	case bytes.HasPrefix(header, []byte("fLaC")):
		return ContainerFLAC, true
	case bytes.HasPrefix(header, []byte("OggS")):
		return ContainerVorbis, true
	case bytes.HasPrefix(header, []byte("ID3")), isMPEGFrameSync(header):
		return ContainerMP3, true
	default:
		return 0, false
	}
}

// isMPEGFrameSync checks for an MPEG audio frame header: 11 sync bits, a
// defined layer, and bitrate and sample rate indexes that aren't reserved.
func isMPEGFrameSync(b []byte) bool {
	if len(b) < 4 || b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return false
	}

	version := (b[1] >> 3) & 0x03
	layer := (b[1] >> 1) & 0x03
	bitrate := b[2] >> 4
	rate := (b[2] >> 2) & 0x03

	return version != 1 && layer != 0 && bitrate != 0x0F && rate != 0x03
}

// Load reads a sound file, picking the codec from the file content.
// Raw files can't be detected and must be read with LoadRaw.
func Load(path string) (*Buffer, error) {
	const op = "Load"

	header, err := readHeader(op, path)
	if err != nil {
		return nil, err
	}

	c, ok := Sniff(header)
	if ok && c == ContainerMP3 {
		ok = confirmMPEG(header, len(header) < headerProbeLen)
	}

	if !ok {
		return nil, newError(KindUnknownFormat, op, nil, "'%s' has no recognized signature", path)
	}

	switch c {
	case ContainerWAV:
		return LoadWAV(path)
	case ContainerAU:
		return LoadAU(path)
	case ContainerAIFF:
		return LoadAIFF(path)
	case ContainerFLAC:
		return LoadFLAC(path)
	case ContainerMP3:
		return LoadMP3(path)
	case ContainerVorbis:
		return LoadVorbis(path)
	default:
		return nil, newError(KindUnknownFormat, op, nil, "'%s' is a %s file", path, c)
	}
}

// Save writes buf to path in the named container. The name is matched by
// ParseContainer; the extension of path is not consulted.
func Save(buf *Buffer, path, format string) error {
	const op = "Save"

	c, err := ParseContainer(format)
	if err != nil {
		return newError(KindInvalidArgument, op, err, "unknown container %q", format)
	}

	switch c {
	case ContainerAU:
		return SaveAU(buf, path)
	case ContainerWAV:
		return SaveWAV(buf, path)
	case ContainerRaw:
		return SaveRaw(buf, path)
	case ContainerAIFF:
		return SaveAIFF(buf, path)
	case ContainerFLAC:
		return SaveFLAC(buf, path)
	default:
		return newError(KindInvalidArgument, op, nil, "%s files can't be written", c)
	}
}

// readHeader returns up to headerProbeLen leading bytes of path.
func readHeader(op, path string) ([]byte, error) {
	f, _, err := openFile(op, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := make([]byte, headerProbeLen)

	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, readError(op, err, "file signature")
	}

	return header[:n], nil
}
