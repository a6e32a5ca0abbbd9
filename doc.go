// Package sound loads sound files into in-memory sample buffers and writes
// them back out.
//
// The package reads and writes WAV (RIFF/WAVE), Sun/NeXT AU and headerless
// raw files in 8/16/32-bit integer and 32/64-bit float sample formats. AIFF
// and FLAC can be read and written, MP3 and Ogg Vorbis can be read.
//
// Every fallible operation returns an Error carrying an ErrorKind, the name
// of the failing operation and a bounded message:
//
//	buf, err := sound.Load("kick.wav")
//	if err != nil {
//		sound.PrintError(sound.AsError(err))
//		return
//	}
//	defer buf.Release()
//
//	if err := sound.Save(buf, "kick.au", "au"); errors.Is(err, sound.ErrUnsupported) {
//		...
//	}
//
// Sample payloads are kept in host byte order. Load picks the codec from the
// file content; Save takes an explicit container name.
package sound
