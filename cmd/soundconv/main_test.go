package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/sound"
)

func clearRawEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{envRawFormat, envRawChannels, envRawRate} {
		t.Setenv(key, "")
	}
}

func writeTone(t *testing.T, path, container string, format sound.SampleFormat) *sound.Buffer {
	t.Helper()

	samples := make([]float32, 2*100)
	for i := range samples {
		samples[i] = float32(i%50)/50 - 0.5
	}

	buf, err := sound.NewBufferFromFloat32(samples, format, 2, 22050)
	if err != nil {
		t.Fatalf("NewBufferFromFloat32() error=%v", err)
	}

	if err := sound.Save(buf, path, container); err != nil {
		t.Fatalf("Save() error=%v", err)
	}

	return buf
}

func TestRunRequiresPaths(t *testing.T) {
	var out bytes.Buffer

	if err := run(nil, &out); !errors.Is(err, errMissingPath) {
		t.Fatalf("run(nil)=%v, want errMissingPath", err)
	}

	if err := run([]string{"only-input.wav"}, &out); !errors.Is(err, errMissingPath) {
		t.Fatalf("run(one arg)=%v, want errMissingPath", err)
	}
}

func TestRunConvertsContainer(t *testing.T) {
	clearRawEnv(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.au")
	want := writeTone(t, in, "wav", sound.Int16)

	var out bytes.Buffer
	if err := run([]string{"-env", "", in, outPath}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got, err := sound.LoadAU(outPath)
	if err != nil {
		t.Fatalf("LoadAU() error=%v", err)
	}

	if got.Frames != want.Frames || !bytes.Equal(got.Data, want.Data) {
		t.Fatalf("converted file differs from the source")
	}

	if !strings.Contains(out.String(), "(au, int16, 2 channels, 22050 Hz, 100 frames)") {
		t.Fatalf("unexpected summary %q", out.String())
	}
}

func TestRunConvertsSampleFormat(t *testing.T) {
	clearRawEnv(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.au")
	outPath := filepath.Join(dir, "out.bin")
	writeTone(t, in, "au", sound.Float32)

	var out bytes.Buffer
	if err := run([]string{"-env", "", "-to", "flac", "-format", "s16", in, outPath}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got, err := sound.Load(outPath)
	if err != nil {
		t.Fatalf("Load() error=%v", err)
	}

	if got.Format != sound.Int16 || got.Channels != 2 || got.Frames != 100 {
		t.Fatalf("got %s with %d channels and %d frames, want int16 stereo with 100 frames",
			got.Format, got.Channels, got.Frames)
	}
}

func TestRunRawInputFromFlags(t *testing.T) {
	clearRawEnv(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.raw")
	outPath := filepath.Join(dir, "out.wav")
	want := writeTone(t, in, "raw", sound.Int32)

	args := []string{"-env", "", "-raw-format", "int32", "-raw-channels", "2", "-raw-rate", "22050", in, outPath}

	var out bytes.Buffer
	if err := run(args, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got, err := sound.LoadWAV(outPath)
	if err != nil {
		t.Fatalf("LoadWAV() error=%v", err)
	}

	if got.Format != sound.Int32 || got.SampleRate != 22050 || !bytes.Equal(got.Data, want.Data) {
		t.Fatalf("converted raw file differs from the source")
	}
}

func TestRunRawInputFromEnvFile(t *testing.T) {
	clearRawEnv(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.pcm")
	outPath := filepath.Join(dir, "out.wav")
	envPath := filepath.Join(dir, "sound.env")
	writeTone(t, in, "raw", sound.Int16)

	env := "SOUND_RAW_FORMAT=int16\nSOUND_RAW_CHANNELS=2\nSOUND_RAW_RATE=22050\n"
	if err := os.WriteFile(envPath, []byte(env), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error=%v", err)
	}

	var out bytes.Buffer
	if err := run([]string{"-env", envPath, in, outPath}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got, err := sound.LoadWAV(outPath)
	if err != nil {
		t.Fatalf("LoadWAV() error=%v", err)
	}

	if got.Channels != 2 || got.SampleRate != 22050 || got.Frames != 100 {
		t.Fatalf("got %d channels at %d Hz with %d frames, want 2 at 22050 Hz with 100",
			got.Channels, got.SampleRate, got.Frames)
	}
}

func TestRunRawInputWithoutParams(t *testing.T) {
	clearRawEnv(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.raw")
	writeTone(t, in, "raw", sound.Int16)

	var out bytes.Buffer
	err := run([]string{"-env", filepath.Join(dir, "missing.env"), in, filepath.Join(dir, "out.wav")}, &out)
	if !errors.Is(err, sound.ErrUnsupported) {
		t.Fatalf("run()=%v, want an unsupported error", err)
	}
}

func TestRunRawInputPartialParams(t *testing.T) {
	clearRawEnv(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.raw")
	writeTone(t, in, "raw", sound.Int8)

	var out bytes.Buffer
	err := run([]string{"-env", "", "-raw-format", "int8", in, filepath.Join(dir, "out.wav")}, &out)
	if !errors.Is(err, sound.ErrInvalidArgument) {
		t.Fatalf("run(-raw-format only)=%v, want an invalid argument error", err)
	}
}

func TestConvertKeepsInt32Precision(t *testing.T) {
	want, err := sound.NewBuffer(sound.Int32, 4, 1, 48000)
	if err != nil {
		t.Fatalf("NewBuffer() error=%v", err)
	}

	for i := range want.Data {
		want.Data[i] = byte(i*53 + 7)
	}

	original := want.Ints()

	wide, err := convert(want, "float64")
	if err != nil {
		t.Fatalf("convert(float64) error=%v", err)
	}

	back, err := convert(wide, "int32")
	if err != nil {
		t.Fatalf("convert(int32) error=%v", err)
	}

	got := back.Ints()
	for i := range original {
		if got[i] != original[i] {
			t.Fatalf("sample %d=%d after int32 -> float64 -> int32, want %d", i, got[i], original[i])
		}
	}
}

func TestRunUnknownOutputContainer(t *testing.T) {
	clearRawEnv(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	writeTone(t, in, "wav", sound.Int16)

	var out bytes.Buffer
	if err := run([]string{"-env", "", in, filepath.Join(dir, "out.xyz")}, &out); err == nil {
		t.Fatal("expected error for an output without a known extension")
	}

	err := run([]string{"-env", "", "-to", "mp3", in, filepath.Join(dir, "out.mp3")}, &out)
	if !errors.Is(err, sound.ErrInvalidArgument) {
		t.Fatalf("run(-to mp3)=%v, want an invalid argument error", err)
	}
}
