package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/sound"
)

func TestRunGeneratesWavFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "sine.wav")

	err := run([]string{"-output", outPath, "-length", "0.01", "-frequency", "220"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	fi, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}

	if fi.Size() <= 44 {
		t.Fatalf("unexpected small wav file size: %d", fi.Size())
	}

	buf, err := sound.LoadWAV(outPath)
	if err != nil {
		t.Fatalf("generated file is not a valid wav: %v", err)
	}

	if buf.SampleRate != 48000 {
		t.Fatalf("sample rate=%d, want 48000", buf.SampleRate)
	}

	if buf.Format != sound.Int16 {
		t.Fatalf("format=%s, want int16", buf.Format)
	}

	if buf.Channels != 1 {
		t.Fatalf("channels=%d, want 1", buf.Channels)
	}
}

func TestRunFlagParseError(t *testing.T) {
	err := run([]string{"-length", "not-a-number"})
	if err == nil {
		t.Fatalf("expected failure for invalid flag value")
	}
}

func TestRunDefaultParams(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "default.wav")

	err := run([]string{"-output", outPath, "-length", "0.005"})
	if err != nil {
		t.Fatalf("run with defaults failed: %v", err)
	}

	buf, err := sound.Load(outPath)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// 0.005 sec * 48000 Hz = 240 samples
	if buf.Frames != 240 {
		t.Fatalf("expected 240 frames, got %d", buf.Frames)
	}
}

func TestRunContainerAndFormat(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "tone.bin")

	err := run([]string{"-output", outPath, "-length", "0.01", "-container", "au",
		"-format", "float64", "-channels", "2", "-rate", "8000"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	buf, err := sound.LoadAU(outPath)
	if err != nil {
		t.Fatalf("LoadAU() error=%v", err)
	}

	if buf.Format != sound.Float64 || buf.Channels != 2 || buf.Frames != 80 {
		t.Fatalf("got %s with %d channels and %d frames, want float64 stereo with 80 frames",
			buf.Format, buf.Channels, buf.Frames)
	}
}

func TestRunUnknownContainer(t *testing.T) {
	err := run([]string{"-output", filepath.Join(t.TempDir(), "tone.xyz"), "-length", "0.001"})
	if err == nil {
		t.Fatal("expected error for an output without a known extension")
	}
}

func TestRunInvalidOutputPath(t *testing.T) {
	err := run([]string{"-output", "/nonexistent/dir/file.wav", "-length", "0.001"})
	if err == nil {
		t.Fatal("expected error for invalid output path")
	}
}
