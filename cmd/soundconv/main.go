// This tool converts a sound file into another container and, optionally,
// another sample format.
//
// Raw inputs can't describe themselves. Their layout comes from the -raw-*
// flags, which default to SOUND_RAW_FORMAT, SOUND_RAW_CHANNELS and
// SOUND_RAW_RATE read from the environment or from the file named by -env.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/cwbudde/sound"
	"github.com/joho/godotenv"
)

const (
	envRawFormat   = "SOUND_RAW_FORMAT"
	envRawChannels = "SOUND_RAW_CHANNELS"
	envRawRate     = "SOUND_RAW_RATE"
)

var errMissingPath = errors.New("usage: soundconv [flags] <input> <output>")

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	var e sound.Error
	if errors.As(err, &e) {
		sound.PrintError(e)
		os.Exit(1)
	}

	log.Fatal(err)
}

func run(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("soundconv", flag.ContinueOnError)

	to := flagSet.String("to", "", "output container, defaults to the output extension")
	sampleFormat := flagSet.String("format", "", "convert samples to this format (int8, int16, int32, float32, float64)")
	envFile := flagSet.String("env", ".env", "file with SOUND_RAW_* defaults")
	rawFormat := flagSet.String("raw-format", "", "sample format of a raw input")
	rawChannels := flagSet.Int("raw-channels", 0, "channel count of a raw input")
	rawRate := flagSet.Int("raw-rate", 0, "sample rate of a raw input")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if flagSet.NArg() != 2 {
		return errMissingPath
	}

	input, output := flagSet.Arg(0), flagSet.Arg(1)

	env, err := readEnv(*envFile)
	if err != nil {
		return err
	}

	buf, err := load(input, rawSettings{
		format:   firstNonEmpty(*rawFormat, env[envRawFormat]),
		channels: firstNonZero(*rawChannels, env[envRawChannels]),
		rate:     firstNonZero(*rawRate, env[envRawRate]),
	})
	if err != nil {
		return err
	}
	defer func() { buf.Release() }()

	if *sampleFormat != "" {
		buf, err = convert(buf, *sampleFormat)
		if err != nil {
			return err
		}
	}

	container := *to
	if container == "" {
		c, ok := sound.FormatFromPath(output)
		if !ok {
			return fmt.Errorf("can't tell the container of %s, pass -to", output)
		}

		container = c.String()
	}

	if err := sound.Save(buf, output, container); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s -> %s (%s, %s, %d channels, %d Hz, %d frames)\n",
		input, output, container, buf.Format, buf.Channels, buf.SampleRate, buf.Frames)

	return nil
}

type rawSettings struct {
	format   string
	channels string
	rate     string
}

// readEnv reads the optional dotenv file and overlays it on the process
// environment. A missing file is not an error.
func readEnv(path string) (map[string]string, error) {
	env := map[string]string{}
	for _, key := range []string{envRawFormat, envRawChannels, envRawRate} {
		if v := os.Getenv(key); v != "" {
			env[key] = v
		}
	}

	if path == "" {
		return env, nil
	}

	fileEnv, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return env, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	for key, v := range fileEnv {
		if _, set := env[key]; !set {
			env[key] = v
		}
	}

	return env, nil
}

func load(path string, raw rawSettings) (*sound.Buffer, error) {
	if c, ok := sound.FormatFromPath(path); !ok || c != sound.ContainerRaw {
		return sound.Load(path)
	}

	if raw == (rawSettings{}) {
		return sound.LoadRaw(path, nil)
	}

	var params sound.RawParams

	if raw.format != "" {
		format, err := sound.ParseSampleFormat(raw.format)
		if err != nil {
			return nil, err
		}

		params.Format = format
	}

	for _, field := range []struct {
		value string
		dst   *int
		name  string
	}{
		{raw.channels, &params.Channels, "channel count"},
		{raw.rate, &params.SampleRate, "sample rate"},
	} {
		if field.value == "" {
			continue
		}

		n, err := strconv.Atoi(field.value)
		if err != nil {
			return nil, fmt.Errorf("invalid raw %s %q: %w", field.name, field.value, err)
		}

		*field.dst = n
	}

	return sound.LoadRaw(path, &params)
}

// convert re-encodes buf in the named sample format through normalized
// doubles, which hold every int32 and float64 sample exactly.
func convert(buf *sound.Buffer, name string) (*sound.Buffer, error) {
	format, err := sound.ParseSampleFormat(name)
	if err != nil {
		return nil, err
	}

	if format == buf.Format {
		return buf, nil
	}

	converted, err := sound.NewBufferFromFloat64(buf.Float64s(), format, buf.Channels, buf.SampleRate)
	if err != nil {
		return nil, err
	}

	buf.Release()

	return converted, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func firstNonZero(flagValue int, envValue string) string {
	if flagValue != 0 {
		return strconv.Itoa(flagValue)
	}

	return envValue
}
