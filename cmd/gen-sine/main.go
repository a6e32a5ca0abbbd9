// This tool generates a sine tone and stores it in any writable container.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/cwbudde/sound"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("gen-sine", flag.ContinueOnError)

	output := flagSet.String("output", "output.wav", "filename to write to")
	frequency := flagSet.Float64("frequency", 440, "frequency in hertz to generate")
	length := flagSet.Float64("length", 5, "length in seconds of output file")
	rate := flagSet.Int("rate", 48000, "sample rate in hertz")
	channels := flagSet.Int("channels", 1, "number of identical channels")
	sampleFormat := flagSet.String("format", "int16", "sample format (int8, int16, int32, float32, float64)")
	container := flagSet.String("container", "", "container name, defaults to the output extension")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	format, err := sound.ParseSampleFormat(*sampleFormat)
	if err != nil {
		return err
	}

	name := *container
	if name == "" {
		c, ok := sound.FormatFromPath(*output)
		if !ok {
			return fmt.Errorf("can't tell the container of %s, pass -container", *output)
		}

		name = c.String()
	}

	if *channels < 1 {
		return fmt.Errorf("channel count must be at least 1, got %d", *channels)
	}

	log.Printf("generating a %f sec sine %s at %f hz", *length, name, *frequency)

	numFrames := int(float64(*rate) * *length)
	samples := make([]float32, 0, numFrames*(*channels))

	for i := range numFrames {
		v := float32(math.Sin(float64(i) / float64(*rate) * *frequency * 2 * math.Pi))
		for range *channels {
			samples = append(samples, v)
		}
	}

	buf, err := sound.NewBufferFromFloat32(samples, format, *channels, *rate)
	if err != nil {
		return err
	}
	defer buf.Release()

	if err := sound.Save(buf, *output, name); err != nil {
		return fmt.Errorf("error writing %s: %w", *output, err)
	}

	return nil
}
