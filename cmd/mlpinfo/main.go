// mlpinfo decodes an MLP/Dolby TrueHD elementary stream one access unit at a
// time and reports the stream parameters it finds, or converts it to WAV.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"
	flagpkg "github.com/spf13/pflag"

	"github.com/mewkiz/trueaudio/mlp"
)

var (
	flagForce   bool
	flagToWav   bool
	flagVerbose bool
)

func init() {
	flagpkg.BoolVarP(&flagForce, "force", "f", false, "force overwrite of output files")
	flagpkg.BoolVar(&flagToWav, "wav", false, "decode to a WAV file alongside each input")
	flagpkg.BoolVarP(&flagVerbose, "verbose", "v", false, "show the decoder's log messages (warnings, check failures)")
}

func main() {
	flagpkg.Parse()
	if flagpkg.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: mlpinfo [OPTION]... FILE...")
		flagpkg.PrintDefaults()
		os.Exit(1)
	}
	for _, path := range flagpkg.Args() {
		if err := run(path); err != nil {
			fmt.Fprintf(os.Stderr, "mlpinfo: %+v\n", err)
			os.Exit(1)
		}
	}
}

func run(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %q", path)
	}

	d := mlp.NewDecoder()
	d.OutputDepth = 16
	if !flagVerbose {
		d.Log.SetOutput(io.Discard)
	}

	var enc *wav.Encoder
	var wavFile *os.File
	if flagToWav {
		wavPath := pathutil.TrimExt(path) + ".wav"
		if !flagForce && osutil.Exists(wavPath) {
			return errors.Errorf("the file %q exists already", wavPath)
		}
		wavFile, err = os.Create(wavPath)
		if err != nil {
			return errors.Wrapf(err, "creating %q", wavPath)
		}
		defer wavFile.Close()
	}

	buf := raw
	var accessUnits int
	for len(buf) > 0 {
		n, au, err := d.ReadAccessUnit(buf)
		if err != nil {
			return errors.Wrapf(err, "access unit %d in %q", accessUnits, path)
		}
		if n == 0 {
			break
		}
		accessUnits++

		if enc == nil && wavFile != nil {
			enc = wav.NewEncoder(wavFile, au.SampleRate, d.OutputDepth, au.Channels, 1)
			defer enc.Close()
		}
		if enc != nil {
			samples := &audio.IntBuffer{
				Format: &audio.Format{NumChannels: au.Channels, SampleRate: au.SampleRate},
				Data:   make([]int, len(au.Samples)),
			}
			for i, s := range au.Samples {
				samples.Data[i] = int(s)
			}
			if err := enc.Write(samples); err != nil {
				return errors.Wrap(err, "writing WAV samples")
			}
		}

		buf = buf[n:]
	}

	fmt.Printf("%s: %d access units, %d Hz, %d-bit, %d channel(s)\n",
		path, accessUnits, d.SampleRate(), d.BitsPerSample(), d.Channels())
	return nil
}
