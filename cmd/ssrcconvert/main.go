// ssrcconvert resamples WAV files to a new sample rate using the ssrc
// package's polyphase/FFT converter. It also accepts a YAML batch job file
// describing several conversions to run in one invocation.
package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"
	flagpkg "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mewkiz/trueaudio/ssrc"
)

var (
	flagForce bool
	flagRate  int
	flagJob   string
	flagAtten float64
	flagTrans float64
)

func init() {
	flagpkg.BoolVarP(&flagForce, "force", "f", false, "force overwrite of output files")
	flagpkg.IntVarP(&flagRate, "rate", "r", 48000, "destination sample rate in Hz")
	flagpkg.StringVarP(&flagJob, "job", "j", "", "YAML batch job file describing several conversions")
	flagpkg.Float64Var(&flagAtten, "atten", 96, "stop-band attenuation in dB")
	flagpkg.Float64Var(&flagTrans, "transition", 100, "transition band width in Hz")
}

// job is one entry of a YAML batch conversion file.
type job struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Rate   int    `yaml:"rate"`
}

func main() {
	flagpkg.Parse()

	if flagJob != "" {
		if err := runJobFile(flagJob); err != nil {
			fmt.Fprintf(os.Stderr, "ssrcconvert: %+v\n", err)
			os.Exit(1)
		}
		return
	}

	if flagpkg.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ssrcconvert [OPTION]... FILE.wav...")
		flagpkg.PrintDefaults()
		os.Exit(1)
	}
	for _, path := range flagpkg.Args() {
		out := pathutil.TrimExt(path) + fmt.Sprintf(".%dhz.wav", flagRate)
		if err := convert(path, out, flagRate); err != nil {
			fmt.Fprintf(os.Stderr, "ssrcconvert: %+v\n", err)
			os.Exit(1)
		}
	}
}

func runJobFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading job file %q", path)
	}
	var jobs []job
	if err := yaml.Unmarshal(raw, &jobs); err != nil {
		return errors.Wrapf(err, "parsing job file %q", path)
	}
	for _, j := range jobs {
		if err := convert(j.Input, j.Output, j.Rate); err != nil {
			return err
		}
	}
	return nil
}

func convert(inPath, outPath string, destRate int) error {
	if !flagForce && osutil.Exists(outPath) {
		return errors.Errorf("the file %q exists already", outPath)
	}

	fr, err := os.Open(inPath)
	if err != nil {
		return errors.Wrapf(err, "opening %q", inPath)
	}
	defer fr.Close()

	dec := wav.NewDecoder(fr)
	if !dec.IsValidFile() {
		return errors.Errorf("%q is not a valid WAV file", inPath)
	}
	sourceRate := int(dec.SampleRate)
	channels := int(dec.NumChans)

	if !ssrc.CanResample(sourceRate, destRate) {
		return errors.Errorf("%q: cannot resample %d Hz to %d Hz", inPath, sourceRate, destRate)
	}
	cfg := ssrc.DefaultConfig(sourceRate, destRate, channels)
	cfg.StopbandAtten = flagAtten
	cfg.TransitionBand = flagTrans
	r, err := ssrc.New(cfg)
	if err != nil {
		return errors.Wrapf(err, "constructing resampler for %q", inPath)
	}

	fw, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "creating %q", outPath)
	}
	defer fw.Close()

	enc := wav.NewEncoder(fw, destRate, int(dec.BitDepth), channels, 1)
	defer enc.Close()

	if err := dec.FwdToPCM(); err != nil {
		return errors.Wrapf(err, "seeking to PCM data in %q", inPath)
	}
	buf := &audio.IntBuffer{Format: &audio.Format{NumChannels: channels, SampleRate: sourceRate}, Data: make([]int, 4096)}
	for !dec.EOF() {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return errors.Wrapf(err, "reading PCM from %q", inPath)
		}
		if n == 0 {
			break
		}
		frames := make([]float64, n)
		scale := math.Pow(2, float64(dec.BitDepth-1))
		for i := 0; i < n; i++ {
			frames[i] = float64(buf.Data[i]) / scale
		}
		r.Write(encodeFloat64LE(frames))
		if err := drain(enc, r, channels, scale); err != nil {
			return err
		}
	}
	r.Finish()
	return drain(enc, r, channels, math.Pow(2, float64(dec.BitDepth-1)))
}

func drain(enc *wav.Encoder, r ssrc.Resampler, channels int, scale float64) error {
	out := r.GetBuffer()
	samples := decodeFloat64LE(out)
	r.Read(len(out))
	if len(samples) == 0 {
		return nil
	}
	ib := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: 0},
		Data:   make([]int, len(samples)),
	}
	for i, s := range samples {
		ib.Data[i] = int(s * scale)
	}
	return enc.Write(ib)
}

func encodeFloat64LE(samples []float64) []byte {
	out := make([]byte, len(samples)*8)
	for i, s := range samples {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], math.Float64bits(s))
	}
	return out
}

func decodeFloat64LE(data []byte) []float64 {
	out := make([]float64, len(data)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8 : i*8+8]))
	}
	return out
}
