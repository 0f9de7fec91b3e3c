package ssrc

import (
	"encoding/binary"
	"math"
	"testing"
)

func encodeFrames(samples []float64) []byte {
	out := make([]byte, len(samples)*8)
	for i, s := range samples {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], math.Float64bits(s))
	}
	return out
}

func decodeFrames(data []byte) []float64 {
	out := make([]float64, len(data)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8 : i*8+8]))
	}
	return out
}

func TestNewRejectsUnsupportedRatePair(t *testing.T) {
	cfg := DefaultConfig(44100, 7, 1)
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for an unresamplable rate pair")
	}
}

func TestNewRejectsNonPositiveChannels(t *testing.T) {
	cfg := DefaultConfig(44100, 48000, 0)
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for a non-positive channel count")
	}
}

func TestUnityPassthroughIsExact(t *testing.T) {
	cfg := DefaultConfig(48000, 48000, 1)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := r.(*unity); !ok {
		t.Fatalf("New with sfrq == dfrq should return a *unity, got %T", r)
	}

	samples := make([]float64, 64)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * float64(i) * 1000 / 48000)
	}
	in := encodeFrames(samples)

	n := r.Write(in)
	if n != len(samples) {
		t.Fatalf("Write consumed %d frames; want %d", n, len(samples))
	}
	r.Finish()

	got := decodeFrames(r.GetBuffer())
	if len(got) != len(samples) {
		t.Fatalf("output has %d samples; want %d", len(got), len(samples))
	}
	for i := range samples {
		if math.Abs(got[i]-samples[i]) > 1e-12 {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], samples[i])
		}
	}
}

func TestNewPicksUpsamplerAndDownsampler(t *testing.T) {
	up, err := New(DefaultConfig(48000, 96000, 1))
	if err != nil {
		t.Fatalf("New(up): %v", err)
	}
	if _, ok := up.(*Upsampler); !ok {
		t.Fatalf("New(48000 -> 96000) = %T; want *Upsampler", up)
	}

	down, err := New(DefaultConfig(96000, 48000, 1))
	if err != nil {
		t.Fatalf("New(down): %v", err)
	}
	if _, ok := down.(*Downsampler); !ok {
		t.Fatalf("New(96000 -> 48000) = %T; want *Downsampler", down)
	}
}

func TestUpsamplerWriteConsumesAllFramesOffered(t *testing.T) {
	cfg := DefaultConfig(48000, 96000, 1)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	samples := make([]float64, 256)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * float64(i) * 1000 / 48000)
	}
	n := r.Write(encodeFrames(samples))
	if n != len(samples) {
		t.Fatalf("Write consumed %d frames; want %d", n, len(samples))
	}
	if r.Latency() < 0 {
		t.Fatalf("Latency() = %d; want non-negative", r.Latency())
	}
	r.Finish()
	if len(r.GetBuffer())%8 != 0 {
		t.Fatalf("output buffer length %d is not a whole number of float64 samples", len(r.GetBuffer()))
	}
}

// TestUpsample2xPreservesSineAmplitude drives a real 2x upsample end to end
// and checks amplitude and sample count, not just buffer shape (spec.md §8
// scenario 6). It is the regression test for internal/rdft's inverse-FFT
// normalization: without dividing Sequence's result by the transform
// length, every non-identity resample comes out scaled by that length
// instead of by the intended stage-1 interpolation gain, which this test's
// amplitude bound would catch immediately (the two differ by orders of
// magnitude).
func TestUpsample2xPreservesSineAmplitude(t *testing.T) {
	const sfrq, dfrq = 8000, 16000
	const freq = 500 // well inside the passband for both rates
	const n = 8192

	cfg := DefaultConfig(sfrq, dfrq, 1)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / sfrq)
	}
	if got := r.Write(encodeFrames(samples)); got != n {
		t.Fatalf("Write consumed %d frames; want %d", got, n)
	}
	r.Finish()

	out := decodeFrames(r.GetBuffer())
	wantLen := n * dfrq / sfrq
	if diff := len(out) - wantLen; diff < -512 || diff > 512 {
		t.Fatalf("output length = %d; want ~%d (within one block grid)", len(out), wantLen)
	}

	// Skip edge transients on both ends; group-delay masking already strips
	// the filter ramp from the front, but a generous margin keeps this test
	// about amplitude, not alignment.
	margin := len(out) / 4
	peak := 0.0
	for _, v := range out[margin : len(out)-margin] {
		if math.Abs(v) > peak {
			peak = math.Abs(v)
		}
	}
	if peak < 0.8 || peak > 1.2 {
		t.Fatalf("peak amplitude = %v; want ~1.0 (correctly normalized passband gain)", peak)
	}
}

func TestFlushResetsBuffers(t *testing.T) {
	cfg := DefaultConfig(48000, 48000, 1)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.Write(encodeFrames([]float64{1, 2, 3}))
	r.Flush()
	if len(r.GetBuffer()) != 0 {
		t.Fatalf("GetBuffer() after Flush() = %d bytes; want 0", len(r.GetBuffer()))
	}
}
