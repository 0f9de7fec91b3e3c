package ssrc

import "testing"

func TestCanResampleTruthTable(t *testing.T) {
	cases := []struct {
		sfrq, dfrq int
		want       bool
	}{
		{48000, 96000, true},
		{44100, 48000, true},
		{96000, 48000, true},
		{48000, 48000, true},
		{48000, 44100, true},
		{44100, 7, false},
	}
	for _, c := range cases {
		if got := CanResample(c.sfrq, c.dfrq); got != c.want {
			t.Errorf("CanResample(%d, %d) = %v; want %v", c.sfrq, c.dfrq, got, c.want)
		}
	}
}

func TestRatioReducesToLowestTerms(t *testing.T) {
	l, m := ratio(48000, 96000)
	if l != 2 || m != 1 {
		t.Errorf("ratio(48000, 96000) = (%d, %d); want (2, 1)", l, m)
	}
	l, m = ratio(44100, 48000)
	if g := gcd(44100, 48000); l != 48000/g || m != 44100/g {
		t.Errorf("ratio(44100, 48000) = (%d, %d) not reduced by gcd %d", l, m, g)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(44100, 48000, 2)
	if cfg.StopbandAtten != 96 || cfg.TransitionBand != 100 || cfg.FFTFIRLen != 1024 {
		t.Errorf("DefaultConfig produced unexpected filter-design parameters: %+v", cfg)
	}
	if cfg.SourceRate != 44100 || cfg.DestRate != 48000 || cfg.Channels != 2 {
		t.Errorf("DefaultConfig did not preserve rate/channel fields: %+v", cfg)
	}
}
