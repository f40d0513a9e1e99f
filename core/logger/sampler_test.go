package logger

import "testing"

func TestParseRatioSpec(t *testing.T) {
	cases := map[string][2]int{
		"":      {0, 0},
		"1/10":  {1, 10},
		" 3/4 ": {3, 4},
		"50":    {1, 50},
		"0":     {0, 0},
		"x/2":   {0, 0},
		"often": {0, 0},
	}
	for spec, want := range cases {
		num, den := parseRatioSpec(spec)
		if num != want[0] || den != want[1] {
			t.Errorf("parseRatioSpec(%q) = %d/%d, want %d/%d", spec, num, den, want[0], want[1])
		}
	}
}

func TestRatioSamplerAllow(t *testing.T) {
	s := newRatioSampler(2, 5)
	allowed := 0
	for i := 0; i < 20; i++ {
		if s.Allow() {
			allowed++
		}
	}
	if allowed != 8 {
		t.Fatalf("allowed = %d of 20, want 8", allowed)
	}

	s.Set(0, 0)
	for i := 0; i < 3; i++ {
		if !s.Allow() {
			t.Fatal("disabled sampler must let everything through")
		}
	}

	s.Set(9, 3)
	if !s.Allow() || !s.Allow() || !s.Allow() {
		t.Fatal("numerator above denominator means every event")
	}
}
