package survival

import (
	"math"
	"testing"
)

func TestKaplanMeierHandComputed(t *testing.T) {
	// Six subjects: events at 1, 3, 5; censored at 2, 4, 6.
	// S(1) = 5/6, S(3) = 5/6 * 3/4 = 0.625, S(5) = 0.625 * 1/2 = 0.3125.
	obs := []Observation{
		{Time: 1, Event: true},
		{Time: 2, Event: false},
		{Time: 3, Event: true},
		{Time: 4, Event: false},
		{Time: 5, Event: true},
		{Time: 6, Event: false},
	}

	curve := KaplanMeier(obs)

	wantTimes := []float64{1, 3, 5}
	wantProb := []float64{5.0 / 6.0, 0.625, 0.3125}

	if len(curve.Times) != len(wantTimes) {
		t.Fatalf("expected %d event times, got %d", len(wantTimes), len(curve.Times))
	}
	for i := range wantTimes {
		if curve.Times[i] != wantTimes[i] {
			t.Errorf("event time %d: got %v, want %v", i, curve.Times[i], wantTimes[i])
		}
		if math.Abs(curve.Prob[i]-wantProb[i]) > 1e-12 {
			t.Errorf("S(%v): got %v, want %v", wantTimes[i], curve.Prob[i], wantProb[i])
		}
	}
}

func TestKaplanMeierTiedEvents(t *testing.T) {
	// Two deaths at the same time drop the estimate by (1 - 2/n) in one step.
	obs := []Observation{
		{Time: 2, Event: true},
		{Time: 2, Event: true},
		{Time: 5, Event: false},
		{Time: 7, Event: true},
	}

	curve := KaplanMeier(obs)

	if len(curve.Times) != 2 {
		t.Fatalf("expected 2 distinct event times, got %d", len(curve.Times))
	}
	if math.Abs(curve.Prob[0]-0.5) > 1e-12 {
		t.Errorf("S(2): got %v, want 0.5", curve.Prob[0])
	}
	if curve.Deaths[0] != 2 {
		t.Errorf("deaths at t=2: got %d, want 2", curve.Deaths[0])
	}
	// One subject at risk at t=7, who dies.
	if math.Abs(curve.Prob[1]-0) > 1e-12 {
		t.Errorf("S(7): got %v, want 0", curve.Prob[1])
	}
}

func TestKaplanMeierStepLookup(t *testing.T) {
	obs := []Observation{
		{Time: 1, Event: true},
		{Time: 3, Event: true},
	}
	curve := KaplanMeier(obs)

	if got := curve.At(0.5); got != 1 {
		t.Errorf("At(0.5): got %v, want 1 before the first event", got)
	}
	if got := curve.At(2); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("At(2): got %v, want 0.5", got)
	}
	if got := curve.At(10); got != 0 {
		t.Errorf("At(10): got %v, want 0 after the last event", got)
	}
}

func TestKaplanMeierBoundsClipped(t *testing.T) {
	obs := []Observation{
		{Time: 1, Event: true},
		{Time: 2, Event: true},
		{Time: 3, Event: true},
	}
	curve := KaplanMeier(obs)
	for i := range curve.Times {
		if curve.Lower[i] < 0 || curve.Upper[i] > 1 {
			t.Errorf("CI at %v not clipped: [%v, %v]", curve.Times[i], curve.Lower[i], curve.Upper[i])
		}
		if curve.Lower[i] > curve.Prob[i] || curve.Upper[i] < curve.Prob[i] {
			t.Errorf("CI at %v does not bracket the estimate", curve.Times[i])
		}
	}
}

func TestKaplanMeierEmpty(t *testing.T) {
	curve := KaplanMeier(nil)
	if len(curve.Times) != 0 {
		t.Errorf("expected empty curve for no observations")
	}
	if got := curve.At(5); got != 1 {
		t.Errorf("empty curve At(5): got %v, want 1", got)
	}
}
