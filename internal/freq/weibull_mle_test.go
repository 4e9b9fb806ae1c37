package freq

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

func TestWeibullMLERecoversParameters(t *testing.T) {
	const (
		trueShape = 2.0
		trueRate  = 0.01
	)

	w := distuv.Weibull{
		K:      trueShape,
		Lambda: math.Pow(trueRate, -1/trueShape),
		Src:    rand.NewPCG(9, 1),
	}

	times := make([]float64, 2000)
	for i := range times {
		times[i] = w.Rand()
	}

	shape, rate, err := WeibullMLE(times)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	if rel := math.Abs(shape-trueShape) / trueShape; rel > 0.1 {
		t.Errorf("shape %v too far from %v", shape, trueShape)
	}
	if rel := math.Abs(rate-trueRate) / trueRate; rel > 0.3 {
		t.Errorf("rate %v too far from %v", rate, trueRate)
	}
}

func TestWeibullMLEExponentialSample(t *testing.T) {
	// Exponential data is Weibull with shape 1; the rate estimate is then
	// n / sum(t).
	e := distuv.Exponential{Rate: 0.2, Src: rand.NewPCG(4, 1)}

	times := make([]float64, 3000)
	var sum float64
	for i := range times {
		times[i] = e.Rand()
		sum += times[i]
	}

	shape, rate, err := WeibullMLE(times)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	if math.Abs(shape-1) > 0.1 {
		t.Errorf("shape %v should be near 1 for exponential data", shape)
	}

	// The rate under the fitted shape stays close to the exponential MLE.
	wantRate := float64(len(times)) / sum
	if rel := math.Abs(rate-wantRate) / wantRate; rel > 0.2 {
		t.Errorf("rate %v too far from exponential MLE %v", rate, wantRate)
	}
}

func TestWeibullMLEErrors(t *testing.T) {
	if _, _, err := WeibullMLE(nil); err == nil {
		t.Error("expected error for empty sample")
	}
	if _, _, err := WeibullMLE([]float64{1, 0, 2}); err == nil {
		t.Error("expected error for non-positive time")
	}
}
