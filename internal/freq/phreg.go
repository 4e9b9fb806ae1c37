// Package freq provides frequentist cross-checks for the Bayesian fit: a Cox
// proportional-hazards regression and an uncensored Weibull maximum
// likelihood estimate.
package freq

import (
	"fmt"

	"github.com/kshedden/statmodel/duration"
	"github.com/kshedden/statmodel/statmodel"

	"github.com/survkit/survbayes/internal/dataset"
)

// CoxPH fits a Cox proportional-hazards regression of time on the binary
// group covariate and returns the fit summary text. The sign and magnitude
// of the group coefficient should agree with the posterior of beta.
func CoxPH(ds *dataset.Dataset) (string, error) {
	n := ds.N()
	if n == 0 {
		return "", fmt.Errorf("cannot fit PH regression on empty dataset")
	}

	times := make([]float64, n)
	status := make([]float64, n)
	group := make([]float64, n)
	for i, o := range ds.Obs {
		times[i] = o.Time
		if o.Event {
			status[i] = 1
		}
		group[i] = float64(o.Group)
	}

	da := [][]float64{times, status, group}
	names := []string{"time", "status", "group"}
	data := statmodel.NewDataset(da, names)

	model, err := duration.NewPHReg(data, "time", "status", []string{"group"}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build PH regression: %w", err)
	}

	result, err := model.Fit()
	if err != nil {
		return "", fmt.Errorf("failed to fit PH regression: %w", err)
	}

	return fmt.Sprintf("%v", result.Summary()), nil
}
