package dataset

import (
	"github.com/survkit/survbayes/internal/survival"
)

// Dataset is a named collection of right-censored observations with one
// binary covariate. Label0/Label1 are the human-readable names of the two
// covariate groups.
type Dataset struct {
	Name          string
	TimeUnit      string
	CovariateName string
	Label0        string
	Label1        string
	Obs           []survival.Observation
}

func (d *Dataset) N() int {
	return len(d.Obs)
}

func (d *Dataset) Events() int {
	n := 0
	for _, o := range d.Obs {
		if o.Event {
			n++
		}
	}
	return n
}

func (d *Dataset) Censored() int {
	return d.N() - d.Events()
}

// ByGroup returns the observations whose covariate equals g.
func (d *Dataset) ByGroup(g int) []survival.Observation {
	var obs []survival.Observation
	for _, o := range d.Obs {
		if o.Group == g {
			obs = append(obs, o)
		}
	}
	return obs
}

func (d *Dataset) MaxTime() float64 {
	var max float64
	for _, o := range d.Obs {
		if o.Time > max {
			max = o.Time
		}
	}
	return max
}

// TotalTime is the summed follow-up time, the denominator of the crude event
// rate used to seed the sampler.
func (d *Dataset) TotalTime() float64 {
	var total float64
	for _, o := range d.Obs {
		total += o.Time
	}
	return total
}

// GroupLabel maps a covariate value to its display name.
func (d *Dataset) GroupLabel(g int) string {
	if g == 0 {
		return d.Label0
	}
	return d.Label1
}

// GroupSummary is one row of the per-group dataset summary computed in
// DuckDB.
type GroupSummary struct {
	Group      int
	Label      string
	N          int
	Events     int
	CensorRate float64
	MedianTime float64
}
