package podds

import (
	"fmt"
	"time"
)

// Range is an inclusive integer range ie. {25, 475, 25} is 25, 50, ... 475
type Range struct {
	Start int `yaml:"start"`
	Stop  int `yaml:"stop"`
	Step  int `yaml:"step"`
}

// Values enumerates the range. A non-positive step yields Start only.
func (r Range) Values() []int {
	if r.Step <= 0 {
		return []int{r.Start}
	}
	var values []int
	for v := r.Start; v <= r.Stop; v += r.Step {
		values = append(values, v)
	}
	return values
}

// Pair is one point of the parameter space
type Pair struct {
	History int
	Cutoff  float64
}

func (p Pair) String() string {
	return fmt.Sprintf("history=%d cutoff=%.0f", p.History, p.Cutoff)
}

// ParameterSpace is the cross product of history lengths and cutoffs searched
type ParameterSpace struct {
	History Range `yaml:"history"`
	Cutoff  Range `yaml:"cutoff"`
}

// DefaultParameterSpace searches history 25..475 in steps of 25 and cutoff 40..90 in steps of 5
func DefaultParameterSpace() ParameterSpace {
	return ParameterSpace{
		History: Range{Start: 25, Stop: 475, Step: 25},
		Cutoff:  Range{Start: 40, Stop: 90, Step: 5},
	}
}

// Pairs enumerates the space cutoff first, then history. Ties between equally good
// pairs are broken in favour of the first enumerated, so the order matters.
func (s ParameterSpace) Pairs() []Pair {
	histories := s.History.Values()
	cutoffs := s.Cutoff.Values()
	pairs := make([]Pair, 0, len(histories)*len(cutoffs))
	for _, c := range cutoffs {
		for _, h := range histories {
			pairs = append(pairs, Pair{History: h, Cutoff: float64(c)})
		}
	}
	return pairs
}

// DateWindow is a run of consecutive days starting on Start
type DateWindow struct {
	Start time.Time
	Days  int
}

// Dates lists every day in the window
func (w DateWindow) Dates() []time.Time {
	start := DateOf(w.Start)
	dates := make([]time.Time, 0, max(w.Days, 0))
	for d := 0; d < w.Days; d++ {
		dates = append(dates, start.AddDate(0, 0, d))
	}
	return dates
}

// End is the first day after the window
func (w DateWindow) End() time.Time {
	return DateOf(w.Start).AddDate(0, 0, w.Days)
}

func (w DateWindow) String() string {
	return fmt.Sprintf("%s to %s", DateOf(w.Start).Format(DateLayout), w.End().AddDate(0, 0, -1).Format(DateLayout))
}

// SearchWindow is the window of days starting lookbackDays before reference
func SearchWindow(reference time.Time, lookbackDays, days int) DateWindow {
	return DateWindow{Start: DateOf(reference).AddDate(0, 0, -lookbackDays), Days: days}
}

// ValidationWindow is the window of the same length immediately after search
func ValidationWindow(search DateWindow) DateWindow {
	return DateWindow{Start: search.End(), Days: search.Days}
}
