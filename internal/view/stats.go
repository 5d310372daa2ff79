package view

import (
	"math"

	"github.com/dori/duotask/internal/model"
)

// Stats aggregates completion across both tabs
type Stats struct {
	WorkTotal      int
	WorkDone       int
	PersonalTotal  int
	PersonalDone   int
	Total          int
	Done           int
	CompletionRate int // percent, rounded
}

// Summarize counts tasks per tab regardless of the current filters
func Summarize(st model.State) Stats {
	var s Stats
	for _, t := range st.Tasks {
		switch t.EffectiveTab() {
		case model.TabPersonal:
			s.PersonalTotal++
			if t.Completed {
				s.PersonalDone++
			}
		default:
			s.WorkTotal++
			if t.Completed {
				s.WorkDone++
			}
		}
	}
	s.Total = s.WorkTotal + s.PersonalTotal
	s.Done = s.WorkDone + s.PersonalDone
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Done) / float64(s.Total) * 100))
	}
	return s
}
