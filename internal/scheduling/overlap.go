package scheduling

import "sort"

type eventKind int

// end сортируется раньше start в одну и ту же минуту: соседние записи не пересекаются
const (
	eventEnd eventKind = iota
	eventStart
)

type event struct {
	at   int
	kind eventKind
}

// MaxConcurrency returns the peak number of simultaneous appointments inside the
// candidate's window, the candidate included.
//
// Existing intervals that overlap the candidate are clamped to its window, the
// candidate's own start and end are added, events are ordered by time with ends
// before starts, and the running count is swept left to right.
func MaxConcurrency(candidate Interval, existing []Interval) int {
	if candidate.End <= candidate.Start {
		// вырожденный кандидат занимает одну минуту
		candidate.End = candidate.Start + 1
	}

	events := make([]event, 0, 2*len(existing)+2)
	for _, iv := range existing {
		if !iv.Overlaps(candidate) {
			continue
		}
		events = append(events,
			event{at: max(iv.Start, candidate.Start), kind: eventStart},
			event{at: min(iv.End, candidate.End), kind: eventEnd},
		)
	}
	events = append(events,
		event{at: candidate.Start, kind: eventStart},
		event{at: candidate.End, kind: eventEnd},
	)

	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].kind < events[j].kind
	})

	current, peak := 0, 0
	for _, e := range events {
		if e.kind == eventStart {
			current++
			if current > peak {
				peak = current
			}
			continue
		}
		current--
	}
	return peak
}

// Load is the result of a capacity check for one candidate
type Load struct {
	Max   int // пик одновременных записей вместе с кандидатом
	Limit int
}

// ComputeLoad runs the sweep and pairs the result with the category limit
func ComputeLoad(candidate Interval, existing []Interval, limit int) Load {
	return Load{Max: MaxConcurrency(candidate, existing), Limit: limit}
}

// Current is the number of other appointments at the busiest point
func (l Load) Current() int {
	return max(0, l.Max-1)
}

// Admissible reports whether adding the candidate keeps the peak within the limit
func (l Load) Admissible() bool {
	return l.Max <= l.Limit
}
