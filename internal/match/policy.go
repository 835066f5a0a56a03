package match

import (
	"sort"
	"time"
)

const (
	// instantWindow is how long a new top-order partnership is exposed to
	// the instant rule.
	instantWindow = 18 * time.Second

	// rollingWindow is the span in which three errors cost a top-order wicket.
	rollingWindow = 36 * time.Second
	rollingErrors = 3

	middleOrderEvery = 5
	tailEvery        = 2
)

// wicketRule names the rule that decided a dismissal.
type wicketRule int

const (
	reasonNone wicketRule = iota
	reasonInstant
	reasonWindow
	reasonCount
	reasonLastWicket
)

func (r wicketRule) String() string {
	switch r {
	case reasonNone:
		return "none"
	case reasonInstant:
		return "instant"
	case reasonWindow:
		return "window"
	case reasonCount:
		return "count"
	case reasonLastWicket:
		return "last-wicket"
	default:
		return "unknown"
	}
}

// wicketReason decides whether the error at now costs a wicket, keyed by the
// position the next dismissal would occupy. It may clear suppressInstant.
func (e *Engine) wicketReason(now time.Time) wicketRule {
	next := e.wicketsDown + 1
	errorsInclThis := e.partnershipErrors + 1

	switch {
	case next <= 2:
		return e.topOrderReason(now)
	case next <= 6:
		if errorsInclThis%middleOrderEvery == 0 {
			return reasonCount
		}
	case next <= 9:
		if errorsInclThis%tailEvery == 0 {
			return reasonCount
		}
	case next == MaxWickets:
		return reasonLastWicket
	}
	return reasonNone
}

// topOrderReason applies the instant and rolling-window rules for the first
// two wickets.
func (e *Engine) topOrderReason(now time.Time) wicketRule {
	elapsed := now.Sub(e.partnershipStart)
	if elapsed <= instantWindow {
		if !e.suppressInstant {
			return reasonInstant
		}
	} else {
		e.suppressInstant = false
	}

	if threeInWindow(e.partnershipErrorTimes, now) {
		return reasonWindow
	}
	return reasonNone
}

// threeInWindow reports whether the recorded times plus now contain three
// errors within rollingWindow, considering only the last rollingWindow.
func threeInWindow(times []time.Time, now time.Time) bool {
	cutoff := now.Add(-rollingWindow)

	recent := make([]time.Time, 0, len(times)+1)
	for _, t := range times {
		if !t.Before(cutoff) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	if len(recent) < rollingErrors {
		return false
	}

	sort.Slice(recent, func(i, j int) bool { return recent[i].Before(recent[j]) })
	for i := 0; i+rollingErrors-1 < len(recent); i++ {
		if recent[i+rollingErrors-1].Sub(recent[i]) <= rollingWindow {
			return true
		}
	}
	return false
}
