package rules

import (
	"fmt"

	"github.com/gobanhq/tournament-server/models"
)

// EndCheck is one condition of the termination report, written for direct
// display: a label, whether it passed, and a remediation hint when it did
// not.
type EndCheck struct {
	Label  string `json:"label"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// EndReport is the full result of EvaluateEnd. CanEnd is the conjunction of
// all checks.
type EndReport struct {
	CanEnd bool       `json:"can_end"`
	Checks []EndCheck `json:"checks"`
}

// EvaluateEnd decides whether a tournament may transition to ended. Both
// conditions are evaluated unconditionally — no short-circuiting — so the
// report always enumerates every check:
//
//  1. at least MinRounds rounds have been generated;
//  2. the current round is complete (false when no rounds exist).
//
// Calling this has no side effects; actually ending the tournament is a
// separate mutation gated by CanEnd.
func EvaluateEnd(t *models.Tournament) EndReport {
	var roundCount int
	if t != nil {
		roundCount = len(t.Rounds)
	}

	minRounds := EndCheck{
		Label:  "minimum rounds played",
		Passed: roundCount >= MinRounds,
	}
	if minRounds.Passed {
		minRounds.Detail = fmt.Sprintf("%d of %d required rounds played", roundCount, MinRounds)
	} else {
		short := MinRounds - roundCount
		minRounds.Detail = fmt.Sprintf("need %d more round(s): %d of %d required rounds played", short, roundCount, MinRounds)
	}

	currentComplete := EndCheck{
		Label:  "current round complete",
		Passed: t != nil && IsRoundComplete(t.CurrentRound()),
	}
	if currentComplete.Passed {
		currentComplete.Detail = "all matches of the current round have a recorded result"
	} else if roundCount == 0 {
		currentComplete.Detail = "no rounds have been generated yet"
	} else {
		currentComplete.Detail = "record a result for every match of the current round"
	}

	return EndReport{
		CanEnd: minRounds.Passed && currentComplete.Passed,
		Checks: []EndCheck{minRounds, currentComplete},
	}
}
