package scheduling

import (
	"fmt"
	"strings"
)

// Mode selects how violations are reported
type Mode int

const (
	// ModeCustomer: любое нарушение - жёсткий отказ
	ModeCustomer Mode = iota
	// ModeAdmin: нарушения - предупреждения, которые администратор может подтвердить
	ModeAdmin
)

func (m Mode) String() string {
	if m == ModeAdmin {
		return "admin"
	}
	return "customer"
}

// Outcome of an availability decision
type Outcome string

const (
	OutcomeAdmit  Outcome = "admit"
	OutcomeReject Outcome = "reject"
	OutcomeWarn   Outcome = "warn"
)

// Violation names the rule that produced a reject or a warning
type Violation string

const (
	ViolationNone       Violation = ""
	ViolationValidation Violation = "validation"
	ViolationCapacity   Violation = "capacity"
	ViolationStaff      Violation = "staff"
)

// Decision is the answer to "may this candidate be booked".
// It is a value, never an error: callers branch on Outcome.
type Decision struct {
	Outcome     Outcome
	Violation   Violation
	Reason      string
	Proceedable bool
}

// Admit is the decision for a candidate that breaks no rule
func Admit() Decision {
	return Decision{Outcome: OutcomeAdmit, Proceedable: true}
}

// Violate maps a broken rule to reject (customer) or proceedable warn (admin)
func Violate(mode Mode, v Violation, reason string) Decision {
	if mode == ModeAdmin {
		return Decision{Outcome: OutcomeWarn, Violation: v, Reason: reason, Proceedable: true}
	}
	return Decision{Outcome: OutcomeReject, Violation: v, Reason: reason}
}

func (d Decision) IsAdmit() bool  { return d.Outcome == OutcomeAdmit }
func (d Decision) IsReject() bool { return d.Outcome == OutcomeReject }
func (d Decision) IsWarn() bool   { return d.Outcome == OutcomeWarn }

// Combine merges per-rule decisions: the first reject wins, otherwise all warnings
// are joined into one proceedable warning, otherwise admit.
func Combine(decisions ...Decision) Decision {
	var warnings []Decision
	for _, d := range decisions {
		switch d.Outcome {
		case OutcomeReject:
			return d
		case OutcomeWarn:
			warnings = append(warnings, d)
		}
	}

	switch len(warnings) {
	case 0:
		return Admit()
	case 1:
		return warnings[0]
	}

	reasons := make([]string, 0, len(warnings))
	for _, w := range warnings {
		reasons = append(reasons, w.Reason)
	}
	return Decision{
		Outcome:     OutcomeWarn,
		Violation:   warnings[0].Violation,
		Reason:      strings.Join(reasons, "; "),
		Proceedable: true,
	}
}

// CapacityDecision turns a load into a decision
func CapacityDecision(load Load, mode Mode) Decision {
	if load.Admissible() {
		return Admit()
	}
	return Violate(mode, ViolationCapacity,
		fmt.Sprintf("booking limit reached for this time (%d/%d)", load.Current(), load.Limit))
}

// StaffDecision turns the number of staff conflicts into a decision
func StaffDecision(conflicts int, mode Mode) Decision {
	if conflicts == 0 {
		return Admit()
	}
	return Violate(mode, ViolationStaff,
		fmt.Sprintf("staff member already has %d overlapping appointment(s)", conflicts))
}
