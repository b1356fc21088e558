package entity

import "time"

// FundingSource says what paid for an unlock.
type FundingSource string

const (
	FundingPlan          FundingSource = "plan"
	FundingFreeAllowance FundingSource = "free_allowance"
	FundingCredit        FundingSource = "credit"
)

// FundingDecision is the outcome of the quota rule for one unlock.
// FreeLeadsUsed and FreeLeadsMonth are the values the profile must hold after
// the unlock commits.
type FundingDecision struct {
	Source         FundingSource
	ChargeCredit   bool
	FreeLeadsUsed  int
	FreeLeadsMonth string
}

// TouchesProfile reports whether the seller profile row has to be written.
func (d FundingDecision) TouchesProfile() bool {
	return d.Source != FundingPlan
}

// MonthKey formats the server-local calendar month as YYYYMM.
func MonthKey(t time.Time) string {
	return t.Local().Format("200601")
}

// EffectiveFreeLeadsUsed is the counter as seen in the month of now: a
// counter stored for another month counts as zero.
func EffectiveFreeLeadsUsed(used int, month string, now time.Time) int {
	if month != MonthKey(now) || used < 0 {
		return 0
	}
	return used
}

// DecideFunding applies the plan rule without touching storage.
func DecideFunding(plan Plan, freeUsed int, freeMonth string, now time.Time) FundingDecision {
	month := MonthKey(now)
	used := EffectiveFreeLeadsUsed(freeUsed, freeMonth, now)

	switch NormalizePlan(plan) {
	case PlanPro:
		return FundingDecision{Source: FundingPlan, FreeLeadsUsed: used, FreeLeadsMonth: month}
	case PlanPremium:
		if used < PremiumMonthlyFreeLeads {
			return FundingDecision{Source: FundingFreeAllowance, FreeLeadsUsed: used + 1, FreeLeadsMonth: month}
		}
		return FundingDecision{Source: FundingCredit, ChargeCredit: true, FreeLeadsUsed: used, FreeLeadsMonth: month}
	default:
		return FundingDecision{Source: FundingCredit, ChargeCredit: true, FreeLeadsUsed: used, FreeLeadsMonth: month}
	}
}
