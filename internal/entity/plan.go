package entity

import (
	"errors"
	"strings"
	"unicode"
)

var ErrUnknownPlan = errors.New("plano desconhecido")

// Plan is the subscription tier of a seller.
type Plan string

const (
	PlanStandard Plan = "standard"
	PlanPremium  Plan = "premium"
	PlanPro      Plan = "pro"
)

// PremiumMonthlyFreeLeads is how many enquiries a premium seller unlocks per
// calendar month before credits are charged.
const PremiumMonthlyFreeLeads = 10

// NormalizePlan maps anything that is not exactly pro or premium to standard.
func NormalizePlan(p Plan) Plan {
	switch p {
	case PlanPro:
		return PlanPro
	case PlanPremium:
		return PlanPremium
	default:
		return PlanStandard
	}
}

// FreeLeadAllowance returns the monthly free unlock allowance of a plan.
// Pro is unlimited and reports -1.
func FreeLeadAllowance(p Plan) int {
	switch NormalizePlan(p) {
	case PlanPro:
		return -1
	case PlanPremium:
		return PremiumMonthlyFreeLeads
	default:
		return 0
	}
}

// PlanFromProviderRef resolves the plan named in a billing provider's
// subscription description, e.g. "Plano Premium" or "pro". Only whole words
// count: "Produto Standard" is standard.
func PlanFromProviderRef(ref string) (Plan, error) {
	words := strings.FieldsFunc(strings.ToLower(ref), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	for _, plan := range []Plan{PlanPremium, PlanPro, PlanStandard} {
		for _, w := range words {
			if w == string(plan) {
				return plan, nil
			}
		}
	}
	return "", ErrUnknownPlan
}
