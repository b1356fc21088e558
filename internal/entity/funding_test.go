package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "202601", MonthKey(time.Date(2026, time.January, 31, 23, 59, 0, 0, time.Local)))
	assert.Equal(t, "202512", MonthKey(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.Local)))
}

func TestDecideFunding(t *testing.T) {
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		plan      Plan
		used      int
		month     string
		want      FundingDecision
		touchesDB bool
	}{
		{
			name: "pro is free and leaves the counter alone",
			plan: PlanPro, used: 50, month: "202603",
			want: FundingDecision{Source: FundingPlan, FreeLeadsUsed: 50, FreeLeadsMonth: "202603"},
		},
		{
			name: "premium under the allowance",
			plan: PlanPremium, used: 0, month: "202603",
			want:      FundingDecision{Source: FundingFreeAllowance, FreeLeadsUsed: 1, FreeLeadsMonth: "202603"},
			touchesDB: true,
		},
		{
			name: "premium at 9 takes the tenth free unit",
			plan: PlanPremium, used: 9, month: "202603",
			want:      FundingDecision{Source: FundingFreeAllowance, FreeLeadsUsed: 10, FreeLeadsMonth: "202603"},
			touchesDB: true,
		},
		{
			name: "premium at 10 pays",
			plan: PlanPremium, used: 10, month: "202603",
			want:      FundingDecision{Source: FundingCredit, ChargeCredit: true, FreeLeadsUsed: 10, FreeLeadsMonth: "202603"},
			touchesDB: true,
		},
		{
			name: "premium counter from an older month counts as zero",
			plan: PlanPremium, used: 10, month: "202602",
			want:      FundingDecision{Source: FundingFreeAllowance, FreeLeadsUsed: 1, FreeLeadsMonth: "202603"},
			touchesDB: true,
		},
		{
			name: "premium with empty month key",
			plan: PlanPremium, used: 7, month: "",
			want:      FundingDecision{Source: FundingFreeAllowance, FreeLeadsUsed: 1, FreeLeadsMonth: "202603"},
			touchesDB: true,
		},
		{
			name: "standard always pays",
			plan: PlanStandard, used: 3, month: "202603",
			want:      FundingDecision{Source: FundingCredit, ChargeCredit: true, FreeLeadsUsed: 3, FreeLeadsMonth: "202603"},
			touchesDB: true,
		},
		{
			name: "unknown plan pays like standard",
			plan: "enterprise", used: 0, month: "202603",
			want:      FundingDecision{Source: FundingCredit, ChargeCredit: true, FreeLeadsUsed: 0, FreeLeadsMonth: "202603"},
			touchesDB: true,
		},
		{
			name: "plan casing and spaces are normalised",
			plan: " Premium ", used: 2, month: "202603",
			want:      FundingDecision{Source: FundingFreeAllowance, FreeLeadsUsed: 3, FreeLeadsMonth: "202603"},
			touchesDB: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideFunding(tt.plan, tt.used, tt.month, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.touchesDB, got.TouchesProfile())
		})
	}
}

func TestEffectiveFreeLeadsUsed(t *testing.T) {
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.Local)
	assert.Equal(t, 4, EffectiveFreeLeadsUsed(4, "202603", now))
	assert.Equal(t, 0, EffectiveFreeLeadsUsed(4, "202602", now))
	assert.Equal(t, 0, EffectiveFreeLeadsUsed(-1, "202603", now))
}

func TestPlanHelpers(t *testing.T) {
	assert.Equal(t, PlanStandard, NormalizePlan(""))
	assert.Equal(t, PlanStandard, NormalizePlan("gold"))
	assert.Equal(t, PlanPro, NormalizePlan("pro"))
	assert.Equal(t, PlanPremium, NormalizePlan("premium"))
	assert.Equal(t, PlanStandard, NormalizePlan("PRO"))
	assert.Equal(t, PlanStandard, NormalizePlan(" premium "))

	assert.Equal(t, -1, FreeLeadAllowance(PlanPro))
	assert.Equal(t, 10, FreeLeadAllowance(PlanPremium))
	assert.Equal(t, 0, FreeLeadAllowance("whatever"))

	_, err := PlanFromProviderRef("Plano Ouro")
	assert.ErrorIs(t, err, ErrUnknownPlan)
	_, err = PlanFromProviderRef("Programa de fidelidade")
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestPlanFromProviderRef(t *testing.T) {
	tests := []struct {
		ref  string
		want Plan
	}{
		{"Assinatura Premium", PlanPremium},
		{"Plano Pro", PlanPro},
		{"pro", PlanPro},
		{"PLANO PRO (mensal)", PlanPro},
		{"Plano Standard", PlanStandard},
		{"Produto Standard", PlanStandard},
		{"Programa Standard mensal", PlanStandard},
		{"Plano Standard - promo", PlanStandard},
		{"Premium Pro", PlanPremium},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := PlanFromProviderRef(tt.ref)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnquiryContactVisibleTo(t *testing.T) {
	e := &Enquiry{}
	assert.False(t, e.ContactVisibleTo(PlanStandard))
	assert.False(t, e.ContactVisibleTo(PlanPremium))
	assert.False(t, e.ContactVisibleTo(""))
	assert.True(t, e.ContactVisibleTo(PlanPro))

	e.Unlocked = true
	assert.True(t, e.ContactVisibleTo(PlanStandard))
}

func TestFindCreditPack(t *testing.T) {
	p, err := FindCreditPack("pack_50")
	assert.NoError(t, err)
	assert.Equal(t, 50, p.Credits)

	_, err = FindCreditPack("pack_1")
	assert.ErrorIs(t, err, ErrCreditPackNotFound)
}
