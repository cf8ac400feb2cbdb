package model

import "testing"

func TestClaimTypeValid(t *testing.T) {
	for _, ct := range ClaimTypes() {
		if !ct.Valid() {
			t.Errorf("declared category %q reported invalid", ct)
		}
	}

	for _, invalid := range []ClaimType{"", "zodiac_sign", "EARLY_LIFE_EVENT"} {
		if invalid.Valid() {
			t.Errorf("category %q reported valid", invalid)
		}
	}
}

func TestClaimTypesOrderIsStable(t *testing.T) {
	// Declaration order is a contract: the decomposer breaks category
	// scoring ties toward the earliest entry.
	want := []ClaimType{
		ClaimEarlyLifeEvent,
		ClaimFormativeExperience,
		ClaimBeliefAboutWorld,
		ClaimFearOrConstraint,
		ClaimMotivationOrAmbition,
		ClaimBehavioralTendency,
		ClaimSkillOrCapability,
		ClaimMoralConstraint,
	}

	got := ClaimTypes()
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d = %q, want %q", i, got[i], want[i])
		}
	}
}
