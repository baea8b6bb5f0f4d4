package model

import "testing"

func TestStatusForVerdict(t *testing.T) {
	cases := []struct {
		verdict Verdict
		want    RecordStatus
	}{
		{VerdictPending, StatusPending},
		{VerdictVerified, StatusVerified},
		{VerdictFalse, StatusFalse},
		{VerdictPartiallyVerified, StatusPartial},
		{VerdictUnverifiable, StatusUnverifiable},
		// Unknown strings must map somewhere rather than vanish
		{Verdict("MISLEADING"), StatusPending},
	}
	for _, tc := range cases {
		if got := StatusForVerdict(tc.verdict); got != tc.want {
			t.Errorf("StatusForVerdict(%q) = %q, want %q", tc.verdict, got, tc.want)
		}
	}
}

func TestVerdictTerminal(t *testing.T) {
	if VerdictPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	if Verdict("MISLEADING").Terminal() {
		t.Error("unknown verdicts must not be terminal")
	}
	for _, v := range []Verdict{VerdictVerified, VerdictFalse, VerdictPartiallyVerified, VerdictUnverifiable} {
		if !v.Terminal() {
			t.Errorf("%q should be terminal", v)
		}
	}
}

func TestVerificationPending(t *testing.T) {
	var v Verification
	if !v.Pending() {
		t.Error("zero-value verification must be pending")
	}
	v.Verdict = VerdictVerified
	if v.Pending() {
		t.Error("verified record must not be pending")
	}
}
