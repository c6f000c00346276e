package models

import "testing"

func TestWithdrawalStatusTransitions(t *testing.T) {
	allowed := map[[2]WithdrawalStatus]bool{
		{Pending_WithdrawalStatus, Approved_WithdrawalStatus}:    true,
		{Pending_WithdrawalStatus, Rejected_WithdrawalStatus}:    true,
		{Approved_WithdrawalStatus, Processing_WithdrawalStatus}: true,
		{Approved_WithdrawalStatus, Failed_WithdrawalStatus}:     true,
		{Processing_WithdrawalStatus, Completed_WithdrawalStatus}: true,
		{Processing_WithdrawalStatus, Failed_WithdrawalStatus}:    true,
	}

	all := []WithdrawalStatus{
		Pending_WithdrawalStatus, Approved_WithdrawalStatus, Processing_WithdrawalStatus,
		Completed_WithdrawalStatus, Failed_WithdrawalStatus, Rejected_WithdrawalStatus,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]WithdrawalStatus{from, to}]
			if got := from.CanTransition(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestWithdrawalStatusTerminal(t *testing.T) {
	terminals := map[WithdrawalStatus]bool{
		Pending_WithdrawalStatus:    false,
		Approved_WithdrawalStatus:   false,
		Processing_WithdrawalStatus: false,
		Completed_WithdrawalStatus:  true,
		Failed_WithdrawalStatus:     true,
		Rejected_WithdrawalStatus:   true,
	}
	for status, want := range terminals {
		if got := status.Terminal(); got != want {
			t.Errorf("%s terminal: got %v, want %v", status, got, want)
		}
	}

	// terminal states admit no self loops either
	if Rejected_WithdrawalStatus.CanTransition(Rejected_WithdrawalStatus) {
		t.Error("rejected -> rejected should not be allowed")
	}
	if Completed_WithdrawalStatus.CanTransition(Completed_WithdrawalStatus) {
		t.Error("completed -> completed should not be allowed")
	}
}

func TestParseWithdrawalStatusRoundTrip(t *testing.T) {
	for _, status := range []WithdrawalStatus{
		Pending_WithdrawalStatus, Approved_WithdrawalStatus, Processing_WithdrawalStatus,
		Completed_WithdrawalStatus, Failed_WithdrawalStatus, Rejected_WithdrawalStatus,
	} {
		parsed, err := ParseWithdrawalStatus(status.String())
		if err != nil {
			t.Fatalf("parsing %q: %v", status.String(), err)
		}
		if parsed != status {
			t.Errorf("round trip %q: got %s", status.String(), parsed)
		}
	}

	if _, err := ParseWithdrawalStatus("cancelled"); err == nil {
		t.Error("expected error parsing unknown status")
	}
}

func TestAcceptedWithdrawalStatusesExcludeDeadEnds(t *testing.T) {
	for _, status := range AcceptedWithdrawalStatuses {
		if status == Rejected_WithdrawalStatus || status == Failed_WithdrawalStatus {
			t.Errorf("%s should not reserve funds against the daily cap", status)
		}
	}
	if len(AcceptedWithdrawalStatuses) != 4 {
		t.Errorf("expected 4 reserving states, got %d", len(AcceptedWithdrawalStatuses))
	}
}
