package entity

import "testing"

func TestNormalizeDeliveryStatus(t *testing.T) {
	tests := []struct {
		in   DeliveryStatus
		want DeliveryStatus
	}{
		{"created", DeliveryStatusPending},
		{"success", DeliveryStatusDelivered},
		{DeliveryStatusPending, DeliveryStatusPending},
		{DeliveryStatusInProgress, DeliveryStatusInProgress},
		{DeliveryStatusDelivered, DeliveryStatusDelivered},
	}

	for _, tc := range tests {
		if got := NormalizeDeliveryStatus(tc.in); got != tc.want {
			t.Errorf("NormalizeDeliveryStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTransactionStatusIsTerminal(t *testing.T) {
	if TransactionStatusPending.IsTerminal() {
		t.Error("pending must not be terminal")
	}
	for _, s := range []TransactionStatus{
		TransactionStatusPaid,
		TransactionStatusCancelled,
		TransactionStatusExpired,
		TransactionStatusFailed,
	} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}
