package domain

import "testing"

func TestCanTransitionPayment(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		want     bool
	}{
		{PaymentStatusPending, PaymentStatusSuccessful, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusPending, PaymentStatusRefunded, false},
		{PaymentStatusSuccessful, PaymentStatusRefunded, true},
		{PaymentStatusSuccessful, PaymentStatusFailed, false},
		{PaymentStatusSuccessful, PaymentStatusPending, false},
		{PaymentStatusFailed, PaymentStatusSuccessful, false},
		{PaymentStatusFailed, PaymentStatusPending, false},
		{PaymentStatusRefunded, PaymentStatusSuccessful, false},
	}
	for _, tc := range cases {
		if got := CanTransitionPayment(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionPayment(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIsInstantMethod(t *testing.T) {
	instant := []PaymentMethod{MethodCardCredit, MethodCardDebit, MethodWallet}
	for _, method := range instant {
		if !IsInstantMethod(method) {
			t.Errorf("expected '%s' to be instant", method)
		}
	}
	deferred := []PaymentMethod{MethodGateway, MethodCashOnDelivery}
	for _, method := range deferred {
		if IsInstantMethod(method) {
			t.Errorf("expected '%s' to not be instant", method)
		}
	}
}

func TestIsValidPaymentMethod(t *testing.T) {
	if !IsValidPaymentMethod(MethodCashOnDelivery) {
		t.Error("expected cash-on-delivery to be valid")
	}
	if IsValidPaymentMethod(PaymentMethod("cheque")) {
		t.Error("expected 'cheque' to be invalid")
	}
}
