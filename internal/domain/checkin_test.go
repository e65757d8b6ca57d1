package domain

import (
	"testing"
	"time"
)

func TestCheckInDuration(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	in := day.Add(9 * time.Hour)

	t.Run("checked out session", func(t *testing.T) {
		out := day.Add(10*time.Hour + 30*time.Minute)
		c := CheckIn{CheckInTime: in, CheckOutTime: &out}

		d, final := c.Duration(day.Add(20 * time.Hour))
		if !final {
			t.Error("Duration() final = false for a checked-out session")
		}
		if want := 90 * time.Minute; d != want {
			t.Errorf("Duration() = %v, want %v", d, want)
		}
	})

	t.Run("open session reports duration so far", func(t *testing.T) {
		c := CheckIn{CheckInTime: in}

		now := day.Add(9*time.Hour + 45*time.Minute)
		d, final := c.Duration(now)
		if final {
			t.Error("Duration() final = true for an open session")
		}
		if want := 45 * time.Minute; d != want {
			t.Errorf("Duration() = %v, want %v", d, want)
		}
	})
}

func TestValidPaymentMethod(t *testing.T) {
	for _, method := range []string{"cash", "bank_transfer", "qris", "gopay", "ovo", "shopeepay", "credit_card", "other"} {
		if !ValidPaymentMethod(method) {
			t.Errorf("ValidPaymentMethod(%q) = false", method)
		}
	}
	for _, method := range []string{"", "debit_card", "CASH", "transfer"} {
		if ValidPaymentMethod(method) {
			t.Errorf("ValidPaymentMethod(%q) = true", method)
		}
	}
}
