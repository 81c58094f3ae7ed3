package model

import (
	"testing"
	"time"
)

func TestBrandProfile_TaxOn(t *testing.T) {
	testCases := []struct {
		name    string
		percent float64
		base    int64
		want    int64
	}{
		{"eleven percent standard package", 11, 100000, 11000},
		{"rounds half up", 11, 150005, 16501},
		{"zero percent brand", 0, 250000, 0},
		{"fractional percent", 2.5, 99999, 2500},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := &BrandProfile{Brand: "jelantik", TaxPercent: tc.percent}

			got := b.TaxOn(tc.base)

			if got != tc.want {
				t.Errorf("TaxOn(%d) = %d, want %d", tc.base, got, tc.want)
			}
		})
	}
}

func TestNewInvoice(t *testing.T) {
	due := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	t.Run("totals base plus tax", func(t *testing.T) {
		inv, err := NewInvoice("id-1", "NUM/1", "cust-1", "sub-1", "jelantik", 100000, 11000, due)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inv.AmountTotal != 111000 {
			t.Errorf("AmountTotal = %d, want 111000", inv.AmountTotal)
		}
		if inv.Status != InvoiceStatusUnpaid {
			t.Errorf("Status = %q, want unpaid", inv.Status)
		}
	})

	t.Run("rejects non-positive base", func(t *testing.T) {
		if _, err := NewInvoice("id-1", "NUM/1", "cust-1", "sub-1", "jelantik", 0, 0, due); err == nil {
			t.Error("expected error for zero base amount")
		}
	})

	t.Run("rejects missing identifiers", func(t *testing.T) {
		if _, err := NewInvoice("", "NUM/1", "cust-1", "sub-1", "jelantik", 100000, 0, due); err == nil {
			t.Error("expected error for empty id")
		}
	})
}

func TestBuildInvoiceNumber(t *testing.T) {
	at := time.Date(2025, 11, 26, 10, 0, 0, 0, time.UTC)

	t.Run("composes sanitized segments", func(t *testing.T) {
		got := BuildInvoiceNumber("jelantik", "Budi Santoso", "Tambun Selatan", "ppp-12042", at)

		want := "JELANTIK/ftth/BUDISANTOSO/NOVEMBER-2025/TAMBUNSELATAN/042"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("keeps short pppoe id whole", func(t *testing.T) {
		got := BuildInvoiceNumber("net", "A", "B", "7", at)

		if got != "NET/ftth/A/NOVEMBER-2025/B/7" {
			t.Errorf("got %q", got)
		}
	})
}

func TestDisambiguateNumber(t *testing.T) {
	now := time.Unix(1764150000, 0)

	got := DisambiguateNumber("X/ftth/A/NOVEMBER-2025/B/001", now)

	if got != "X/ftth/A/NOVEMBER-2025/B/001/150000" {
		t.Errorf("got %q", got)
	}
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(time.Date(2025, 11, 26, 13, 45, 0, 0, time.UTC))

	if !start.Equal(time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestGatewayDescription(t *testing.T) {
	pkg := &ServicePackage{Name: "Home 50", SpeedMbps: 50, Price: 100000}
	brand := &BrandProfile{Brand: "jelantik", TaxPercent: 11}

	t.Run("automatic cycle names the due date", func(t *testing.T) {
		sub := &Subscription{PaymentMethod: PaymentMethodAutomatic}
		inv := &Invoice{
			AmountTotal: 111000,
			IssuedAt:    time.Date(2025, 11, 26, 0, 0, 0, 0, time.UTC),
			DueDate:     time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		}

		got := GatewayDescription(sub, pkg, brand, inv)

		want := "Biaya berlangganan internet up to 50 Mbps jatuh tempo pembayaran tanggal 01/12/2025"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("prorate partial month names the period range", func(t *testing.T) {
		sub := &Subscription{PaymentMethod: PaymentMethodProrate}
		inv := &Invoice{
			AmountTotal: 55500,
			IssuedAt:    time.Date(2025, 11, 16, 0, 0, 0, 0, time.UTC),
			DueDate:     time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC),
		}

		got := GatewayDescription(sub, pkg, brand, inv)

		want := "Biaya berlangganan internet up to 50 Mbps, Periode Tgl 16-30 November 2025"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("prorate above one full month is combined period", func(t *testing.T) {
		sub := &Subscription{PaymentMethod: PaymentMethodProrate}
		inv := &Invoice{
			AmountTotal: 166500,
			IssuedAt:    time.Date(2025, 11, 16, 0, 0, 0, 0, time.UTC),
			DueDate:     time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC),
		}

		got := GatewayDescription(sub, pkg, brand, inv)

		want := "Biaya internet up to 50 Mbps. Periode Prorate 16-30 November 2025 + Periode December 2025"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestCustomer_GatewayPhone(t *testing.T) {
	c := &Customer{Phone: "081234567890"}

	if got := c.GatewayPhone(); got != "+6281234567890" {
		t.Errorf("GatewayPhone() = %q", got)
	}
}
