package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"ftth-billing/internal/domain"
)

type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusExpired InvoiceStatus = "expired"
)

// GatewayCallStatus tracks the state of the hosted-payment-link call,
// separate from the invoice's own lifecycle.
type GatewayCallStatus string

const (
	GatewayCallOK         GatewayCallStatus = "ok"
	GatewayCallFailed     GatewayCallStatus = "failed"
	GatewayCallProcessing GatewayCallStatus = "processing"
)

// Invoice is a billing obligation for one subscription cycle.
// Lifecycle: unpaid -> paid (payment confirmed) or unpaid -> expired
// (suspension). A gateway failure never blocks persistence; the invoice
// is saved without a link and picked up by the retry job.
type Invoice struct {
	ID             string // UUID
	Number         string
	CustomerID     string
	SubscriptionID string
	Brand          string
	Status         InvoiceStatus
	AmountBase     int64
	AmountTax      int64
	AmountTotal    int64
	IssuedAt       time.Time // date-only
	DueDate        time.Time // date-only
	PaidAt         *time.Time
	Phone          string
	Email          string

	GatewayID         string
	GatewayExternalID string
	PaymentURL        string
	GatewayStatus     GatewayCallStatus
	GatewayError      string
	RetryCount        int
	LastRetryAt       *time.Time

	CreatedAt time.Time
}

func NewInvoice(id, number, customerID, subscriptionID, brand string, base, tax int64, dueDate time.Time) (*Invoice, error) {
	if id == "" || number == "" || customerID == "" || subscriptionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if base <= 0 || tax < 0 || dueDate.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Invoice{
		ID:             id,
		Number:         number,
		CustomerID:     customerID,
		SubscriptionID: subscriptionID,
		Brand:          brand,
		Status:         InvoiceStatusUnpaid,
		AmountBase:     base,
		AmountTax:      tax,
		AmountTotal:    base + tax,
		IssuedAt:       now,
		DueDate:        dueDate,
		CreatedAt:      now,
	}, nil
}

// HasPaymentLink reports whether the gateway call ever succeeded.
func (i *Invoice) HasPaymentLink() bool { return i.GatewayID != "" }

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

func sanitizeToken(s string) string {
	return strings.ToUpper(nonAlnum.ReplaceAllString(s, ""))
}

// BuildInvoiceNumber composes the human-readable invoice number from
// brand, customer name, address, and the last three digits of the PPPoE
// subscriber id, e.g. JELANTIK/ftth/BUDI/NOVEMBER-2025/TAMBUN/042.
func BuildInvoiceNumber(brand, customerName, address, pppoeID string, at time.Time) string {
	suffix := pppoeID
	if len(suffix) > 3 {
		suffix = suffix[len(suffix)-3:]
	}
	monthYear := fmt.Sprintf("%s-%d", strings.ToUpper(at.Month().String()), at.Year())
	return fmt.Sprintf("%s/ftth/%s/%s/%s/%s",
		sanitizeToken(brand),
		sanitizeToken(customerName),
		monthYear,
		sanitizeToken(address),
		suffix,
	)
}

// DisambiguateNumber appends the last six digits of the unix timestamp
// when the generated number already exists.
func DisambiguateNumber(number string, now time.Time) string {
	ts := fmt.Sprintf("%d", now.Unix())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	return number + "/" + ts
}

// MonthWindow returns the first and last day of t's month. The
// duplicate-invoice pre-check compares due dates against this window.
func MonthWindow(t time.Time) (start, end time.Time) {
	y, m, _ := t.Date()
	start = time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, -1)
	return start, end
}

// GatewayDescription renders the line-item text sent to the payment
// gateway. Prorate subscriptions get a period-range description; a
// stored amount above one normal tax-inclusive month (small tolerance
// for rounding) means a combined partial+full period invoice.
func GatewayDescription(sub *Subscription, pkg *ServicePackage, brand *BrandProfile, inv *Invoice) string {
	due := inv.DueDate
	if sub.PaymentMethod == PaymentMethodProrate {
		normalFull := pkg.Price + brand.TaxOn(pkg.Price)
		startDay := inv.IssuedAt.Day()
		endDay := due.Day()
		period := fmt.Sprintf("%s %d", due.Month().String(), due.Year())
		if inv.AmountTotal > normalFull+1 {
			next := due.AddDate(0, 1, 0)
			nextPeriod := fmt.Sprintf("%s %d", next.Month().String(), next.Year())
			return fmt.Sprintf("Biaya internet up to %d Mbps. Periode Prorate %d-%d %s + Periode %s",
				pkg.SpeedMbps, startDay, endDay, period, nextPeriod)
		}
		return fmt.Sprintf("Biaya berlangganan internet up to %d Mbps, Periode Tgl %d-%d %s",
			pkg.SpeedMbps, startDay, endDay, period)
	}
	return fmt.Sprintf("Biaya berlangganan internet up to %d Mbps jatuh tempo pembayaran tanggal %s",
		pkg.SpeedMbps, due.Format("02/01/2006"))
}
