package letters

import (
	"context"
	"log"
	"time"

	"github.com/nicl-arrears/internal/addrsplit"
)

// Letter is everything a renderer needs for one arrears notice
type Letter struct {
	Row         int             `json:"row"`
	Sequence    string          `json:"sequence"`
	Category    string          `json:"category"`
	PolicyNo    string          `json:"policy_no"`
	Customer    string          `json:"customer"`
	Address     []string        `json:"address"`
	Columns     addrsplit.Lines `json:"address_columns"`
	Recipient   []string        `json:"recipient"`
	Product     string          `json:"product,omitempty"`
	Subject     string          `json:"subject"`
	Arrears     float64         `json:"arrears"`
	CoverPeriod string          `json:"cover_period,omitempty"`
	LetterDate  string          `json:"letter_date"`
	Deadline    string          `json:"deadline"`
	Email       string          `json:"email,omitempty"`
	NationalID  string          `json:"national_id,omitempty"`
	Payment     PaymentRequest  `json:"payment"`
	QRData      string          `json:"qr_data,omitempty"`
	FileName    string          `json:"file_name"`
}

// DefaultCategory is the letter type used when none is given
const DefaultCategory = "L0"

// Options control how rows become letters
type Options struct {
	Category   string // letter type, e.g. L0, L1, L2, MED, Inactive_Health
	MinArrears float64
	MerchantID int
	Segmenter  *addrsplit.Segmenter
	QR         QRProvider // optional

	// Subject is the product named in the subject line. SubjectFromProduct
	// names each row's own product type instead.
	Subject            string
	SubjectFromProduct bool

	// Merchant picks the merchant per product type, overriding MerchantID
	Merchant func(productType string) int

	// Now dates the letter; time.Now when nil
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Category == "" {
		o.Category = DefaultCategory
	}
	if o.MerchantID == 0 {
		o.MerchantID = DefaultMerchantID
	}
	if o.Segmenter == nil {
		o.Segmenter = addrsplit.New()
	}
	if o.Subject == "" {
		o.Subject = DefaultSubject
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Prepare validates a row and assembles its letter. row is 1-based and total
// is the number of rows in the batch. A rejected row returns a *RowError.
func Prepare(ctx context.Context, rec Record, row, total int, opts Options) (*Letter, error) {
	opts = opts.withDefaults()

	if err := Validate(rec, opts.MinArrears); err != nil {
		return nil, err
	}

	// extracts without a product column carry no product type
	var product string
	if !blank(rec.Product) || opts.SubjectFromProduct {
		product = ProductType(rec.Product)
	}
	subject := opts.Subject
	if opts.SubjectFromProduct {
		subject = product
	}
	merchant := opts.MerchantID
	if opts.Merchant != nil {
		merchant = opts.Merchant(ProductType(rec.Product))
	}

	customer := rec.CustomerName()
	address := AddressLines(rec, opts.Segmenter)
	seq := SequenceNumber(row, total)
	now := opts.Now()

	letter := &Letter{
		Row:         row,
		Sequence:    seq,
		Category:    opts.Category,
		PolicyNo:    rec.PolicyNo,
		Customer:    customer,
		Address:     address,
		Columns:     AddressColumns(rec, opts.Segmenter),
		Recipient:   Recipient(customer, address),
		Product:     product,
		Subject:     subject,
		Arrears:     rec.Arrears,
		CoverPeriod: CoverPeriod(rec.CoverFrom, rec.CoverTo),
		LetterDate:  now.Format(LetterDateLayout),
		Deadline:    Deadline(now).Format(LetterDateLayout),
		Email:       rec.Email,
		NationalID:  rec.NationalID,
		Payment:     NewPaymentRequest(rec, merchant),
		FileName:    DocumentName(seq, opts.Category, rec.PolicyNo, customer),
	}

	// A letter without a QR code is still sent; it just lacks the scan-to-pay block.
	if opts.QR != nil {
		data, err := opts.QR.MerchantQR(ctx, letter.Payment)
		switch {
		case err != nil:
			log.Printf("QR generation failed for %s (policy %s): %v", customer, rec.PolicyNo, err)
		case ValidQRData(data):
			letter.QRData = data
		default:
			log.Printf("No valid QR data received for %s", customer)
		}
	}

	return letter, nil
}
