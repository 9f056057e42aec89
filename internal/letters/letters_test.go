package letters

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/nicl-arrears/internal/addrsplit"
)

func validRecord() Record {
	return Record{
		PolicyNo:     "HL/2024/0071",
		Title:        "Mr",
		PolicyHolder: "JOHN SMITH",
		FullAddress:  "12 Royal Road, Curepipe",
		Arrears:      1520.75,
		Mobile:       "57123456.0",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr error
		comment string
	}{
		{"valid", func(r *Record) {}, nil, ""},
		{"missing policy", func(r *Record) { r.PolicyNo = " " }, ErrMissingEssential, "Missing essential data (Policy No or Policy Holder)"},
		{"missing holder", func(r *Record) { r.PolicyHolder = "" }, ErrMissingEssential, "Missing essential data (Policy No or Policy Holder)"},
		{"arrears too low", func(r *Record) { r.Arrears = 99.5 }, ErrArrearsTooLow, "Arrears amount too low (MUR 99.50 < MUR 100)"},
		{"no address", func(r *Record) { r.FullAddress = "   " }, ErrNoAddress, "No valid address available"},
		{"address line 3 only", func(r *Record) { r.FullAddress = ""; r.Addr3 = "Rose Hill" }, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			err := Validate(rec, DefaultMinArrears)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if got := Comment(err); got != tt.comment {
				t.Errorf("Comment() = %q, want %q", got, tt.comment)
			}
		})
	}
}

func TestComment(t *testing.T) {
	if got := Comment(nil); got != "" {
		t.Errorf("Comment(nil) = %q", got)
	}
	if got := Comment(errors.New("boom")); got != "boom" {
		t.Errorf("Comment(plain) = %q", got)
	}
}

func TestAddressLines(t *testing.T) {
	seg := addrsplit.New()
	tests := []struct {
		name string
		rec  Record
		want []string
	}{
		{"segmented full address", Record{FullAddress: "12 Royal Road, Curepipe"}, []string{"12 Royal Road", "Curepipe"}},
		{"per line fields win", Record{Addr1: " Lot 5 ", Addr4: "Vacoas", FullAddress: "ignored, Curepipe"}, []string{"Lot 5", "Vacoas"}},
		{"inactive line 3", Record{Addr1: "Avenue Des Lilas", Addr2: "Camp Levieux", Addr3: "Rose Hill"}, []string{"Avenue Des Lilas", "Camp Levieux", "Rose Hill"}},
		{"nothing available", Record{}, []string{AddressNotAvailable}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddressLines(tt.rec, seg)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("AddressLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddressColumns(t *testing.T) {
	seg := addrsplit.New()
	tests := []struct {
		name string
		rec  Record
		want addrsplit.Lines
	}{
		{"segmented keeps town last", Record{FullAddress: "12 Royal Road, Curepipe"}, addrsplit.Lines{"12 Royal Road", "", "Curepipe"}},
		{"fields fill from the left", Record{Addr1: "Lot 7", Addr4: "Vacoas"}, addrsplit.Lines{"Lot 7", "Vacoas", ""}},
		{"four fields fold", Record{Addr1: "Flat 2", Addr2: "Block A", Addr3: "Rue Royale", Addr4: "Port Louis"}, addrsplit.Lines{"Flat 2", "Block A, Rue Royale", "Port Louis"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddressColumns(tt.rec, seg); got != tt.want {
				t.Errorf("AddressColumns() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecipient(t *testing.T) {
	got := Recipient("MR JOHN SMITH", []string{"12 ROYAL ROAD", "port louis"})
	want := []string{"Mr John Smith", "12 Royal Road", "Port Louis"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Recipient() = %q, want %q", got, want)
	}
}

func TestCustomerLabel(t *testing.T) {
	tests := []struct {
		holder string
		want   string
	}{
		{"", ""},
		{"John Smith", "J Smith"},
		{"Mr John Smith", "J Smith"},
		{"jean-pierre ramgoolam", "J ramgoolam"},
		{"Madonna", "Madonna"},
		{"Mr", "Mr"},
		{"A Abcdefghijklmnopqrstuv", "A Abcdefghijklmnopqrstuv"},
		{"A Abcdefghijklmnopqrstuvwxyzabcd", "Abcdefghijklmnopqrstuvwx"},
	}
	for _, tt := range tests {
		t.Run(tt.holder, func(t *testing.T) {
			if got := CustomerLabel(tt.holder); got != tt.want {
				t.Errorf("CustomerLabel(%q) = %q, want %q", tt.holder, got, tt.want)
			}
		})
	}
}

func TestPaymentFields(t *testing.T) {
	if got := BillNumber("HL/2024/0071"); got != "HL.2024.0071" {
		t.Errorf("BillNumber() = %q", got)
	}
	for raw, want := range map[string]string{
		"57123456.0": "57123456",
		"57123456":   "57123456",
		"n/a":        "",
		"":           "",
		"NaN":        "",
		"Inf":        "",
		"-Inf":       "",
		"1e30":       "",
		"-1e30":      "",
	} {
		if got := MobileNumber(raw); got != want {
			t.Errorf("MobileNumber(%q) = %q, want %q", raw, got, want)
		}
	}
	for data, want := range map[string]bool{"000201010212": true, "null": false, " NaN ": false, "": false} {
		if got := ValidQRData(data); got != want {
			t.Errorf("ValidQRData(%q) = %v, want %v", data, got, want)
		}
	}

	req := NewPaymentRequest(validRecord(), DefaultMerchantID)
	if req.MerchantID != 153 || req.AdditionalCustomerLabel != "J SMITH" || req.AdditionalPurposeTransaction != "Arrears Payment" {
		t.Errorf("NewPaymentRequest() = %+v", req)
	}
}

func TestFileNames(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Mr. John/Doe", "Mr._John_Doe"},
		{"a<b>c:d", "a_b_c_d"},
		{"  __ ", "unknown"},
		{"...", "unknown"},
		{strings.Repeat("a", 60), strings.Repeat("a", 50)},
		{strings.Repeat("a", 49) + "ébbb", strings.Repeat("a", 49) + "é"},
		{strings.Repeat("é", 55), strings.Repeat("é", 50)},
	}
	for _, tt := range tests {
		got := SanitizeFilename(tt.in)
		if got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("SanitizeFilename(%q) returned invalid UTF-8 %q", tt.in, got)
		}
	}

	if got := SequenceNumber(7, 1200); got != "0007" {
		t.Errorf("SequenceNumber() = %q, want 0007", got)
	}
	if got := DocumentName("07", "L1", "HL/1", "Mr John"); got != "07_L1_HL_1_Mr_John_arrears.pdf" {
		t.Errorf("DocumentName() = %q", got)
	}
}

func TestParseAmount(t *testing.T) {
	for raw, want := range map[string]float64{"1,520.75": 1520.75, " 100 ": 100, "abc": 0, "": 0} {
		if got := ParseAmount(raw); got != want {
			t.Errorf("ParseAmount(%q) = %v, want %v", raw, got, want)
		}
	}
}

type fakeQR struct {
	data string
	err  error
	got  PaymentRequest
}

func (f *fakeQR) MerchantQR(_ context.Context, req PaymentRequest) (string, error) {
	f.got = req
	return f.data, f.err
}

func TestPrepare(t *testing.T) {
	qr := &fakeQR{data: "000201QRDATA"}
	letter, err := Prepare(context.Background(), validRecord(), 3, 25, Options{
		Category:   "L1",
		MinArrears: DefaultMinArrears,
		QR:         qr,
	})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if letter.FileName != "03_L1_HL_2024_0071_Mr_JOHN_SMITH_arrears.pdf" {
		t.Errorf("FileName = %q", letter.FileName)
	}
	if strings.Join(letter.Recipient, "|") != "Mr John Smith|12 Royal Road|Curepipe" {
		t.Errorf("Recipient = %q", letter.Recipient)
	}
	if letter.QRData != "000201QRDATA" {
		t.Errorf("QRData = %q", letter.QRData)
	}
	if qr.got.AdditionalBillNumber != "HL.2024.0071" {
		t.Errorf("provider got bill number %q", qr.got.AdditionalBillNumber)
	}
}

func TestPrepareRejectsAndTolerates(t *testing.T) {
	rec := validRecord()
	rec.Arrears = 10
	if _, err := Prepare(context.Background(), rec, 1, 1, Options{MinArrears: DefaultMinArrears}); !errors.Is(err, ErrArrearsTooLow) {
		t.Errorf("Prepare() error = %v, want ErrArrearsTooLow", err)
	}

	letter, err := Prepare(context.Background(), validRecord(), 1, 1, Options{QR: &fakeQR{err: errors.New("timeout")}})
	if err != nil {
		t.Fatalf("Prepare() with failing QR error = %v", err)
	}
	if letter.QRData != "" || letter.Category != "L0" {
		t.Errorf("letter = %+v, want no QR data and default category", letter)
	}
}

func TestProductType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "MOTOR"},
		{"  ", "MOTOR"},
		{"Motor Private", "MOTOR"},
		{"Motor Fleet", "MOTOR"},
		{"OASIS Family Plan", "OASIS"},
		{"oasis", "OASIS"},
		{" Travel Insurance ", "TRAVEL"},
		{"Fire & Allied Perils", "FIRE & ALLIED PERILS"},
		{"Employer's Liability", "EMPLOYER'S LIABILITY"},
		{"Director's and Officer's Liability", "DIRECTOR'S AND OFFICER'S LIABILITY"},
		{"travel insurance", "TRAVEL INSURANCE"},
		{"Householders Comprehensive", "HOUSEHOLDERS COMPREHENSIVE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProductType(tt.name); got != tt.want {
				t.Errorf("ProductType(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	if InactiveMerchantID("MOTOR") != 155 || InactiveMerchantID("TRAVEL") != 171 {
		t.Errorf("InactiveMerchantID() = %d, %d", InactiveMerchantID("MOTOR"), InactiveMerchantID("TRAVEL"))
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"2024-03-05", "05 March 2024"},
		{"2024-03-05 00:00:00", "05 March 2024"},
		{"05/03/2024", "05 March 2024"},
		{"5/3/2024", "05 March 2024"},
		{"05-Mar-2024", "05 March 2024"},
		{"45356", "05 March 2024"},
		{"45356.0", "05 March 2024"},
		{"20240305", "05 March 2024"},
		{"sometime", "sometime"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := FormatDate(tt.raw); got != tt.want {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}

	if got := CoverPeriod("2024-01-01", "2024-12-31"); got != "01 January 2024 to 31 December 2024" {
		t.Errorf("CoverPeriod() = %q", got)
	}
	if got := CoverPeriod(" ", ""); got != "" {
		t.Errorf("CoverPeriod(blank) = %q, want empty", got)
	}
}

func TestPrepareDates(t *testing.T) {
	rec := validRecord()
	rec.CoverFrom = "2024-01-01"
	rec.CoverTo = "45657"
	rec.Email = "john@example.mu"
	rec.NationalID = "S0101801234567"

	clock := func() time.Time { return time.Date(2024, 12, 26, 15, 4, 0, 0, time.UTC) }
	letter, err := Prepare(context.Background(), rec, 1, 1, Options{Now: clock})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if letter.LetterDate != "26 December 2024" {
		t.Errorf("LetterDate = %q", letter.LetterDate)
	}
	if letter.Deadline != "05 January 2025" {
		t.Errorf("Deadline = %q, want ten days after the letter date", letter.Deadline)
	}
	if letter.CoverPeriod != "01 January 2024 to 31 December 2024" {
		t.Errorf("CoverPeriod = %q", letter.CoverPeriod)
	}
	if letter.Email != rec.Email || letter.NationalID != rec.NationalID {
		t.Errorf("Email, NationalID = %q, %q", letter.Email, letter.NationalID)
	}
}

func TestPrepareSubjectAndMerchant(t *testing.T) {
	rec := validRecord()

	letter, err := Prepare(context.Background(), rec, 1, 1, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if letter.Subject != "HEALTH" || letter.Product != "" || letter.Payment.MerchantID != DefaultMerchantID {
		t.Errorf("health letter Subject, Product, Merchant = %q, %q, %d", letter.Subject, letter.Product, letter.Payment.MerchantID)
	}

	nonMotor := Options{
		Category:           "Inactive_Nonmotor",
		SubjectFromProduct: true,
		Merchant:           InactiveMerchantID,
	}
	tests := []struct {
		product  string
		subject  string
		merchant int
	}{
		{"Travel Insurance", "TRAVEL", 171},
		{"Motor Private", "MOTOR", 155},
		{"", "MOTOR", 155},
	}
	for _, tt := range tests {
		t.Run(tt.product, func(t *testing.T) {
			rec.Product = tt.product
			letter, err := Prepare(context.Background(), rec, 1, 1, nonMotor)
			if err != nil {
				t.Fatal(err)
			}
			if letter.Subject != tt.subject || letter.Product != tt.subject || letter.Payment.MerchantID != tt.merchant {
				t.Errorf("Subject, Product, Merchant = %q, %q, %d, want %q, %d",
					letter.Subject, letter.Product, letter.Payment.MerchantID, tt.subject, tt.merchant)
			}
			if !strings.HasPrefix(letter.FileName, "1_Inactive_Nonmotor_") {
				t.Errorf("FileName = %q", letter.FileName)
			}
		})
	}
}
