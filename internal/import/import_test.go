package import_pkg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nicl-arrears/internal/letters"
)

const sampleCSV = `pol_no,PH_TITLE,POLICY_HOLDER,POL_PH_ADDR1,POL_PH_ADDR2,POL_PH_ADDR4,FULL_ADDRESS,TrueArrears,PH_MOBILE,COMMENTS
HL/1,Mr,John Smith,,,,"12 Royal Road, Curepipe","1,250.00",57123456.0,nan
HL/2,Mrs,Jane Doe,Lot 5,,Vacoas,,99,,
,Mr,No Policy,,,,15 Church Street Quatre Bornes,500,,
HL/4,Ms,Ann Lee,,,,,800,,
`

func TestCSVReaderRead(t *testing.T) {
	records, err := CSVReader{}.Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Read() returned %d records, want 4", len(records))
	}

	first := records[0]
	if first.PolicyNo != "HL/1" || first.PolicyHolder != "John Smith" {
		t.Errorf("first record = %+v", first)
	}
	if first.FullAddress != "12 Royal Road, Curepipe" {
		t.Errorf("FullAddress = %q", first.FullAddress)
	}
	if first.Arrears != 1250 {
		t.Errorf("Arrears = %v, want 1250", first.Arrears)
	}
	if first.Comments != "" {
		t.Errorf("Comments = %q, want nan placeholder blanked", first.Comments)
	}
	if records[1].Addr4 != "Vacoas" {
		t.Errorf("Addr4 = %q", records[1].Addr4)
	}
}

func TestCSVReaderWindows1252(t *testing.T) {
	data := "POL_NO,POLICY_HOLDER,FULL_ADDRESS\nHL/9,Ren\xe9 Bh\xfbnoo,Cit\xe9 Kennedy Rose Hill\n"
	records, err := CSVReader{Windows1252: true}.Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := records[0].PolicyHolder; got != "René Bhûnoo" {
		t.Errorf("PolicyHolder = %q, want René Bhûnoo", got)
	}
}

const inactiveCSV = "Policy No,Tittle,Policy Holder,Product Name,Address 1,Address 2,Address 3,Outstanding Amount ,TrueArrears,Start Date,End Date,Policy Holder Mobile Number,PH_NID\n" +
	"MV/1,Mr,Ravi Ramsamy,Motor Private,Avenue Des Lilas,Camp Levieux,Rose Hill,0,2500,2024-01-01,2024-12-31,57654321,R0101801234567\n" +
	"TR/2,Mrs,Ann Lee,Travel Insurance,,,,\"1,200.50\",,45292,45657,,\n"

func TestCSVReaderInactiveLayout(t *testing.T) {
	records, err := CSVReader{Layout: InactiveLayout}.Read(strings.NewReader(inactiveCSV))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Read() returned %d records, want 2", len(records))
	}

	first := records[0]
	want := letters.Record{
		PolicyNo:     "MV/1",
		Title:        "Mr",
		PolicyHolder: "Ravi Ramsamy",
		Product:      "Motor Private",
		Addr1:        "Avenue Des Lilas",
		Addr2:        "Camp Levieux",
		Addr3:        "Rose Hill",
		Arrears:      2500,
		CoverFrom:    "2024-01-01",
		CoverTo:      "2024-12-31",
		Mobile:       "57654321",
		NationalID:   "R0101801234567",
	}
	if first != want {
		t.Errorf("first record = %+v, want %+v", first, want)
	}
	if got := records[1].Arrears; got != 1200.5 {
		t.Errorf("Arrears = %v, want the trailing-space Outstanding Amount column", got)
	}
}

func TestCSVReaderArrearsLayoutIgnoresAddr3(t *testing.T) {
	data := "POL_NO,POLICY_HOLDER,POL_PH_ADDR3,FULL_ADDRESS\nHL/1,A,Rose Hill,Lot 7 Vacoas\n"
	records, err := CSVReader{}.Read(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Addr3 != "" || records[0].FullAddress != "Lot 7 Vacoas" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestLayoutByName(t *testing.T) {
	for _, name := range []string{"arrears", " Inactive "} {
		if _, err := LayoutByName(name); err != nil {
			t.Errorf("LayoutByName(%q) error = %v", name, err)
		}
	}
	if _, err := LayoutByName("motor"); err == nil {
		t.Error("LayoutByName(motor) succeeded")
	}
}

func TestCSVReaderMissingColumns(t *testing.T) {
	_, err := CSVReader{}.Read(strings.NewReader("NAME,ADDRESS\nx,y\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Errorf("Read() error = %v, want ErrMissingColumns", err)
	}
}

func TestBatchProcessorProcess(t *testing.T) {
	records, err := CSVReader{}.Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	bp := NewBatchProcessor(letters.Options{Category: "L1", MinArrears: letters.DefaultMinArrears}, 3, false)
	results, stats, err := bp.Process(context.Background(), records)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if stats.Rows != 4 || stats.Prepared != 1 || stats.Rejected != 3 {
		t.Errorf("stats = %+v, want 4 rows, 1 prepared, 3 rejected", stats)
	}
	for i, r := range results {
		if r.Row != i+1 {
			t.Errorf("results[%d].Row = %d, want input order", i, r.Row)
		}
	}

	if got := results[0].Letter; got == nil || got.FileName != "1_L1_HL_1_Mr_John_Smith_arrears.pdf" {
		t.Errorf("results[0].Letter = %+v", got)
	}
	wantComments := []string{
		letters.GeneratedComment,
		"Arrears amount too low (MUR 99.00 < MUR 100)",
		"Missing essential data (Policy No or Policy Holder)",
		"No valid address available",
	}
	for i, want := range wantComments {
		if got := results[i].Comment(); got != want {
			t.Errorf("results[%d].Comment() = %q, want %q", i, got, want)
		}
	}
}

func TestBatchProcessorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := make([]letters.Record, 50)
	bp := NewBatchProcessor(letters.Options{}, 1, false)
	_, _, err := bp.Process(ctx, records)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Process() error = %v, want context.Canceled", err)
	}
}

type savedRow struct {
	row     int
	letter  *letters.Letter
	comment string
}

type memoryStore struct {
	batches []string
	rows    []savedRow
	deleted []int64
	failRow int // SaveResult fails for this row when set
}

func (m *memoryStore) CreateBatch(_ context.Context, source, category string) (int64, error) {
	m.batches = append(m.batches, source+"/"+category)
	return int64(len(m.batches)), nil
}

func (m *memoryStore) SaveResult(_ context.Context, _ int64, row int, _ letters.Record, letter *letters.Letter, comment string) error {
	if row == m.failRow {
		return errors.New("connection reset")
	}
	m.rows = append(m.rows, savedRow{row: row, letter: letter, comment: comment})
	return nil
}

func (m *memoryStore) DeleteBatch(_ context.Context, batchID int64) error {
	m.deleted = append(m.deleted, batchID)
	m.batches = m.batches[:batchID-1]
	m.rows = nil
	return nil
}

func TestImporterImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "L0_extract.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	store := &memoryStore{}
	bp := NewBatchProcessor(letters.Options{MinArrears: letters.DefaultMinArrears}, 2, false)
	summary, err := NewImporter(store, CSVReader{}, bp).Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if summary.BatchID != 1 || summary.Prepared != 1 || summary.Rejected != 3 {
		t.Errorf("summary = %+v", summary)
	}
	if len(store.batches) != 1 || store.batches[0] != "L0_extract.csv/L0" {
		t.Errorf("batches = %v", store.batches)
	}
	if len(store.rows) != 4 || store.rows[0].letter == nil || store.rows[3].comment != "No valid address available" {
		t.Errorf("rows = %+v", store.rows)
	}
}

func TestImporterRollsBackFailedBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "L0_extract.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	store := &memoryStore{failRow: 2}
	bp := NewBatchProcessor(letters.Options{MinArrears: letters.DefaultMinArrears}, 2, false)
	summary, err := NewImporter(store, CSVReader{}, bp).Import(context.Background(), path)
	if err == nil || !strings.Contains(err.Error(), "row 2") {
		t.Fatalf("Import() = %+v, %v, want row 2 save error", summary, err)
	}

	if len(store.deleted) != 1 || store.deleted[0] != 1 {
		t.Errorf("deleted = %v, want batch 1", store.deleted)
	}
	if len(store.batches) != 0 || len(store.rows) != 0 {
		t.Errorf("left behind batches %v, rows %+v", store.batches, store.rows)
	}
}
