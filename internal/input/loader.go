package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// RequiredColumns are the input columns every file must carry. Matching is
// case-insensitive; extra columns are tolerated and passed through.
var RequiredColumns = []string{"firstName", "lastName", "tin", "phone"}

// Record is one identity row submitted for verification. Cell values are kept
// verbatim; trimming happens when the request payload is built.
type Record struct {
	Index     int
	FirstName string
	LastName  string
	TIN       string
	Phone     string
}

// Table holds the parsed input with the original header and cells preserved,
// so extra columns survive into the output.
type Table struct {
	Header []string
	Rows   [][]string

	fieldIdx map[string]int
}

// FormatError reports required columns missing from the input header.
type FormatError struct {
	Missing []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("input missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Load reads and validates the input file. A path that does not resolve
// surfaces the underlying open error.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer func() {
		_ = f.Close()
	}()
	return Read(f)
}

// Read parses a CSV input and validates the required columns. Short rows are
// padded so every row has a cell per header column.
func Read(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	fieldIdx := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, want := range RequiredColumns {
		idx := -1
		for i, col := range header {
			if strings.EqualFold(col, want) {
				idx = i
				break
			}
		}
		if idx < 0 {
			missing = append(missing, want)
			continue
		}
		fieldIdx[want] = idx
	}
	if len(missing) > 0 {
		return Table{}, &FormatError{Missing: missing}
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		rows = append(rows, rec)
	}

	return Table{Header: header, Rows: rows, fieldIdx: fieldIdx}, nil
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Record returns the typed view of row i.
func (t Table) Record(i int) Record {
	row := t.Rows[i]
	return Record{
		Index:     i,
		FirstName: row[t.fieldIdx["firstName"]],
		LastName:  row[t.fieldIdx["lastName"]],
		TIN:       row[t.fieldIdx["tin"]],
		Phone:     row[t.fieldIdx["phone"]],
	}
}

// MissingValueRows reports, for each required column, the row indices whose
// cell is blank. Blank values are a warning condition only; the data is not
// altered.
func (t Table) MissingValueRows() map[string][]int {
	out := make(map[string][]int)
	for _, col := range RequiredColumns {
		idx := t.fieldIdx[col]
		for i, row := range t.Rows {
			if strings.TrimSpace(row[idx]) == "" {
				out[col] = append(out[col], i)
			}
		}
	}
	return out
}
