package input_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shpitdev/tin-verification-pipeline/internal/input"
)

func TestRead(t *testing.T) {
	t.Run("reads records and preserves extra columns", func(t *testing.T) {
		in := "firstName,lastName,tin,phone,notes\nAda,Lovelace,900-70-0001,555-0100,vip\nAlan,Turing,900-70-0002,555-0101,\n"
		table, err := input.Read(strings.NewReader(in))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if table.Len() != 2 {
			t.Fatalf("expected 2 rows, got %d", table.Len())
		}
		rec := table.Record(0)
		if rec.FirstName != "Ada" || rec.LastName != "Lovelace" || rec.TIN != "900-70-0001" || rec.Phone != "555-0100" {
			t.Fatalf("unexpected record: %#v", rec)
		}
		if len(table.Header) != 5 || table.Header[4] != "notes" {
			t.Fatalf("extra column not preserved: %#v", table.Header)
		}
		if table.Rows[0][4] != "vip" {
			t.Fatalf("extra cell not preserved: %#v", table.Rows[0])
		}
	})

	t.Run("header match is case-insensitive", func(t *testing.T) {
		in := "FirstName,LASTNAME,Tin,PHONE\nAda,Lovelace,900,555\n"
		table, err := input.Read(strings.NewReader(in))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := table.Record(0).TIN; got != "900" {
			t.Fatalf("unexpected tin: %q", got)
		}
	})

	t.Run("missing columns are named", func(t *testing.T) {
		in := "firstName,lastName,phone\nAda,Lovelace,555\n"
		_, err := input.Read(strings.NewReader(in))
		var ferr *input.FormatError
		if !errors.As(err, &ferr) {
			t.Fatalf("expected FormatError, got %v", err)
		}
		if len(ferr.Missing) != 1 || ferr.Missing[0] != "tin" {
			t.Fatalf("unexpected missing set: %#v", ferr.Missing)
		}
		if !strings.Contains(ferr.Error(), "tin") {
			t.Fatalf("error should name the missing column: %q", ferr.Error())
		}
	})

	t.Run("short rows are padded", func(t *testing.T) {
		in := "firstName,lastName,tin,phone,notes\nAda,Lovelace,900,555\n"
		table, err := input.Read(strings.NewReader(in))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(table.Rows[0]) != 5 || table.Rows[0][4] != "" {
			t.Fatalf("row not padded: %#v", table.Rows[0])
		}
	})
}

func TestLoadMissingFile(t *testing.T) {
	_, err := input.Load(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestMissingValueRows(t *testing.T) {
	in := "firstName,lastName,tin,phone\nAda,Lovelace,,555\n,Turing,900,555\nGrace,Hopper,901, \n"
	table, err := input.Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blanks := table.MissingValueRows()
	if got := blanks["tin"]; len(got) != 1 || got[0] != 0 {
		t.Fatalf("unexpected blank tin rows: %#v", got)
	}
	if got := blanks["firstName"]; len(got) != 1 || got[0] != 1 {
		t.Fatalf("unexpected blank firstName rows: %#v", got)
	}
	if got := blanks["phone"]; len(got) != 1 || got[0] != 2 {
		t.Fatalf("unexpected blank phone rows: %#v", got)
	}
	if got := blanks["lastName"]; len(got) != 0 {
		t.Fatalf("unexpected blank lastName rows: %#v", got)
	}
	// The data itself is untouched.
	if table.Rows[2][3] != " " {
		t.Fatalf("blank detection must not alter cells: %#v", table.Rows[2])
	}
}
