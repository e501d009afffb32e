package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shpitdev/tin-verification-pipeline/internal/vouched"
)

// WriteCSV writes the merged table.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRawLog serializes the full outcome list, preserving input row order.
// Values that cannot be marshaled fall back to their string form rather than
// failing the dump.
func WriteRawLog(w io.Writer, outcomes []vouched.Outcome) error {
	safe := make([]vouched.Outcome, len(outcomes))
	for i, o := range outcomes {
		o.Response = marshalable(o.Response)
		o.Error = marshalable(o.Error)
		safe[i] = o
	}

	b, err := json.MarshalIndent(safe, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal raw outcome log: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func marshalable(v any) any {
	if v == nil {
		return nil
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return v
}

// Save persists both output files. Failures are wrapped and returned so the
// orchestrator can log and re-raise them; as much state as possible is written
// before giving up.
func Save(t Table, outcomes []vouched.Outcome, resultsPath, rawLogPath string) error {
	if err := saveCSV(t, resultsPath); err != nil {
		return err
	}
	return saveRawLog(outcomes, rawLogPath)
}

func saveCSV(t Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results csv %q: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		return fmt.Errorf("write results csv %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close results csv %q: %w", path, err)
	}
	return nil
}

func saveRawLog(outcomes []vouched.Outcome, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create raw response log %q: %w", path, err)
	}
	if err := WriteRawLog(f, outcomes); err != nil {
		_ = f.Close()
		return fmt.Errorf("write raw response log %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close raw response log %q: %w", path, err)
	}
	return nil
}
