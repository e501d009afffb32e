package results

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/shpitdev/tin-verification-pipeline/internal/input"
	"github.com/shpitdev/tin-verification-pipeline/internal/vouched"
)

const (
	colStatusCode = "api_status_code"
	colSuccess    = "api_success"
	colError      = "api_error"

	// responseColumnPrefix namespaces extracted response fields in the output.
	responseColumnPrefix = "api_response_"
)

// Table is the original input extended with one column per outcome attribute
// and one column per distinct extracted response key.
type Table struct {
	Header []string
	Rows   [][]string
}

// Build merges outcomes back onto the input table.
//
// Two passes: pass 1 extracts a sparse field map per successful row and
// accumulates the union of keys seen anywhere in the batch; pass 2 projects
// every row against the sorted union, so the column layout depends only on the
// set of responses, not on row order.
func Build(in input.Table, outcomes []vouched.Outcome) (Table, error) {
	if len(outcomes) != in.Len() {
		return Table{}, fmt.Errorf("outcome count %d does not match input row count %d", len(outcomes), in.Len())
	}

	extracted := make([]map[string]any, len(outcomes))
	keySet := make(map[string]struct{})
	for i, o := range outcomes {
		if !o.Success || vouched.PayloadEmpty(o.Response) {
			continue
		}
		fields := vouched.ExtractFields(o.Response)
		extracted[i] = fields
		for k := range fields {
			keySet[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	header := make([]string, 0, len(in.Header)+3+len(keys))
	header = append(header, in.Header...)
	header = append(header, colStatusCode, colSuccess, colError)
	for _, k := range keys {
		header = append(header, responseColumnPrefix+k)
	}

	rows := make([][]string, 0, in.Len())
	for i, o := range outcomes {
		row := make([]string, 0, len(header))
		row = append(row, in.Rows[i]...)
		row = append(row, formatStatusCode(o.StatusCode), strconv.FormatBool(o.Success), formatCell(o.Error))
		for _, k := range keys {
			if fields := extracted[i]; fields != nil {
				if v, ok := fields[k]; ok {
					row = append(row, formatCell(v))
					continue
				}
			}
			row = append(row, "")
		}
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}, nil
}

func formatStatusCode(code *int) string {
	if code == nil {
		return ""
	}
	return strconv.Itoa(*code)
}

// formatCell renders an outcome or extracted value into a CSV cell. Strings
// stay verbatim; structured values render as compact JSON.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case json.RawMessage:
		return string(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
