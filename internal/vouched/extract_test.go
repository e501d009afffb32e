package vouched_test

import (
	"encoding/json"
	"testing"

	"github.com/shpitdev/tin-verification-pipeline/internal/vouched"
)

func TestExtractFields(t *testing.T) {
	t.Run("allow-listed fields are copied", func(t *testing.T) {
		got := vouched.ExtractFields(json.RawMessage(`{"id":"x1","submitted":true,"result":{"status":"approved"},"extra":"dropped"}`))
		if len(got) != 3 {
			t.Fatalf("unexpected field count: %#v", got)
		}
		if got["id"] != "x1" {
			t.Fatalf("unexpected id: %#v", got["id"])
		}
		if got["submitted"] != true {
			t.Fatalf("unexpected submitted: %#v", got["submitted"])
		}
		if got["result_status"] != "approved" {
			t.Fatalf("unexpected result_status: %#v", got["result_status"])
		}
	})

	t.Run("sparse payloads produce sparse maps", func(t *testing.T) {
		got := vouched.ExtractFields(json.RawMessage(`{"id":"x2"}`))
		if len(got) != 1 || got["id"] != "x2" {
			t.Fatalf("unexpected fields: %#v", got)
		}
	})

	t.Run("result must be an object", func(t *testing.T) {
		got := vouched.ExtractFields(json.RawMessage(`{"id":"x3","result":"approved"}`))
		if _, ok := got["result_status"]; ok {
			t.Fatalf("result_status extracted from non-object result: %#v", got)
		}
	})

	t.Run("string payload becomes raw_response", func(t *testing.T) {
		got := vouched.ExtractFields("<html>gateway error</html>")
		if len(got) != 1 || got["raw_response"] != "<html>gateway error</html>" {
			t.Fatalf("unexpected fields: %#v", got)
		}
	})

	t.Run("non-object shapes yield empty maps", func(t *testing.T) {
		for _, payload := range []any{
			json.RawMessage(`[1,2,3]`),
			json.RawMessage(`42`),
			nil,
			12.5,
		} {
			if got := vouched.ExtractFields(payload); len(got) != 0 {
				t.Fatalf("expected empty map for %#v, got %#v", payload, got)
			}
		}
	})
}
