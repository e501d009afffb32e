package vouched

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// ExtractFields pulls the allow-listed fields out of a response payload:
// id and submitted verbatim, plus result.status as result_status when result
// is itself an object. Unknown fields are deliberately dropped rather than
// flattened. A raw-text payload (the unparseable-body fallback) is preserved
// under raw_response. Any other shape yields an empty map. Never fails.
func ExtractFields(payload any) map[string]any {
	switch v := payload.(type) {
	case json.RawMessage:
		return extractJSON(v)
	case string:
		return map[string]any{"raw_response": v}
	default:
		return map[string]any{}
	}
}

func extractJSON(raw []byte) map[string]any {
	out := map[string]any{}
	if !gjson.ValidBytes(raw) {
		return out
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return out
	}

	if v := root.Get("id"); v.Exists() {
		out["id"] = v.Value()
	}
	if v := root.Get("submitted"); v.Exists() {
		out["submitted"] = v.Value()
	}
	if res := root.Get("result"); res.IsObject() {
		if st := res.Get("status"); st.Exists() {
			out["result_status"] = st.Value()
		}
	}
	return out
}
