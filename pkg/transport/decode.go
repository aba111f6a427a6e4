package transport

import "encoding/json"

// Decode normalizes a raw broker payload into a Request. Decoding failure is
// not fatal: the whole payload is treated as raw prompt text with all
// optional fields absent. fallbackID is the broker's own message identifier,
// used when the payload carries no id of its own; it may be empty, in which
// case the orchestrator generates a fresh one.
//
// The second return value reports whether the raw-text fallback was taken.
func Decode(payload []byte, fallbackID string) (Request, bool) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil || req.Text == "" {
		return Request{
			ID:   fallbackID,
			Text: string(payload),
		}, true
	}

	if req.ID == "" {
		req.ID = fallbackID
	}

	return req, false
}
