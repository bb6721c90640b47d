package awclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Unwrap normalizes the response shapes the backend produces for reads. The
// payload may be a bare array, a bare object, `{"data": ...}`, or the
// double-wrapped `{"data": {"data": ...}}` some proxied deployments emit.
// Every shape comes back as a slice; a single object becomes a one-element
// slice.
func Unwrap[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	// Peel `{"data": ...}` wrappers. An object without a data member is
	// treated as a single record.
	for bytes.HasPrefix(body, []byte("{")) {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}

		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode response envelope: %w", err)
		}

		if envelope.Data == nil {
			break
		}

		body = bytes.TrimSpace(envelope.Data)
	}

	if bytes.HasPrefix(body, []byte("[")) {
		var out []T
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("failed to decode response list: %w", err)
		}

		return out, nil
	}

	if bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	var single T
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("failed to decode response object: %w", err)
	}

	return []T{single}, nil
}
