package lookup

import (
	"encoding/json"
)

// Record is one element of the upstream result array, kept exactly as decoded
type Record any

// MapResponse turns a response body into the ordered record sequence.
// An undecodable body is a transport failure; an empty array, a non-array,
// or a missing nested array is an empty result.
func MapResponse(endpoint Endpoint, body []byte) ([]Record, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{
			Kind:    KindTransportFailed,
			Message: "Failed to fetch " + endpoint.Noun + " data: invalid response",
			Err:     err,
		}
	}

	if endpoint.Unwrap != nil {
		inner, ok := endpoint.Unwrap.Lookup(payload)
		if !ok {
			return nil, emptyResult(endpoint)
		}
		payload = inner
	}

	items, ok := payload.([]any)
	if !ok || len(items) == 0 {
		return nil, emptyResult(endpoint)
	}

	records := make([]Record, len(items))
	for i, item := range items {
		records[i] = item
	}
	return records, nil
}

func emptyResult(endpoint Endpoint) *Error {
	return &Error{
		Kind:    KindEmptyResult,
		Message: endpoint.EmptyMessage(),
	}
}
