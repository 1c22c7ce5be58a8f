// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bkb

import "fmt"

// ListRequest describes one search posted to the list-creation endpoint.
// The server answers with a list id that a later download call redeems.
type ListRequest struct {
	// Payload is the JSON body sent to the search endpoint.
	Payload map[string]any

	// Description labels the request in progress output and errors,
	// e.g. `biomarker entity "IL-6"`.
	Description string
}

// EntityQuery searches by biomarker entity name. A size of zero omits the
// size parameter and lets the server choose the result window.
func EntityQuery(name string, size int) ListRequest {
	return newRequest("biomarker_entity_name", name,
		fmt.Sprintf("biomarker entity %q", name), size)
}

// SpecimenQuery searches by specimen name, e.g. "cerebrospinal fluid".
func SpecimenQuery(name string, size int) ListRequest {
	return newRequest("specimen_name", name,
		fmt.Sprintf("specimen %q", name), size)
}

// RecordTypeQuery searches by record type, e.g. "biomarker".
func RecordTypeQuery(recordType string, size int) ListRequest {
	return newRequest("record_type", recordType,
		fmt.Sprintf("record type %q", recordType), size)
}

func newRequest(field, value, description string, size int) ListRequest {
	payload := map[string]any{field: value}
	if size > 0 {
		payload["size"] = size
	}
	return ListRequest{Payload: payload, Description: description}
}

// WithSize returns a copy of the request with the result window replaced.
// The escalation loop uses this to re-post the same search with a doubled
// size. A size of zero removes the parameter.
func (r ListRequest) WithSize(size int) ListRequest {
	payload := make(map[string]any, len(r.Payload)+1)
	for k, v := range r.Payload {
		payload[k] = v
	}
	delete(payload, "size")
	if size > 0 {
		payload["size"] = size
	}
	return ListRequest{Payload: payload, Description: r.Description}
}
