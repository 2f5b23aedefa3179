package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const envelopeSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["success"],
	"properties": {
		"success": {"type": "boolean"},
		"message": {"type": ["string", "null"]}
	}
}`

var envelopeSchema = jsonschema.MustCompileString("envelope.schema.json", envelopeSchemaJSON)

// Envelope is the {success, message, data} shape every backend call returns.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// parseEnvelope decodes body regardless of the HTTP status that produced it.
func parseEnvelope(body []byte) (Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Envelope{}, fmt.Errorf("empty response body")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		return Envelope{}, fmt.Errorf("unexpected %s response: %w", mimetype.Detect(trimmed).String(), err)
	}

	if err := envelopeSchema.Validate(raw); err != nil {
		return Envelope{}, fmt.Errorf("malformed envelope: %w", err)
	}

	var envelope Envelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("malformed envelope: %w", err)
	}

	return envelope, nil
}

// Decode unmarshals the envelope's data into T. Missing or null data yields the zero value.
func Decode[T any](operation string, envelope Envelope) (T, error) {
	var value T

	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return value, nil
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return value, &Error{Kind: KindDecode, Operation: operation, Message: "unexpected data shape", Err: err}
	}

	return value, nil
}
