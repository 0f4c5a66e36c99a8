package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchemaJSON accepts any shape the normalizer can coerce. Fields may
// be missing, null, strings or numbers; only structural mismatches such as
// an object where text is expected are rejected.
const responseSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "scalar": {"type": ["string", "number", "null"]},
    "lineItem": {
      "type": "object",
      "properties": {
        "description": {"$ref": "#/definitions/scalar"},
        "quantity":    {"$ref": "#/definitions/scalar"},
        "unitPrice":   {"$ref": "#/definitions/scalar"},
        "amount":      {"$ref": "#/definitions/scalar"}
      }
    }
  },
  "properties": {
    "vendor":         {"$ref": "#/definitions/scalar"},
    "documentType":   {"$ref": "#/definitions/scalar"},
    "date":           {"$ref": "#/definitions/scalar"},
    "documentNumber": {"$ref": "#/definitions/scalar"},
    "totalAmount":    {"$ref": "#/definitions/scalar"},
    "taxAmount":      {"$ref": "#/definitions/scalar"},
    "notes":          {"$ref": "#/definitions/scalar"},
    "confidence":     {"$ref": "#/definitions/scalar"},
    "lineItems": {
      "type": ["array", "null"],
      "items": {"$ref": "#/definitions/lineItem"}
    }
  }
}`

var responseSchema = jsonschema.MustCompileString("response.json", responseSchemaJSON)

var errEmptyResponse = errors.New("empty model response")

// ParseResponse decodes a model reply into a generic JSON object and checks
// it against the response schema. Numbers are kept as json.Number.
func ParseResponse(content string) (map[string]interface{}, error) {
	body := bytes.TrimSpace([]byte(content))
	if len(body) == 0 {
		return nil, errEmptyResponse
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding model response: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decoding model response: trailing data after JSON object")
	}

	if err := responseSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("model response does not match schema: %w", err)
	}

	obj, ok := doc.(map[string]interface{})
	if !ok {
		return nil, errors.New("model response is not a JSON object")
	}
	return obj, nil
}
