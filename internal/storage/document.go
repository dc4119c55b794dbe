package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Document is the persisted unit: every collection name mapped to its ordered records.
type Document map[string][]json.RawMessage

const documentSchemaJSON = `{
	"type": "object",
	"additionalProperties": {
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id"],
			"properties": {
				"id": {"type": "string", "minLength": 1}
			}
		}
	}
}`

var documentSchema = mustCompileSchema(documentSchemaJSON)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("compile document schema: %v", err))
	}
	return compiled
}

// decodeDocument parses and checks a persisted document. Unknown record fields
// are kept verbatim so additive schema changes load without migration.
func decodeDocument(data []byte) (Document, error) {
	result, err := documentSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrCorruptDocument, strings.Join(problems, "; "))
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}

	for name, records := range doc {
		seen := make(map[string]struct{}, len(records))
		for _, raw := range records {
			id, err := recordID(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrCorruptDocument, name, err)
			}
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("%w: %s: duplicate id %q", ErrCorruptDocument, name, id)
			}
			seen[id] = struct{}{}
		}
		if records == nil {
			doc[name] = []json.RawMessage{}
		}
	}
	return doc, nil
}

func encodeDocument(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func recordID(raw json.RawMessage) (string, error) {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", err
	}
	return head.ID, nil
}
