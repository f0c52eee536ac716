package tokens

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

// Chat clients receive token sequences as JSON. DecodeJSON validates the
// payload against the token schema before unmarshalling so malformed streams
// fail loudly at the boundary instead of degrading mid-render.

const schemaID = "chat://tokens.schema.json"

const tokenSchema = `{
  "$id": "chat://tokens.schema.json",
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": { "$ref": "#/$defs/token" },
  "$defs": {
    "token": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": { "type": "string", "minLength": 1 },
        "raw": { "type": "string" },
        "text": { "type": "string" },
        "depth": { "type": "integer", "minimum": 1, "maximum": 6 },
        "lang": { "type": "string" },
        "header": { "type": "array", "items": { "$ref": "#/$defs/cell" } },
        "rows": {
          "type": "array",
          "items": { "type": "array", "items": { "$ref": "#/$defs/cell" } }
        },
        "align": {
          "type": "array",
          "items": { "enum": ["", "left", "center", "right"] }
        },
        "ordered": { "type": "boolean" },
        "start": { "type": "integer", "minimum": 0 },
        "items": { "type": "array", "items": { "$ref": "#/$defs/item" } },
        "summary": { "type": "string" },
        "attributes": {
          "type": "object",
          "additionalProperties": { "type": "string" }
        },
        "fileId": { "type": "string" },
        "href": { "type": "string" },
        "title": { "type": "string" },
        "tokens": { "type": "array", "items": { "$ref": "#/$defs/token" } }
      }
    },
    "cell": {
      "type": "object",
      "properties": {
        "text": { "type": "string" },
        "tokens": { "type": "array", "items": { "$ref": "#/$defs/token" } }
      }
    },
    "item": {
      "type": "object",
      "properties": {
        "raw": { "type": "string" },
        "text": { "type": "string" },
        "task": { "type": "boolean" },
        "checked": { "type": "boolean" },
        "tokens": { "type": "array", "items": { "$ref": "#/$defs/token" } }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaID, strings.NewReader(tokenSchema)); err != nil {
			schemaErr = fmt.Errorf("tokens: add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaID)
	})
	return compiledSchema, schemaErr
}

// EncodeJSON serialises a token sequence into its wire form.
func EncodeJSON(toks []interfaces.Token) ([]byte, error) {
	data, err := json.Marshal(toks)
	if err != nil {
		return nil, fmt.Errorf("tokens: encode: %w", err)
	}
	return data, nil
}

// DecodeJSON validates the payload against the token schema and unmarshals
// it into the token model.
func DecodeJSON(data []byte) ([]interfaces.Token, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("tokens: decode: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("tokens: schema validation: %w", err)
	}

	var toks []interfaces.Token
	if err := json.Unmarshal(data, &toks); err != nil {
		return nil, fmt.Errorf("tokens: decode: %w", err)
	}
	return toks, nil
}
