package tokens

import (
	"strings"
	"testing"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

func TestDecodeJSONRoundTrip(t *testing.T) {
	toks := tokenize(t, "# Title\n\nhello **there**\n")

	data, err := EncodeJSON(toks)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}

	decoded, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(decoded) != len(toks) {
		t.Fatalf("expected %d tokens, got %d", len(toks), len(decoded))
	}
	if decoded[0].Kind != interfaces.KindHeading || decoded[0].Depth != 1 {
		t.Fatalf("unexpected first token %#v", decoded[0])
	}
}

func TestDecodeJSONRejectsMissingType(t *testing.T) {
	_, err := DecodeJSON([]byte(`[{"text":"no type field"}]`))
	if err == nil {
		t.Fatalf("expected schema validation failure")
	}
	if !strings.Contains(err.Error(), "schema validation") {
		t.Fatalf("expected schema validation error, got %v", err)
	}
}

func TestDecodeJSONRejectsNonArray(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"type":"paragraph"}`)); err == nil {
		t.Fatalf("expected schema validation failure for non-array payload")
	}
}

func TestDecodeJSONRejectsBadDepth(t *testing.T) {
	if _, err := DecodeJSON([]byte(`[{"type":"heading","depth":9}]`)); err == nil {
		t.Fatalf("expected schema validation failure for depth out of range")
	}
}
