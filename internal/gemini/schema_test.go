package gemini

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestSchemaValidate_AcceptsMatchingObject(t *testing.T) {
	schema := Object(map[string]*Schema{
		"keyword":     String(),
		"competition": Integer(),
		"tags":        Array(String()),
	}, "keyword", "competition")

	v := decode(t, `{"keyword": "go tutorials", "competition": 42, "tags": ["go", "golang"]}`)
	assert.NoError(t, schema.Validate(v))
}

func TestSchemaValidate_ToleratesUnknownFields(t *testing.T) {
	schema := Object(map[string]*Schema{"keyword": String()}, "keyword")

	v := decode(t, `{"keyword": "x", "extra": true}`)
	assert.NoError(t, schema.Validate(v))
}

func TestSchemaValidate_MissingRequiredField(t *testing.T) {
	schema := Object(map[string]*Schema{
		"keyword":  String(),
		"strength": Integer(),
	}, "keyword", "strength")

	v := decode(t, `{"keyword": "x"}`)
	err := schema.Validate(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strength")
}

func TestSchemaValidate_NullRequiredField(t *testing.T) {
	schema := Object(map[string]*Schema{"keyword": String()}, "keyword")

	v := decode(t, `{"keyword": null}`)
	assert.Error(t, schema.Validate(v))
}

func TestSchemaValidate_TypeMismatch(t *testing.T) {
	schema := Object(map[string]*Schema{"competition": Integer()}, "competition")

	v := decode(t, `{"competition": "high"}`)
	err := schema.Validate(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "competition")
}

func TestSchemaValidate_ArrayItemMismatch(t *testing.T) {
	schema := Array(Object(map[string]*Schema{"topic": String()}, "topic"))

	v := decode(t, `[{"topic": "a"}, {"topic": 7}]`)
	err := schema.Validate(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[1]")
}

func TestDecodeJSON_InvalidJSONIsMalformed(t *testing.T) {
	var out struct{}
	err := DecodeJSON("this is not json", Object(nil), &out)
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestDecodeJSON_SchemaViolationIsMalformed(t *testing.T) {
	schema := Object(map[string]*Schema{"score": Integer()}, "score")

	var out struct {
		Score int `json:"score"`
	}
	err := DecodeJSON(`{"score": "perfect"}`, schema, &out)
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestDecodeJSON_ValidPayloadDecodes(t *testing.T) {
	schema := Object(map[string]*Schema{
		"score":    Integer(),
		"critique": String(),
	}, "score", "critique")

	var out struct {
		Score    int    `json:"score"`
		Critique string `json:"critique"`
	}
	require.NoError(t, DecodeJSON(`{"score": 88, "critique": "bolder text"}`, schema, &out))
	assert.Equal(t, 88, out.Score)
	assert.Equal(t, "bolder text", out.Critique)
}
