package fence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockPrefersJSONFence(t *testing.T) {
	text := "intro\n```\nnot json\n```\nthen\n```json\n{\"a\": 1}\n```\n"
	body, ok := Block(text)
	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, body)
}

func TestBlockGenericFence(t *testing.T) {
	body, ok := Block("```\n{\"a\": 2}\n```")
	require.True(t, ok)
	assert.Equal(t, `{"a": 2}`, body)
}

func TestBlockUnterminatedFence(t *testing.T) {
	_, ok := Block("```json\n{\"a\": 1}")
	assert.False(t, ok)
}

func TestObjectFirstFenceWins(t *testing.T) {
	text := "```json\n{\"price\": 19.99}\n```\nmore\n```json\n{\"price\": 29.99}\n```"
	out, ok := Object(text)
	require.True(t, ok)
	assert.Equal(t, 19.99, out["price"])
}

func TestObjectRawText(t *testing.T) {
	out, ok := Object(`  {"x": "y"}  `)
	require.True(t, ok)
	assert.Equal(t, "y", out["x"])
}

func TestObjectOrMergesOverDefaults(t *testing.T) {
	defaults := map[string]any{"a": 1, "b": "keep"}
	out := ObjectOr("```json\n{\"a\": 2}\n```", defaults)
	assert.Equal(t, float64(2), out["a"])
	assert.Equal(t, "keep", out["b"])

	// defaults untouched
	assert.Equal(t, 1, defaults["a"])
}

func TestObjectOrUnparseableReturnsDefaults(t *testing.T) {
	defaults := map[string]any{"ok": true}
	out := ObjectOr("no json here at all", defaults)
	assert.Equal(t, defaults, out)
}

func TestLastObject(t *testing.T) {
	out, ok := LastObject(`prose... {"ignored": 1} more prose {"trend": "up"}`)
	require.True(t, ok)
	assert.Equal(t, "up", out["trend"])
}

func TestLastObjectNone(t *testing.T) {
	_, ok := LastObject("nothing structured")
	assert.False(t, ok)
}

func TestObjectWithKey(t *testing.T) {
	text := `noise {"other": 1} and {"recommended_price": 42.5, "confidence": 0.8} tail`
	out, ok := ObjectWithKey(text, "recommended_price")
	require.True(t, ok)
	assert.Equal(t, 42.5, out["recommended_price"])
}

func TestObjectWithKeyAbsent(t *testing.T) {
	_, ok := ObjectWithKey(`{"other": 1}`, "recommended_price")
	assert.False(t, ok)
}
