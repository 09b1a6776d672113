package outfmt

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	mode, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Text, mode)

	mode, err = Parse("json")
	require.NoError(t, err)
	assert.Equal(t, JSON, mode)

	_, err = Parse("yaml")
	assert.Error(t, err)
}

func TestModeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Text, ModeFromContext(ctx))
	assert.False(t, IsJSON(ctx))

	ctx = WithMode(ctx, JSON)
	assert.True(t, IsJSON(ctx))
	assert.Equal(t, "json", ModeFromContext(ctx).String())
}

func TestQueryContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetQuery(ctx))
	ctx = WithQuery(ctx, ".name")
	assert.Equal(t, ".name", GetQuery(ctx))
}

func TestApplyQuery(t *testing.T) {
	type course struct {
		Name     string `json:"name"`
		Semester string `json:"semester"`
	}
	courses := []course{
		{Name: "15213-f26", Semester: "f26"},
		{Name: "15410-f26", Semester: "f26"},
	}

	result, err := ApplyQuery(courses, ".[].name")
	require.NoError(t, err)
	assert.Equal(t, []any{"15213-f26", "15410-f26"}, result)

	result, err = ApplyQuery(courses, ".[0].semester")
	require.NoError(t, err)
	assert.Equal(t, "f26", result)
}

func TestApplyQueryEmptyExpression(t *testing.T) {
	result, err := ApplyQuery(map[string]any{"a": 1}, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, result)
}

func TestApplyQueryInvalidExpression(t *testing.T) {
	_, err := ApplyQuery(nil, ".[")
	assert.Error(t, err)
}

func TestNormalizeExpression(t *testing.T) {
	assert.Equal(t, `.[] | select(.done != true)`, NormalizeExpression(`.[] | select(.done \!= true)`))
}

func TestWriteJSONFiltered(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSONFiltered(&buf, map[string]any{"version": 3}, ".version")
	require.NoError(t, err)
	assert.Equal(t, "3\n", buf.String())
}
