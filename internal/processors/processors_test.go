package processors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docpipe/internal/document"
	"docpipe/internal/pipeline"
	apperrors "docpipe/pkg/errors"
)

func testDoc(t *testing.T, source map[string]interface{}) *document.Document {
	t.Helper()
	return document.New("idx", "_doc", "1", source)
}

func build(t *testing.T, factory pipeline.Factory, config map[string]interface{}) pipeline.Processor {
	t.Helper()
	p, err := factory.Create(config)
	require.NoError(t, err)
	return p
}

func TestSetProcessor(t *testing.T) {
	t.Run("sets a literal value", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{})
		p := build(t, NewSetFactory(), map[string]interface{}{
			"field": "env",
			"value": "prod",
		})

		require.NoError(t, p.Apply(context.Background(), doc))
		v, err := doc.GetFieldValue("env")
		require.NoError(t, err)
		assert.Equal(t, "prod", v)
	})

	t.Run("templated field and value", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{
			"kind": "audit",
			"user": map[string]interface{}{"name": "alice"},
		})
		p := build(t, NewSetFactory(), map[string]interface{}{
			"field": "by_{{kind}}",
			"value": "{{user.name}}",
		})

		require.NoError(t, p.Apply(context.Background(), doc))
		v, err := doc.GetFieldValue("by_audit")
		require.NoError(t, err)
		assert.Equal(t, "alice", v)
	})

	t.Run("single-placeholder value keeps structure", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{
			"user": map[string]interface{}{"name": "alice"},
		})
		p := build(t, NewSetFactory(), map[string]interface{}{
			"field": "copy",
			"value": "{{user}}",
		})

		require.NoError(t, p.Apply(context.Background(), doc))
		v, err := doc.GetFieldValue("copy.name")
		require.NoError(t, err)
		assert.Equal(t, "alice", v)

		// the copy is detached from the original
		require.NoError(t, doc.SetFieldValue("user.name", "bob"))
		v, err = doc.GetFieldValue("copy.name")
		require.NoError(t, err)
		assert.Equal(t, "alice", v)
	})

	t.Run("missing field property", func(t *testing.T) {
		_, err := NewSetFactory().Create(map[string]interface{}{"value": 1})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrMissingConfig)
		assert.EqualError(t, err, "required property [field] is missing")
	})

	t.Run("missing value property", func(t *testing.T) {
		_, err := NewSetFactory().Create(map[string]interface{}{"field": "x"})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrMissingConfig)
		assert.EqualError(t, err, "required property [value] is missing")
	})
}

func TestAppendProcessor(t *testing.T) {
	doc := testDoc(t, map[string]interface{}{"tags": "first"})
	p := build(t, NewAppendFactory(), map[string]interface{}{
		"field": "tags",
		"value": "second",
	})

	require.NoError(t, p.Apply(context.Background(), doc))
	v, err := doc.GetFieldValue("tags")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"first", "second"}, v)
}

func TestRemoveProcessor(t *testing.T) {
	t.Run("removes an existing field", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{"secret": "x", "keep": 1})
		p := build(t, NewRemoveFactory(), map[string]interface{}{"field": "secret"})

		require.NoError(t, p.Apply(context.Background(), doc))
		assert.False(t, doc.HasField("secret"))
		assert.True(t, doc.HasField("keep"))
	})

	t.Run("missing field fails", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{})
		p := build(t, NewRemoveFactory(), map[string]interface{}{"field": "nope"})

		err := p.Apply(context.Background(), doc)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrFieldNotFound)
	})
}

func TestRenameProcessor(t *testing.T) {
	t.Run("moves the value", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{"old": "v"})
		p := build(t, NewRenameFactory(), map[string]interface{}{
			"field": "old",
			"to":    "new",
		})

		require.NoError(t, p.Apply(context.Background(), doc))
		assert.False(t, doc.HasField("old"))
		v, err := doc.GetFieldValue("new")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})

	t.Run("refuses to overwrite the target", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{"old": 1, "new": 2})
		p := build(t, NewRenameFactory(), map[string]interface{}{
			"field": "old",
			"to":    "new",
		})

		err := p.Apply(context.Background(), doc)
		require.Error(t, err)
		assert.EqualError(t, err, "field [new] already exists, cannot rename [old] onto it")
	})
}

func TestCaseProcessors(t *testing.T) {
	t.Run("uppercase", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{"greeting": "hello"})
		p := build(t, NewUppercaseFactory(), map[string]interface{}{"field": "greeting"})

		require.NoError(t, p.Apply(context.Background(), doc))
		v, err := doc.GetFieldValue("greeting")
		require.NoError(t, err)
		assert.Equal(t, "HELLO", v)
	})

	t.Run("lowercase", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{"greeting": "HELLO"})
		p := build(t, NewLowercaseFactory(), map[string]interface{}{"field": "greeting"})

		require.NoError(t, p.Apply(context.Background(), doc))
		v, err := doc.GetFieldValue("greeting")
		require.NoError(t, err)
		assert.Equal(t, "hello", v)
	})

	t.Run("null field fails", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{"greeting": nil})
		p := build(t, NewUppercaseFactory(), map[string]interface{}{"field": "greeting"})

		err := p.Apply(context.Background(), doc)
		require.Error(t, err)
		assert.EqualError(t, err, "field [greeting] is null, cannot be processed")
	})

	t.Run("non-string field fails", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{"greeting": 5})
		p := build(t, NewUppercaseFactory(), map[string]interface{}{"field": "greeting"})

		err := p.Apply(context.Background(), doc)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrTypeMismatch)
	})

	t.Run("missing field property", func(t *testing.T) {
		_, err := NewUppercaseFactory().Create(map[string]interface{}{})
		require.Error(t, err)
		assert.EqualError(t, err, "required property [field] is missing")
	})
}

func TestSplitProcessor(t *testing.T) {
	doc := testDoc(t, map[string]interface{}{"csv": "a,b,c"})
	p := build(t, NewSplitFactory(), map[string]interface{}{
		"field":     "csv",
		"separator": ",",
	})

	require.NoError(t, p.Apply(context.Background(), doc))
	v, err := doc.GetFieldValue("csv")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", "b", "c"}, v)
}

func TestJoinProcessor(t *testing.T) {
	doc := testDoc(t, map[string]interface{}{
		"parts": []interface{}{"a", "b", 3},
	})
	p := build(t, NewJoinFactory(), map[string]interface{}{
		"field":     "parts",
		"separator": "-",
	})

	require.NoError(t, p.Apply(context.Background(), doc))
	v, err := doc.GetFieldValue("parts")
	require.NoError(t, err)
	assert.Equal(t, "a-b-3", v)
}

func TestTransformProcessor(t *testing.T) {
	t.Run("evaluates against the source", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{
			"first": "jane",
			"last":  "doe",
		})
		p := build(t, NewTransformFactory(), map[string]interface{}{
			"expression":   `source.first + " " + source.last`,
			"target_field": "full_name",
		})

		require.NoError(t, p.Apply(context.Background(), doc))
		v, err := doc.GetFieldValue("full_name")
		require.NoError(t, err)
		assert.Equal(t, "jane doe", v)
	})

	t.Run("reads ingest metadata", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{})
		p := build(t, NewTransformFactory(), map[string]interface{}{
			"expression":   `ingest.timestamp != ""`,
			"target_field": "has_timestamp",
		})

		require.NoError(t, p.Apply(context.Background(), doc))
		v, err := doc.GetFieldValue("has_timestamp")
		require.NoError(t, err)
		assert.Equal(t, true, v)
	})

	t.Run("invalid expression fails at build time", func(t *testing.T) {
		_, err := NewTransformFactory().Create(map[string]interface{}{
			"expression":   "this is not CEL !!!",
			"target_field": "x",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidConfigValue)
	})

	t.Run("evaluation error is reported per document", func(t *testing.T) {
		doc := testDoc(t, map[string]interface{}{})
		p := build(t, NewTransformFactory(), map[string]interface{}{
			"expression":   `source.missing_field == "x"`,
			"target_field": "x",
		})

		err := p.Apply(context.Background(), doc)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInternal)
	})
}

func TestRegisterAll(t *testing.T) {
	t.Run("without lookup providers", func(t *testing.T) {
		reg := pipeline.NewRegistry()
		RegisterAll(reg, nil)
		assert.Equal(t, []string{
			"append", "join", "lowercase", "remove", "rename",
			"set", "split", "transform", "uppercase",
		}, reg.Types())
	})

	t.Run("with lookup providers", func(t *testing.T) {
		reg := pipeline.NewRegistry()
		RegisterAll(reg, testProviders())
		assert.Contains(t, reg.Types(), "lookup")
	})
}
