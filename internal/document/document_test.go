package document

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "docpipe/pkg/errors"
)

func testDocument() *Document {
	return New("idx", "_doc", "1", map[string]interface{}{
		"foo": "bar",
		"user": map[string]interface{}{
			"name": "alice",
			"tags": []interface{}{"a", "b", "c"},
		},
		"count": 42,
		"empty": nil,
	})
}

func TestNewSeedsSystemFieldsAndTimestamp(t *testing.T) {
	doc := testDocument()

	index, err := Get[string](doc, "_index")
	require.NoError(t, err)
	assert.Equal(t, "idx", index)

	docType, err := Get[string](doc, "_type")
	require.NoError(t, err)
	assert.Equal(t, "_doc", docType)

	id, err := Get[string](doc, "_id")
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	ts, err := Get[string](doc, "_ingest.timestamp")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}[+-]\d{2}:\d{2}$`), ts)
}

func TestGetFieldValue(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name string
		path string
		want interface{}
	}{
		{name: "top level field", path: "foo", want: "bar"},
		{name: "nested map field", path: "user.name", want: "alice"},
		{name: "list element", path: "user.tags.1", want: "b"},
		{name: "source prefix alias", path: "_source.user.name", want: "alice"},
		{name: "null field resolves to nil", path: "empty", want: nil},
		{name: "system field", path: "_index", want: "idx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := doc.GetFieldValue(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetFieldValueErrors(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name     string
		path     string
		wantCode error
		wantMsg  string
	}{
		{
			name:     "empty path",
			path:     "",
			wantCode: apperrors.ErrInvalidPath,
			wantMsg:  "path cannot be empty",
		},
		{
			name:     "missing field",
			path:     "nope",
			wantCode: apperrors.ErrFieldNotFound,
			wantMsg:  "field [nope] not present as part of path [nope]",
		},
		{
			name:     "missing nested field",
			path:     "user.age",
			wantCode: apperrors.ErrFieldNotFound,
			wantMsg:  "field [age] not present as part of path [user.age]",
		},
		{
			name:     "non-integer list index",
			path:     "user.tags.first",
			wantCode: apperrors.ErrInvalidIndex,
			wantMsg:  "[first] is not an integer, cannot be used as an index as part of path [user.tags.first]",
		},
		{
			name:     "index out of bounds",
			path:     "user.tags.7",
			wantCode: apperrors.ErrIndexOutOfBounds,
			wantMsg:  "[7] is out of bounds for array with length [3] as part of path [user.tags.7]",
		},
		{
			name:     "traverse through scalar",
			path:     "foo.bar",
			wantCode: apperrors.ErrNotTraversable,
			wantMsg:  "cannot resolve [bar] from object of type [string] as part of path [foo.bar]",
		},
		{
			name:     "traverse through null",
			path:     "empty.inner",
			wantCode: apperrors.ErrNotTraversable,
			wantMsg:  "cannot resolve [inner] from null as part of path [empty.inner]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := doc.GetFieldValue(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantCode)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestGetTypedCast(t *testing.T) {
	doc := testDocument()

	name, err := Get[string](doc, "user.name")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	count, err := Get[int](doc, "count")
	require.NoError(t, err)
	assert.Equal(t, 42, count)

	// nil casts to the zero value of any type
	empty, err := Get[string](doc, "empty")
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	_, err = Get[int](doc, "user.name")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTypeMismatch)
	assert.EqualError(t, err, "field [user.name] of type [string] cannot be cast to [int]")
}

func TestHasField(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing top level", path: "foo", want: true},
		{name: "existing nested", path: "user.name", want: true},
		{name: "existing list element", path: "user.tags.0", want: true},
		{name: "null field exists", path: "empty", want: true},
		{name: "ingest timestamp", path: "_ingest.timestamp", want: true},
		{name: "missing field", path: "nope", want: false},
		{name: "missing nested", path: "user.age", want: false},
		{name: "index out of bounds", path: "user.tags.9", want: false},
		{name: "non-integer index", path: "user.tags.x", want: false},
		{name: "through scalar", path: "foo.bar", want: false},
		{name: "empty path", path: "", want: false},
		{name: "missing ingest field", path: "_ingest.nope", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.HasField(tt.path))
		})
	}
}

func TestSetFieldValue(t *testing.T) {
	t.Run("overwrite existing", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.SetFieldValue("foo", "baz"))

		v, err := doc.GetFieldValue("foo")
		require.NoError(t, err)
		assert.Equal(t, "baz", v)
	})

	t.Run("creates missing intermediate maps", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.SetFieldValue("a.b.c", 1))

		v, err := doc.GetFieldValue("a.b.c")
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	t.Run("replaces list element in place", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.SetFieldValue("user.tags.1", "x"))

		v, err := doc.GetFieldValue("user.tags")
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"a", "x", "c"}, v)
	})

	t.Run("does not extend list", func(t *testing.T) {
		doc := testDocument()
		err := doc.SetFieldValue("user.tags.3", "d")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrIndexOutOfBounds)
	})

	t.Run("cannot set through scalar", func(t *testing.T) {
		doc := testDocument()
		err := doc.SetFieldValue("foo.inner", 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotTraversable)
	})

	t.Run("set ingest metadata value", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.SetFieldValue("_ingest.run", "r1"))
		assert.Equal(t, "r1", doc.IngestMetadata()["run"])
	})

	t.Run("ingest metadata rejects non-string", func(t *testing.T) {
		doc := testDocument()
		err := doc.SetFieldValue("_ingest.run", 5)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrTypeMismatch)
	})
}

func TestAppendFieldValue(t *testing.T) {
	t.Run("append to existing list preserves order", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.AppendFieldValue("user.tags", "d"))

		v, err := doc.GetFieldValue("user.tags")
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"a", "b", "c", "d"}, v)
	})

	t.Run("scalar coerced into singleton list", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.AppendFieldValue("foo", "qux"))

		v, err := doc.GetFieldValue("foo")
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"bar", "qux"}, v)
	})

	t.Run("missing field becomes list", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.AppendFieldValue("things", "one"))

		v, err := doc.GetFieldValue("things")
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"one"}, v)
	})

	t.Run("list value appends element by element", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.AppendFieldValue("user.tags", []interface{}{"d", "e"}))

		v, err := doc.GetFieldValue("user.tags")
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"a", "b", "c", "d", "e"}, v)
	})

	t.Run("repeated appends grow in order", func(t *testing.T) {
		doc := testDocument()
		for _, v := range []string{"one", "two", "three"} {
			require.NoError(t, doc.AppendFieldValue("seq", v))
		}

		got, err := doc.GetFieldValue("seq")
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"one", "two", "three"}, got)
	})

	t.Run("creates missing intermediate maps", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.AppendFieldValue("a.b", 1))

		v, err := doc.GetFieldValue("a.b")
		require.NoError(t, err)
		assert.Equal(t, []interface{}{1}, v)
	})

	t.Run("append to ingest metadata fails", func(t *testing.T) {
		doc := testDocument()
		err := doc.AppendFieldValue("_ingest.timestamp", "x")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotTraversable)
	})
}

func TestRemoveField(t *testing.T) {
	t.Run("remove map key", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.RemoveField("user.name"))
		assert.False(t, doc.HasField("user.name"))
		assert.True(t, doc.HasField("user.tags"))
	})

	t.Run("remove list element shifts later indices", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.RemoveField("user.tags.1"))

		v, err := doc.GetFieldValue("user.tags")
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"a", "c"}, v)
	})

	t.Run("missing field fails", func(t *testing.T) {
		doc := testDocument()
		err := doc.RemoveField("nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrFieldNotFound)
		assert.EqualError(t, err, "field [nope] not present as part of path [nope]")
	})

	t.Run("out of bounds index fails", func(t *testing.T) {
		doc := testDocument()
		err := doc.RemoveField("user.tags.9")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrIndexOutOfBounds)
	})

	t.Run("remove ingest metadata field", func(t *testing.T) {
		doc := testDocument()
		require.NoError(t, doc.SetFieldValue("_ingest.run", "r1"))
		require.NoError(t, doc.RemoveField("_ingest.run"))
		assert.False(t, doc.HasField("_ingest.run"))
	})
}

func TestExtractMetadata(t *testing.T) {
	doc := testDocument()

	metadata, err := doc.ExtractMetadata()
	require.NoError(t, err)
	assert.Equal(t, "idx", metadata[MetadataIndex])
	assert.Equal(t, "_doc", metadata[MetadataType])
	assert.Equal(t, "1", metadata[MetadataID])
	assert.Equal(t, "", metadata[MetadataRouting])

	// extraction is destructive: the fields are gone from the source map
	assert.False(t, doc.HasField("_index"))
	assert.False(t, doc.HasField("_id"))
	_, err = doc.GetFieldValue("_index")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFieldNotFound)

	// a second extraction yields only empty values
	again, err := doc.ExtractMetadata()
	require.NoError(t, err)
	for _, m := range AllMetadata() {
		assert.Equal(t, "", again[m])
	}
}

func TestExtractMetadataNonStringFails(t *testing.T) {
	doc := NewWithMetadata(map[string]interface{}{
		"_index": 7,
	}, nil)

	_, err := doc.ExtractMetadata()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTypeMismatch)
}

func TestFromDocumentIsolation(t *testing.T) {
	original := testDocument()
	clone := FromDocument(original)

	require.NoError(t, clone.SetFieldValue("user.name", "bob"))
	require.NoError(t, clone.SetFieldValue("_ingest.run", "r1"))

	name, err := Get[string](original, "user.name")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
	assert.False(t, original.HasField("_ingest.run"))
}

func TestTemplateModelIsSnapshot(t *testing.T) {
	doc := testDocument()
	model := doc.TemplateModel()

	// mutating the model must not touch the document
	model["user"].(map[string]interface{})["name"] = "mallory"

	name, err := Get[string](doc, "user.name")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	// _source points at the same snapshot as the top-level entries
	assert.Equal(t, model["user"], model[SourceKey].(map[string]interface{})["user"])

	ingest, ok := model[IngestKey].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, ingest, "timestamp")
}

func TestRenderTemplate(t *testing.T) {
	doc := testDocument()

	tmpl, err := ParseTemplate("{{user.name}} has {{user.tags.0}}")
	require.NoError(t, err)

	out, err := doc.RenderTemplate(tmpl)
	require.NoError(t, err)
	assert.Equal(t, "alice has a", out)
}
