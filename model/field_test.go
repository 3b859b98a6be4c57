package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewField(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f := NewField(FieldText)
		assert.NotEmpty(t, f.ID)
		assert.Equal(t, FieldText, f.Type)
		assert.Equal(t, BilingualText{En: "Text Field"}, f.Label)
		assert.False(t, f.Required)
		assert.Empty(t, f.Options)
	})

	t.Run("choice types start with one option", func(t *testing.T) {
		for _, typ := range []FieldType{FieldCheckbox, FieldRadio, FieldSelect} {
			f := NewField(typ)
			require.Len(t, f.Options, 1, "type %s", typ)
			assert.NoError(t, f.ValidateShape())
		}
	})

	t.Run("ids are opaque and unique", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			id := NewField(FieldText).ID
			assert.False(t, seen[id])
			seen[id] = true
		}
	})
}

func reorderIDs(fields []FieldDefinition) []string {
	ids := make([]string, len(fields))
	for i, f := range fields {
		ids[i] = f.ID
	}
	return ids
}

func TestReorder(t *testing.T) {
	fields := []FieldDefinition{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	t.Run("swap with previous", func(t *testing.T) {
		assert.Equal(t, []string{"b", "a", "c"}, reorderIDs(Reorder(fields, "b", DirectionUp)))
	})

	t.Run("swap with next", func(t *testing.T) {
		assert.Equal(t, []string{"a", "c", "b"}, reorderIDs(Reorder(fields, "b", DirectionDown)))
	})

	t.Run("no-op at the edges", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, reorderIDs(Reorder(fields, "a", DirectionUp)))
		assert.Equal(t, []string{"a", "b", "c"}, reorderIDs(Reorder(fields, "c", DirectionDown)))
	})

	t.Run("no-op on unknown id", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, reorderIDs(Reorder(fields, "nope", DirectionUp)))
	})

	t.Run("single element list unchanged either way", func(t *testing.T) {
		single := []FieldDefinition{{ID: "only"}}
		assert.Equal(t, []string{"only"}, reorderIDs(Reorder(single, "only", DirectionUp)))
		assert.Equal(t, []string{"only"}, reorderIDs(Reorder(single, "only", DirectionDown)))
	})

	t.Run("input is not mutated", func(t *testing.T) {
		Reorder(fields, "b", DirectionUp)
		assert.Equal(t, []string{"a", "b", "c"}, reorderIDs(fields))
	})
}

func TestValidateShape(t *testing.T) {
	t.Run("choice field without options", func(t *testing.T) {
		f := FieldDefinition{ID: "f1", Type: FieldSelect}
		err := f.ValidateShape()
		require.Error(t, err)
		var shapeErr *ShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, "f1", shapeErr.FieldID)
	})

	t.Run("non-choice field with options", func(t *testing.T) {
		f := FieldDefinition{ID: "f2", Type: FieldEmail, Options: []BilingualText{{En: "oops"}}}
		require.Error(t, f.ValidateShape())
	})

	t.Run("unknown type", func(t *testing.T) {
		f := FieldDefinition{ID: "f3", Type: "signature"}
		require.Error(t, f.ValidateShape())
	})

	t.Run("well-formed fields", func(t *testing.T) {
		assert.NoError(t, NewField(FieldText).ValidateShape())
		assert.NoError(t, NewField(FieldRadio).ValidateShape())
	})
}
