package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"electa/internal/core/entity"
	"electa/internal/core/id"
)

type mockCatalog struct {
	entity.Base
	Code     string  `db:"code" json:"code"`
	Name     string  `db:"name" json:"name"`
	Note     *string `db:"note" json:"note,omitempty"`
	Derived  []id.ID `db:"-" json:"derived"`
	internal string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{
		"id", "version", "created_at", "updated_at", "code", "name", "note",
	}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}

	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "internal")
	assert.Len(t, cols, len(expectedCols))
}

func TestExtractDBColumns_Pointer(t *testing.T) {
	assert.Equal(t, ExtractDBColumns[mockCatalog](), ExtractDBColumns[*mockCatalog]())
}

func TestStructToMap(t *testing.T) {
	note := "evening slot"
	cat := mockCatalog{
		Base: entity.NewBase(),
		Code: "CS101",
		Name: "Intro to Go",
		Note: &note,
		Derived: []id.ID{id.New()},
	}
	cat.Version = 5

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, cat.CreatedAt, m["created_at"])
	assert.Equal(t, cat.UpdatedAt, m["updated_at"])
	assert.Equal(t, "CS101", m["code"])
	assert.Equal(t, "Intro to Go", m["name"])
	assert.Equal(t, &note, m["note"])

	_, hasDerived := m["derived"]
	assert.False(t, hasDerived, "untagged derived field must not be persisted")
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
