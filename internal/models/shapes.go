package models

import (
	_ "embed"
	"fmt"

	"github.com/5w1tchy/library-api/internal/shaping"
)

const (
	ShapeAuthorDto shaping.Shape = "AuthorDto"
	ShapeAuthor    shaping.Shape = "Author"
)

// AuthorFields is the selectable field table of AuthorDto. Names are the
// JSON keys clients see.
var AuthorFields = shaping.NewDescriptor[AuthorDto]("AuthorDto",
	shaping.Field[AuthorDto]{Name: "id", Get: func(a AuthorDto) shaping.Value { return shaping.StringValue(a.ID.String()) }},
	shaping.Field[AuthorDto]{Name: "name", Get: func(a AuthorDto) shaping.Value { return shaping.StringValue(a.Name) }},
	shaping.Field[AuthorDto]{Name: "age", Get: func(a AuthorDto) shaping.Value { return shaping.IntValue(a.Age) }},
	shaping.Field[AuthorDto]{Name: "genre", Get: func(a AuthorDto) shaping.Value { return shaping.StringValue(a.Genre) }},
)

//go:embed mappings.yaml
var mappingsYAML []byte

// NewRegistry decodes the embedded property mappings and checks that every
// sortable author field is also selectable.
func NewRegistry() (*shaping.Registry, error) {
	reg, err := shaping.LoadRegistry(mappingsYAML)
	if err != nil {
		return nil, err
	}
	m, err := reg.Mapping(ShapeAuthorDto, ShapeAuthor)
	if err != nil {
		return nil, err
	}
	if err := shaping.CheckSortable(m, AuthorFields); err != nil {
		return nil, fmt.Errorf("author mappings: %w", err)
	}
	return reg, nil
}
