package shaping

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Declaration is the YAML form of a registry:
//
//	mappings:
//	  - source: AuthorDto
//	    target: Author
//	    fields:
//	      - external: Age
//	        internal: [DateOfBirth]
//	        reverse: true
type Declaration struct {
	Mappings []MappingDecl `yaml:"mappings"`
}

type MappingDecl struct {
	Source Shape       `yaml:"source"`
	Target Shape       `yaml:"target"`
	Fields []EntryDecl `yaml:"fields"`
}

type EntryDecl struct {
	External string   `yaml:"external"`
	Internal []string `yaml:"internal"`
	Reverse  bool     `yaml:"reverse,omitempty"`
}

// ParseDeclaration decodes a registry declaration. Unknown keys are rejected.
func ParseDeclaration(data []byte) (*Declaration, error) {
	var d Declaration
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return &d, nil
		}
		return nil, fmt.Errorf("%w: parse registry declaration: %v", ErrConfiguration, err)
	}
	return &d, nil
}

// LoadRegistry builds a registry from a YAML declaration.
func LoadRegistry(data []byte) (*Registry, error) {
	d, err := ParseDeclaration(data)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for i, md := range d.Mappings {
		if md.Source == "" || md.Target == "" {
			return nil, fmt.Errorf("%w: mappings[%d]: source and target are required", ErrConfiguration, i)
		}
		entries := make([]Entry, 0, len(md.Fields))
		for _, f := range md.Fields {
			entries = append(entries, Entry{External: f.External, Internal: f.Internal, Reverse: f.Reverse})
		}
		if err := r.Register(md.Source, md.Target, entries...); err != nil {
			return nil, err
		}
	}
	return r, nil
}
