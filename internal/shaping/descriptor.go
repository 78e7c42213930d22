package shaping

import "fmt"

// Field is one public field of a shape and its getter.
type Field[T any] struct {
	Name string
	Get  func(T) Value
}

// Descriptor is the static field table of a shape. It replaces runtime
// reflection: only declared fields can be validated, selected or shaped.
type Descriptor[T any] struct {
	name   string
	fields []Field[T]
	index  map[string]int
}

// NewDescriptor declares a shape. Field order is the order used when a
// client asks for all fields. It panics on blank or duplicate names since
// descriptors are package-level declarations.
func NewDescriptor[T any](name string, fields ...Field[T]) *Descriptor[T] {
	d := &Descriptor[T]{name: name, fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		key := foldKey(f.Name)
		if key == "" || f.Get == nil {
			panic(fmt.Sprintf("shaping: %s: field %d is incomplete", name, i))
		}
		if _, dup := d.index[key]; dup {
			panic(fmt.Sprintf("shaping: %s: duplicate field %q", name, f.Name))
		}
		d.index[key] = i
	}
	return d
}

func (d *Descriptor[T]) Name() string { return d.name }

// Fields lists the declared field names in order.
func (d *Descriptor[T]) Fields() []string {
	out := make([]string, len(d.fields))
	for i, f := range d.fields {
		out[i] = f.Name
	}
	return out
}

// Lookup finds a field by name, ignoring case.
func (d *Descriptor[T]) Lookup(name string) (Field[T], bool) {
	i, ok := d.index[foldKey(name)]
	if !ok {
		return Field[T]{}, false
	}
	return d.fields[i], true
}

// resolve turns a fields list into the getters to run. Blank selects every
// field; repeated names keep their first position.
func (d *Descriptor[T]) resolve(fields string) ([]Field[T], error) {
	if isBlank(fields) {
		return d.fields, nil
	}
	tokens := splitList(fields)
	out := make([]Field[T], 0, len(tokens))
	seen := make(map[int]struct{}, len(tokens))
	for _, tok := range tokens {
		i, ok := d.index[foldKey(tok)]
		if !ok {
			return nil, &FieldNotFoundError{Field: tok, Shape: d.name}
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, d.fields[i])
	}
	return out, nil
}

// TypeHasFields reports whether every token of fields names a field of the
// shape. Blank input is valid.
func TypeHasFields[T any](d *Descriptor[T], fields string) bool {
	if isBlank(fields) {
		return true
	}
	for _, tok := range splitList(fields) {
		if _, ok := d.index[foldKey(tok)]; !ok {
			return false
		}
	}
	return true
}

// CheckSortable fails when an external name of m is not a field of d, so
// every sort key a client may send is also a field it can select.
func CheckSortable[T any](m Mapping, d *Descriptor[T]) error {
	var missing []string
	for _, name := range m.Names() {
		if _, ok := d.Lookup(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: sort keys %v are not fields of %s", ErrConfiguration, missing, d.name)
	}
	return nil
}
