package shaping

import "iter"

// ShapeAll projects every element of seq onto the requested fields. The field
// list is resolved before iteration starts, so an unknown field fails the
// whole call and nothing is yielded.
func ShapeAll[T any](seq iter.Seq[T], d *Descriptor[T], fields string) (iter.Seq[Record], error) {
	selected, err := d.resolve(fields)
	if err != nil {
		return nil, err
	}
	return func(yield func(Record) bool) {
		for item := range seq {
			if !yield(project(item, selected)) {
				return
			}
		}
	}, nil
}

// ShapeOne projects a single element.
func ShapeOne[T any](item T, d *Descriptor[T], fields string) (Record, error) {
	selected, err := d.resolve(fields)
	if err != nil {
		return Record{}, err
	}
	return project(item, selected), nil
}

func project[T any](item T, selected []Field[T]) Record {
	r := Record{fields: make([]field, 0, len(selected))}
	for _, f := range selected {
		r.fields = append(r.fields, field{name: f.Name, value: f.Get(item)})
	}
	return r
}
