package shaping

import (
	"bytes"
	"encoding/json"
)

type field struct {
	name  string
	value Value
}

// Record is an ordered name → Value map produced by the shaper.
// JSON encoding keeps the insertion order.
type Record struct {
	fields []field
}

// Set adds name or replaces its value in place.
func (r *Record) Set(name string, v Value) {
	for i := range r.fields {
		if r.fields[i].name == name {
			r.fields[i].value = v
			return
		}
	}
	r.fields = append(r.fields, field{name: name, value: v})
}

func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return Value{}, false
}

func (r Record) Keys() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.name
	}
	return out
}

func (r Record) Len() int { return len(r.fields) }

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := f.value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
