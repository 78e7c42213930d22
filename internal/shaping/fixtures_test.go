package shaping

import (
	"strings"
	"time"
)

type person struct {
	ID        int
	FirstName string
	LastName  string
	Born      time.Time
	Genre     string
}

type personDto struct {
	Id    int
	Name  string
	Age   int
	Genre string
}

var personDtoShape = NewDescriptor[personDto]("personDto",
	Field[personDto]{Name: "Id", Get: func(p personDto) Value { return IntValue(p.Id) }},
	Field[personDto]{Name: "Name", Get: func(p personDto) Value { return StringValue(p.Name) }},
	Field[personDto]{Name: "Age", Get: func(p personDto) Value { return IntValue(p.Age) }},
	Field[personDto]{Name: "Genre", Get: func(p personDto) Value { return StringValue(p.Genre) }},
)

var personFields = map[string]Comparator[person]{
	"Id":        CompareBy(func(p person) int { return p.ID }),
	"FirstName": CompareBy(func(p person) string { return p.FirstName }),
	"LastName":  CompareBy(func(p person) string { return p.LastName }),
	"Born":      CompareTime(func(p person) time.Time { return p.Born }),
	"Genre":     CompareBy(func(p person) string { return p.Genre }),
}

func personEntries() []Entry {
	return []Entry{
		{External: "Id", Internal: []string{"Id"}},
		{External: "Genre", Internal: []string{"Genre"}},
		{External: "Age", Internal: []string{"Born"}, Reverse: true},
		{External: "Name", Internal: []string{"FirstName", "LastName"}},
	}
}

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// people returns a fixed population with some ties on FirstName and Genre.
func people() []person {
	return []person{
		{ID: 1, FirstName: "Ann", LastName: "Zed", Born: date(1980, 1, 1), Genre: "Fantasy"},
		{ID: 2, FirstName: "Ann", LastName: "Bee", Born: date(1990, 1, 1), Genre: "Horror"},
		{ID: 3, FirstName: "Carl", LastName: "Ames", Born: date(1970, 1, 1), Genre: "Fantasy"},
		{ID: 4, FirstName: "Bob", LastName: "Ames", Born: date(2000, 1, 1), Genre: "Horror"},
	}
}

type ordering struct {
	field string
	desc  bool
}

// recorder captures ThenBy calls.
type recorder struct{ steps []ordering }

func (r recorder) ThenBy(field string, desc bool) recorder {
	r.steps = append(append([]ordering(nil), r.steps...), ordering{field, desc})
	return r
}

func names(ps []person) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.FirstName + " " + p.LastName
	}
	return strings.Join(out, ", ")
}
