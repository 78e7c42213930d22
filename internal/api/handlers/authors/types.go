package authors

import (
	"strconv"
	"time"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/handlers/books"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/validate"
)

const maxNameLen = 50

// authorForCreation is the body of application/vnd.library.author.full+json
// and plain application/json.
type authorForCreation struct {
	FirstName   string                  `json:"firstName"`
	LastName    string                  `json:"lastName"`
	DateOfBirth time.Time               `json:"dateOfBirth"`
	Genre       string                  `json:"genre"`
	Books       []books.BookForCreation `json:"books,omitempty"`
}

// authorWithDeathForCreation is the body of
// application/vnd.library.authorwithdateofdeath.full+json.
type authorWithDeathForCreation struct {
	authorForCreation
	DateOfDeath *time.Time `json:"dateOfDeath"`
}

// toAuthor validates the body and builds the entity. Dates after now are
// rejected.
func (in authorWithDeathForCreation) toAuthor(now time.Time) (models.Author, []apperr.FieldError) {
	var errs []apperr.FieldError
	bounded := func(field, s string) string {
		v, fe := validate.Bounded(field, s, 1, maxNameLen)
		if fe != nil {
			errs = append(errs, *fe)
		}
		return v
	}

	a := models.Author{
		FirstName:   bounded("firstName", in.FirstName),
		LastName:    bounded("lastName", in.LastName),
		Genre:       bounded("genre", in.Genre),
		DateOfBirth: in.DateOfBirth,
		DateOfDeath: in.DateOfDeath,
	}

	switch {
	case in.DateOfBirth.IsZero():
		errs = append(errs, apperr.FieldError{Field: "dateOfBirth", Code: "required", Message: "dateOfBirth is required"})
	case in.DateOfBirth.After(now):
		errs = append(errs, apperr.FieldError{Field: "dateOfBirth", Code: "future", Message: "dateOfBirth cannot be in the future"})
	}
	if d := in.DateOfDeath; d != nil {
		if d.Before(in.DateOfBirth) {
			errs = append(errs, apperr.FieldError{Field: "dateOfDeath", Code: "before_birth", Message: "dateOfDeath must not precede dateOfBirth"})
		}
		if d.After(now) {
			errs = append(errs, apperr.FieldError{Field: "dateOfDeath", Code: "future", Message: "dateOfDeath cannot be in the future"})
		}
	}

	for i, b := range in.Books {
		book, bookErrs := b.ToBook()
		for _, fe := range bookErrs {
			fe.Field = "books[" + strconv.Itoa(i) + "]." + fe.Field
			errs = append(errs, fe)
		}
		a.Books = append(a.Books, book)
	}
	return a, errs
}
