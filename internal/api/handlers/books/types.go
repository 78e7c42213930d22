package books

import (
	"strings"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/validate"
)

const (
	maxTitle       = 100
	maxDescription = 500
)

// BookForCreation is the body accepted when a book is created or replaced,
// alone or nested in a new author.
type BookForCreation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// bookForPatch merges into an existing book. Absent members keep their value.
type bookForPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ToBook validates in and returns the book it describes. The author and id
// are left for the caller.
func (in BookForCreation) ToBook() (models.Book, []apperr.FieldError) {
	var errs []apperr.FieldError
	title, fe := validate.Bounded("title", in.Title, 1, maxTitle)
	if fe != nil {
		errs = append(errs, *fe)
	}
	desc, fe := validate.Bounded("description", in.Description, 0, maxDescription)
	if fe != nil {
		errs = append(errs, *fe)
	}
	if title != "" && strings.EqualFold(title, desc) {
		errs = append(errs, apperr.FieldError{
			Field:   "description",
			Code:    "same_as_title",
			Message: "the provided description should be different from the title",
		})
	}
	return models.Book{Title: title, Description: desc}, errs
}

func (p bookForPatch) applyTo(in BookForCreation) BookForCreation {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	return in
}
