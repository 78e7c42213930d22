package models

import (
	"time"

	"github.com/google/uuid"
)

// Author is the storage entity behind /api/authors.
type Author struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	DateOfDeath *time.Time
	Genre       string
	Books       []Book
}

// AuthorDto is the public shape of an author.
type AuthorDto struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Age   int       `json:"age"`
	Genre string    `json:"genre"`
}

// ToAuthorDto projects a into its public shape; now is used for the age of
// living authors.
func ToAuthorDto(a Author, now time.Time) AuthorDto {
	return AuthorDto{
		ID:    a.ID,
		Name:  a.FirstName + " " + a.LastName,
		Age:   CurrentAge(a.DateOfBirth, a.DateOfDeath, now),
		Genre: a.Genre,
	}
}

// CurrentAge returns whole years between born and death, or now when the
// author is alive.
func CurrentAge(born time.Time, death *time.Time, now time.Time) int {
	end := now
	if death != nil {
		end = *death
	}
	end = end.In(born.Location())
	age := end.Year() - born.Year()
	if end.Month() < born.Month() || (end.Month() == born.Month() && end.Day() < born.Day()) {
		age--
	}
	return max(age, 0)
}
