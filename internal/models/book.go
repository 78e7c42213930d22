package models

import "github.com/google/uuid"

type Book struct {
	ID          uuid.UUID
	Title       string
	Description string
	AuthorID    uuid.UUID
}

// BookDto is the public shape of a book.
type BookDto struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorID    uuid.UUID `json:"authorId"`
}

func ToBookDto(b Book) BookDto {
	return BookDto{ID: b.ID, Title: b.Title, Description: b.Description, AuthorID: b.AuthorID}
}

func ToBookDtos(bs []Book) []BookDto {
	out := make([]BookDto, len(bs))
	for i, b := range bs {
		out[i] = ToBookDto(b)
	}
	return out
}
