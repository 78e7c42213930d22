// Package links builds hypermedia links for HATEOAS responses.
package links

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/5w1tchy/library-api/internal/shaping"
)

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// BaseURL returns scheme://host of the request, honouring X-Forwarded-Proto.
func BaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}

func AuthorURL(r *http.Request, id uuid.UUID) string {
	return BaseURL(r) + "/api/authors/" + id.String()
}

func BooksURL(r *http.Request, authorID uuid.UUID) string {
	return AuthorURL(r, authorID) + "/books"
}

func BookURL(r *http.Request, authorID, id uuid.UUID) string {
	return BooksURL(r, authorID) + "/" + id.String()
}

// ForAuthor returns the links of one author resource. fields is carried
// into the self link so it reproduces the same shape.
func ForAuthor(r *http.Request, id uuid.UUID, fields string) []Link {
	self := AuthorURL(r, id)
	if fields != "" {
		self += "?" + url.Values{"fields": {fields}}.Encode()
	}
	return []Link{
		{Href: self, Rel: "self", Method: http.MethodGet},
		{Href: AuthorURL(r, id), Rel: "delete_author", Method: http.MethodDelete},
		{Href: BooksURL(r, id), Rel: "create_book_for_author", Method: http.MethodPost},
		{Href: BooksURL(r, id), Rel: "get_books_for_author", Method: http.MethodGet},
	}
}

// PageURL rebuilds the current collection URL for another page number.
func PageURL(r *http.Request, page int) string {
	q := r.URL.Query()
	q.Set("pageNumber", strconv.Itoa(page))
	return BaseURL(r) + r.URL.Path + "?" + q.Encode()
}

// ForCollection returns self plus previous/next page links when they exist.
func ForCollection[T any](r *http.Request, p shaping.Page[T]) []Link {
	out := []Link{{Href: PageURL(r, p.CurrentPage), Rel: "self", Method: http.MethodGet}}
	if p.HasNext() {
		out = append(out, Link{Href: PageURL(r, p.CurrentPage+1), Rel: "nextPage", Method: http.MethodGet})
	}
	if p.HasPrevious() {
		out = append(out, Link{Href: PageURL(r, p.CurrentPage-1), Rel: "previousPage", Method: http.MethodGet})
	}
	return out
}

// ForRoot returns the entry points of the API.
func ForRoot(r *http.Request) []Link {
	base := BaseURL(r) + "/api"
	return []Link{
		{Href: base, Rel: "self", Method: http.MethodGet},
		{Href: base + "/authors", Rel: "authors", Method: http.MethodGet},
		{Href: base + "/authors", Rel: "create_author", Method: http.MethodPost},
	}
}

// Resource is a shaped record with its links appended under "links".
type Resource struct {
	Record shaping.Record
	Links  []Link
}

func (res Resource) MarshalJSON() ([]byte, error) {
	body, err := res.Record.MarshalJSON()
	if err != nil {
		return nil, err
	}
	ls, err := json.Marshal(res.Links)
	if err != nil {
		return nil, err
	}
	out := body[:len(body)-1]
	if res.Record.Len() > 0 {
		out = append(out, ',')
	}
	out = append(out, `"links":`...)
	out = append(out, ls...)
	return append(out, '}'), nil
}

// Collection is the HATEOAS envelope of a shaped collection.
type Collection struct {
	Value []Resource `json:"value"`
	Links []Link     `json:"links"`
}

// ForBook returns the links of one book resource.
func ForBook(r *http.Request, authorID, id uuid.UUID) []Link {
	self := BookURL(r, authorID, id)
	return []Link{
		{Href: self, Rel: "self", Method: http.MethodGet},
		{Href: self, Rel: "delete_book", Method: http.MethodDelete},
		{Href: self, Rel: "update_book", Method: http.MethodPut},
		{Href: self, Rel: "partially_update_book", Method: http.MethodPatch},
	}
}

// ForBooks returns the links of an author's book collection.
func ForBooks(r *http.Request, authorID uuid.UUID) []Link {
	return []Link{
		{Href: BooksURL(r, authorID), Rel: "self", Method: http.MethodGet},
		{Href: BooksURL(r, authorID), Rel: "create_book_for_author", Method: http.MethodPost},
	}
}
