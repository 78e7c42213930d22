package authors

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/links"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/shaping"
	"github.com/5w1tchy/library-api/internal/store/authors"
	"github.com/5w1tchy/library-api/internal/validate"
)

const defaultOrderBy = "Name"

type paginationHeader struct {
	TotalCount       int    `json:"totalCount"`
	PageSize         int    `json:"pageSize"`
	CurrentPage      int    `json:"currentPage"`
	TotalPages       int    `json:"totalPages"`
	PreviousPageLink string `json:"previousPageLink,omitempty"`
	NextPageLink     string `json:"nextPageLink,omitempty"`
}

// List handles GET /api/authors.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fields := q.Get("fields")
	orderBy := q.Get("orderBy")
	if strings.TrimSpace(orderBy) == "" {
		orderBy = defaultOrderBy
	}

	if !h.Registry.HasValidMapping(models.ShapeAuthorDto, models.ShapeAuthor, orderBy) {
		h.reject(w, r, "orderBy", "orderBy contains an unknown field")
		return
	}
	if !shaping.TypeHasFields(models.AuthorFields, fields) {
		h.reject(w, r, "fields", "fields contains an unknown field")
		return
	}
	mapping, err := h.Registry.Mapping(models.ShapeAuthorDto, models.ShapeAuthor)
	if err != nil {
		h.serverError(w, r, err, "author mapping missing")
		return
	}

	number, size := validate.ClampPage(q.Get("pageNumber"), q.Get("pageSize"), validate.DefaultPageSize, validate.MaxPageSize)
	page, err := authors.List(r.Context(), h.DB, mapping, authors.ListParams{
		OrderBy:     orderBy,
		Genre:       q.Get("genre"),
		SearchQuery: q.Get("searchQuery"),
		PageNumber:  number,
		PageSize:    size,
	})
	if err != nil {
		// orderBy was checked above, so this is a page out of range.
		if errors.Is(err, shaping.ErrValidation) {
			h.reject(w, r, "pageNumber", err.Error())
			return
		}
		h.serverError(w, r, err, "list authors failed")
		return
	}

	now := h.now()
	dtos := make([]models.AuthorDto, len(page.Items))
	for i, a := range page.Items {
		dtos[i] = models.ToAuthorDto(a, now)
	}
	seq, err := shaping.ShapeAll(slices.Values(dtos), models.AuthorFields, fields)
	if err != nil {
		h.reject(w, r, "fields", err.Error())
		return
	}
	records := slices.Collect(seq)
	if records == nil {
		records = []shaping.Record{}
	}
	if h.Metrics != nil {
		h.Metrics.PageItems.Observe(float64(len(records)))
	}

	meta := paginationHeader{
		TotalCount:  page.TotalCount,
		PageSize:    page.PageSize,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
	}

	if httpx.Accepts(r, httpx.MediaHATEOAS) {
		setPagination(w, meta)
		out := links.Collection{Value: make([]links.Resource, len(records)), Links: links.ForCollection(r, page)}
		for i, rec := range records {
			out.Value[i] = links.Resource{Record: rec, Links: links.ForAuthor(r, dtos[i].ID, fields)}
		}
		httpx.WriteMedia(w, httpx.MediaHATEOAS, http.StatusOK, out)
		return
	}

	if page.HasPrevious() {
		meta.PreviousPageLink = links.PageURL(r, page.CurrentPage-1)
	}
	if page.HasNext() {
		meta.NextPageLink = links.PageURL(r, page.CurrentPage+1)
	}
	setPagination(w, meta)
	httpx.WriteJSON(w, http.StatusOK, records)
}

func setPagination(w http.ResponseWriter, meta paginationHeader) {
	b, _ := json.Marshal(meta)
	w.Header().Set("X-Pagination", string(b))
}
