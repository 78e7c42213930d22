package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
)

// Vendor media types understood by the API.
const (
	MediaHATEOAS           = "application/vnd.library.hateoas+json"
	MediaAuthorFull        = "application/vnd.library.author.full+json"
	MediaAuthorWithDeath   = "application/vnd.library.authorwithdateofdeath.full+json"
	MediaJSON              = "application/json"
	headerContentType      = "Content-Type"
	contentTypeJSONCharset = "application/json; charset=utf-8"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	writeAs(w, contentTypeJSONCharset, status, v)
}

// WriteMedia writes v with a vendor media type.
func WriteMedia(w http.ResponseWriter, mediaType string, status int, v any) {
	writeAs(w, mediaType, status, v)
}

func writeAs(w http.ResponseWriter, contentType string, status int, v any) {
	w.Header().Set(headerContentType, contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Accepts reports whether the Accept header lists mediaType, ignoring
// parameters and case.
func Accepts(r *http.Request, mediaType string) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && strings.EqualFold(mt, mediaType) {
			return true
		}
	}
	return false
}

// ContentType returns the request's media type without parameters,
// lowercased. An empty or malformed header yields "".
func ContentType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get(headerContentType))
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

// ErrEmptyBody is returned by DecodeJSON for a request without a body.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON decodes exactly one JSON value into dst and rejects unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}
