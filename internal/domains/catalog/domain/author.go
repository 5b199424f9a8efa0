package domain

import (
	"errors"
	"strings"
)

var ErrEmptyAuthorName = errors.New("author name is required")

// Author identifies a book author in the catalog.
type Author struct {
	ID   string
	Name string
}

// NewAuthor validates and constructs an Author.
func NewAuthor(id, name string) (*Author, error) {
	author := &Author{ID: id, Name: strings.TrimSpace(name)}
	if author.Name == "" {
		return nil, ErrEmptyAuthorName
	}
	return author, nil
}
