package domain

import "github.com/pkg/errors"

var (
	ErrCatalogNotFound = errors.New("catalog not found")
	ErrNoIdentifier    = errors.New("record has no extractable identifier")
	ErrEmptyCatalog    = errors.New("catalog source produced no items")
	ErrNoTitles        = errors.New("no titles extracted from page")
)
