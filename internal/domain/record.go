package domain

// RawRecord is a source row before normalization.
// An empty string means the field was missing in the source.
type RawRecord struct {
	URL         string
	Title       string
	Year        string
	Poster      string
	Genres      string
	Description string
}
