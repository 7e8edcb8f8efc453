package models

// Page carries the pagination envelope shared by list endpoints.
type Page struct {
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Pages   int `json:"pages"`
}

// HasNext reports whether another page follows this one.
func (p Page) HasNext() bool {
	return p.Page < p.Pages
}
