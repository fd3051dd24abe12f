package form

import "time"

// Summary is the list view of a stored form
type Summary struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	PageCount        int       `json:"pageCount"`
	PublishedVersion int       `json:"publishedVersion"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Version is an immutable published snapshot of a form
type Version struct {
	FormID      string    `json:"formId"`
	Number      int       `json:"version"`
	Form        *Form     `json:"form"`
	PublishedAt time.Time `json:"publishedAt"`
}
