package dto

// FieldError is one entry of the API error payload.
type FieldError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIError is the uniform error body: {"errorsMessages":[{message, field}]}.
type APIError struct {
	ErrorsMessages []FieldError `json:"errorsMessages"`
}

func NewAPIError(message, field string) APIError {
	return APIError{ErrorsMessages: []FieldError{{Message: message, Field: field}}}
}

// Page is the uniform paginated list envelope.
type Page[T any] struct {
	PagesCount int64 `json:"pagesCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	Items      []T   `json:"items"`
}

func NewPage[T any](items []T, page, pageSize int, total int64) Page[T] {
	pagesCount := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pagesCount++
	}
	return Page[T]{
		PagesCount: pagesCount,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		Items:      items,
	}
}

// PageQuery holds normalized pagination/sort params shared by list endpoints.
type PageQuery struct {
	SortBy        string
	SortDirection string
	PageNumber    int
	PageSize      int
}

func (q PageQuery) Offset() int {
	return (q.PageNumber - 1) * q.PageSize
}
