package models

// Pagination describes the page of results returned by a list or search
// endpoint. Pages is ceil(Total/Limit).
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// Response is the envelope returned by every API endpoint.
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error,omitempty"`
}

// APIError carries a user-facing error message, with the offending field
// for validation failures.
type APIError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
