package model

type MergeRequestBody struct {
	Pages []string `json:"pages"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
