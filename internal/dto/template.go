package dto

import "time"

// TemplateUploadResult confirms a stored template.
type TemplateUploadResult struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// TemplateList enumerates stored template names.
type TemplateList struct {
	Templates []string `json:"templates"`
}

// TemplateLink is a signed, expiring download reference.
type TemplateLink struct {
	Filename  string    `json:"filename"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
