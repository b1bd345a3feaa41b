// File: internal/suggest/model.go
package suggest

// InlineImage carries one photo of the item, base64-encoded, so the model can
// describe what it sees.
type InlineImage struct {
	MimeType string `json:"mime_type" binding:"required"`
	Data     string `json:"data" binding:"required,base64"`
}

// GenerateListingRequest asks for AI-drafted listing copy from whatever the
// seller has so far: a rough title, a rough description, photos, or any
// combination. Photos alone are enough; an entirely empty request is not.
type GenerateListingRequest struct {
	CurrentTitle       string        `json:"current_title" binding:"omitempty,max=255"`
	CurrentDescription string        `json:"current_description" binding:"omitempty,max=2000"`
	Images             []InlineImage `json:"images" binding:"omitempty,max=5,dive"`
}

// IsEmpty reports whether the request carries nothing to work from.
func (r GenerateListingRequest) IsEmpty() bool {
	return r.CurrentTitle == "" && r.CurrentDescription == "" && len(r.Images) == 0
}

// Suggestion is the drafted listing copy returned to the client.
type Suggestion struct {
	SuggestedTitle       string `json:"suggested_title"`
	SuggestedDescription string `json:"suggested_description"`
}
