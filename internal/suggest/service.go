// File: internal/suggest/service.go
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"giventake_backend/internal/common"
	"giventake_backend/internal/config"

	"go.uber.org/zap"
)

// Service defines the interface for AI-assisted listing copy generation.
type Service interface {
	GenerateListingDetails(ctx context.Context, req GenerateListingRequest) (*Suggestion, error)
}

type geminiService struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	logger     *zap.Logger
}

// NewService creates a new suggestion service backed by the Gemini REST API.
// The base URL is configurable so tests can point it at a local stub.
func NewService(cfg *config.Config, logger *zap.Logger) Service {
	return &geminiService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(cfg.GeminiBaseURL, "/"),
		model:      cfg.GeminiModel,
		apiKey:     cfg.GeminiAPIKey,
		logger:     logger,
	}
}

// Gemini generateContent wire types, reduced to the fields we use.

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (s *geminiService) GenerateListingDetails(ctx context.Context, req GenerateListingRequest) (*Suggestion, error) {
	if req.IsEmpty() {
		return nil, common.ErrBadRequest.WithDetails("Provide a title, a description, or at least one image to generate from.")
	}

	parts := []geminiPart{{Text: buildPrompt(req)}}
	for _, img := range req.Images {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: img.MimeType,
			Data:     img.Data,
		}})
	}

	reqBody, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	})
	if err != nil {
		return nil, common.ErrGenerationFailed.WithDetails("Failed to build generation request.")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, common.ErrGenerationFailed.WithDetails("Failed to build generation request.")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.Warn("Gemini request failed", zap.Error(err))
		return nil, common.ErrGenerationFailed.WithDetails("The AI provider could not be reached.")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, common.ErrGenerationFailed.WithDetails("Failed to read the AI provider response.")
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("Gemini returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, common.ErrGenerationFailed.WithDetails("The AI provider rejected the request.")
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, common.ErrGenerationFailed.WithDetails("The AI provider returned an unreadable response.")
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, common.ErrGenerationFailed.WithDetails("The AI provider returned no candidates.")
	}

	text := geminiResp.Candidates[0].Content.Parts[0].Text
	suggestion := parseSuggestion(text)
	if suggestion == nil {
		s.logger.Warn("Could not extract a suggestion from model output", zap.String("text", text))
		return nil, common.ErrGenerationFailed.WithDetails("The AI provider produced no usable suggestion.")
	}
	return suggestion, nil
}

// buildPrompt turns whatever the seller provided into generation instructions.
// Images ride along as separate inline parts, so the prompt only has to point
// the model at them.
func buildPrompt(req GenerateListingRequest) string {
	var b strings.Builder
	b.WriteString("You help students sell second-hand items on a campus marketplace. ")
	b.WriteString("Write a short catchy listing title and a friendly two-sentence description for the item. ")
	if req.CurrentTitle != "" {
		fmt.Fprintf(&b, "The seller's working title is %q. ", req.CurrentTitle)
	}
	if req.CurrentDescription != "" {
		fmt.Fprintf(&b, "The seller's working description is %q. ", req.CurrentDescription)
	}
	if len(req.Images) > 0 {
		b.WriteString("Base your suggestion on the attached photos of the item. ")
	}
	b.WriteString("Respond with JSON only, in the shape {\"suggestedTitle\": \"...\", \"suggestedDescription\": \"...\"}.")
	return b.String()
}

// parseSuggestion extracts title and description from model output. The model
// is asked for JSON but does not always comply, so the parse is layered:
// strict JSON, then JSON dug out of fences or surrounding prose, then a
// line-based scan for "title:" and "description:" markers.
func parseSuggestion(text string) *Suggestion {
	type payload struct {
		SuggestedTitle       string `json:"suggestedTitle"`
		SuggestedDescription string `json:"suggestedDescription"`
	}

	tryJSON := func(candidate string) *Suggestion {
		var p payload
		if err := json.Unmarshal([]byte(candidate), &p); err != nil {
			return nil
		}
		if p.SuggestedTitle == "" && p.SuggestedDescription == "" {
			return nil
		}
		return &Suggestion{SuggestedTitle: p.SuggestedTitle, SuggestedDescription: p.SuggestedDescription}
	}

	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if s := tryJSON(cleaned); s != nil {
		return s
	}

	// Dig the outermost JSON object out of surrounding prose.
	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start >= 0 && end > start {
		if s := tryJSON(cleaned[start : end+1]); s != nil {
			return s
		}
	}

	// Last resort: scan lines for labeled fields.
	var title, description string
	for _, line := range strings.Split(cleaned, "\n") {
		lower := strings.ToLower(line)
		if idx := strings.Index(lower, "title:"); idx >= 0 && title == "" {
			title = strings.Trim(line[idx+len("title:"):], `"* `)
		} else if idx := strings.Index(lower, "description:"); idx >= 0 && description == "" {
			description = strings.Trim(line[idx+len("description:"):], `"* `)
		}
	}
	if title == "" && description == "" {
		return nil
	}
	return &Suggestion{SuggestedTitle: title, SuggestedDescription: description}
}
