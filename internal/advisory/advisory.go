// Package advisory wraps the generative model used for reading insights,
// category suggestions and cover art.
//
// Every call is best effort. Failures are logged and replaced by a fixed
// fallback; callers never see an error and nothing here touches the entity
// store.
package advisory

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

const (
	DefaultTextModel  = "gemini-3-flash-preview"
	DefaultImageModel = "gemini-2.5-flash-image"

	// FallbackInsight is returned when the model cannot be reached.
	FallbackInsight = "ระบบ AI บรรณารักษ์กำลังขัดข้อง โปรดลองใหม่ภายหลัง"
	// EmptyInsight is returned when the model answers with no text.
	EmptyInsight = "ขออภัย ไม่สามารถสร้างบทวิเคราะห์ได้ในขณะนี้"
	// FallbackCategory is the general-literature label.
	FallbackCategory = "วรรณกรรมทั่วไป"
	// FallbackCoverCategory is used in the cover prompt when no category is known.
	FallbackCoverCategory = "General"
)

// ErrAdvisoryUnavailable classifies every failed model call.
var ErrAdvisoryUnavailable = errors.New("advisory unavailable")

// Generator is the model call the adapter depends on. *genai.Models
// satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Advice is a best-effort result. Degraded is set when Value is a fallback.
type Advice struct {
	Value    string `json:"value"`
	Degraded bool   `json:"degraded"`
}

// Cover is a generated image as a data URI. Image is nil when no image could
// be produced.
type Cover struct {
	Image    *string `json:"image"`
	Degraded bool    `json:"degraded"`
}

// BookInfo is what the insight prompt needs to know about a book.
type BookInfo struct {
	Title    string `json:"title" validate:"required,max=300"`
	Author   string `json:"author" validate:"required,max=200"`
	Category string `json:"category" validate:"max=100"`
}
