package domain

import (
	"encoding/json"
	"time"
)

// ContentType is one entry of the content-lab catalog.
type ContentType struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Recommended string `json:"recommended"` // LLM key best suited for this type
}

// LLM is one selectable generation model.
type LLM struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Strengths string `json:"strengths"`
}

// ContentTypes is the catalog of generatable content formats.
var ContentTypes = []ContentType{
	{Key: "blog", Label: "Blog / Homepage", Description: "Long-form SEO content built on the trust scorecard", Recommended: "claude"},
	{Key: "faq", Label: "FAQ + Schema", Description: "Structured FAQ with JSON-LD markup", Recommended: "claude"},
	{Key: "youtube", Label: "YouTube Script", Description: "Video script with timeline", Recommended: "gpt"},
	{Key: "ad", Label: "Ad Banner Copy", Description: "Headlines plus three CTA variants", Recommended: "gpt"},
	{Key: "community", Label: "Community / SNS", Description: "Short-form posts for social channels", Recommended: "gemini"},
	{Key: "jsonld", Label: "JSON-LD Markup", Description: "Schema.org structured data", Recommended: "claude"},
}

// LLMs is the catalog of generation models the backend can route to.
var LLMs = []LLM{
	{Key: "claude", Name: "Claude", Strengths: "long-form, structured output"},
	{Key: "gpt", Name: "GPT-4o", Strengths: "conversational, scripts, copy"},
	{Key: "gemini", Name: "Gemini 2.5", Strengths: "trends, casual tone, fast"},
}

// ContentTypeByKey looks up a catalog entry, nil if unknown.
func ContentTypeByKey(key string) *ContentType {
	for i := range ContentTypes {
		if ContentTypes[i].Key == key {
			return &ContentTypes[i]
		}
	}
	return nil
}

// LLMByKey looks up a model entry, nil if unknown.
func LLMByKey(key string) *LLM {
	for i := range LLMs {
		if LLMs[i].Key == key {
			return &LLMs[i]
		}
	}
	return nil
}

// Generation is one content-generation result returned by the backend,
// plus the timing measured around the call.
type Generation struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	ContentType string    `json:"content_type"`
	LLM         string    `json:"llm"`
	Content     string    `json:"content"`
	Model       string    `json:"model,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// Diagnosis bundles the three diagnostic reports for a brand.
// Each field is independently optional: a failed fetch leaves it empty.
type Diagnosis struct {
	Slug string          `json:"slug"`
	EEAT json.RawMessage `json:"eeat,omitempty"`
	Moat string          `json:"moat,omitempty"`
	SOM  json.RawMessage `json:"som,omitempty"`
}
