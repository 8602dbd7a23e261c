// Package summarize produces one short summary per article, degrading to a
// sentinel text instead of failing.
package summarize

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/news"
	"github.com/deusflow/ainews/internal/ratelimit"
)

// Sentinel texts. Both are valid summaries; they mark degraded output, not
// an error the caller has to handle.
const (
	SentinelNoContent = "no summary available"
	SentinelFailed    = "summary generation failed"
)

// Summary pairs with one Article by position in the batch.
type Summary struct {
	Title string
	Text  string
}

// Provider is one text-generation backend.
type Provider interface {
	Name() string
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Summarizer runs articles through a provider chain, newest first, one
// sequential call per article.
type Summarizer struct {
	providers   []Provider
	pacer       *ratelimit.Pacer
	inputLimit  int // max runes of cleaned text put into the prompt
	maxRequests int // per-run provider call budget (0 = unlimited)
	language    string
	requests    int
}

func NewSummarizer(providers []Provider, pacer *ratelimit.Pacer, inputLimit, maxRequests int, language string) *Summarizer {
	if language == "" {
		language = "English"
	}
	return &Summarizer{
		providers:   providers,
		pacer:       pacer,
		inputLimit:  inputLimit,
		maxRequests: maxRequests,
		language:    language,
	}
}

// SummarizeBatch returns one Summary per article, in batch order.
func (s *Summarizer) SummarizeBatch(ctx context.Context, batch []news.Article) []Summary {
	summaries := make([]Summary, 0, len(batch))
	for i, article := range batch {
		log.Printf("Summarizing %d/%d: %s", i+1, len(batch), article.Title)
		summaries = append(summaries, s.Summarize(ctx, article))
	}
	return summaries
}

// Summarize never returns an error: a failed or impossible summarization
// yields a sentinel Summary so the rest of the batch keeps moving.
func (s *Summarizer) Summarize(ctx context.Context, article news.Article) Summary {
	clean := CleanText(article.RawSummary)
	if clean == "" {
		return Summary{Title: article.Title, Text: SentinelNoContent}
	}

	clean = truncateRunes(clean, s.inputLimit)

	if s.maxRequests > 0 && s.requests >= s.maxRequests {
		log.Printf("Summary request budget exhausted (%d), degrading: %s", s.maxRequests, article.Title)
		metrics.Global.IncrementSummariesFailed()
		return Summary{Title: article.Title, Text: SentinelFailed}
	}

	prompt := s.buildPrompt(article.Title, clean)

	for _, provider := range s.providers {
		if err := s.pacer.Wait(ctx); err != nil {
			log.Printf("Pacer interrupted: %v", err)
			break
		}
		s.requests++

		text, err := provider.Summarize(ctx, prompt)
		if err != nil {
			log.Printf("Provider %s failed for %q: %v", provider.Name(), article.Title, err)
			continue
		}

		text = SanitizeModelOutput(text)
		if text == "" {
			log.Printf("Provider %s returned empty text for %q", provider.Name(), article.Title)
			continue
		}

		metrics.Global.IncrementSummariesGenerated()
		return Summary{Title: article.Title, Text: text}
	}

	metrics.Global.IncrementSummariesFailed()
	return Summary{Title: article.Title, Text: SentinelFailed}
}

func (s *Summarizer) buildPrompt(title, content string) string {
	return fmt.Sprintf(`Summarize the following news article in 2-3 lines, in %s.
Keep the key facts, skip filler like "This article is about".

Title: %s
Excerpt: %s`, s.language, title, content)
}

// truncateRunes cuts on a rune boundary and prefers ending on a sentence.
func truncateRunes(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	trimmed := string(runes[:limit])
	if idx := strings.LastIndex(trimmed, ". "); idx > limit/2 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed
}
