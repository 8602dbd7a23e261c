package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/deusflow/ainews/internal/news"
	"github.com/deusflow/ainews/internal/ratelimit"
)

// fakeProvider records prompts and returns canned output.
type fakeProvider struct {
	name    string
	text    string
	err     error
	calls   int
	prompts []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Summarize(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func testPacer() *ratelimit.Pacer {
	// Zero gap and zero burst: no pacing in tests.
	return ratelimit.NewPacer(0, 0, 0)
}

func article(rawSummary string) news.Article {
	return news.Article{
		Title:      "New AI model released",
		URL:        "https://example.com/new-ai-model",
		Source:     "TechCrunch AI",
		RawSummary: rawSummary,
		Published:  time.Now(),
	}
}

func TestSummarize_EmptyContentShortCircuits(t *testing.T) {
	provider := &fakeProvider{name: "fake", text: "should not be used"}
	s := NewSummarizer([]Provider{provider}, testPacer(), 1500, 0, "English")

	got := s.Summarize(context.Background(), article("<p>   </p>"))

	if got.Text != SentinelNoContent {
		t.Errorf("expected %q sentinel, got %q", SentinelNoContent, got.Text)
	}
	if provider.calls != 0 {
		t.Errorf("no provider call expected for empty content, got %d", provider.calls)
	}
}

func TestSummarize_ProviderFailureDegrades(t *testing.T) {
	provider := &fakeProvider{name: "fake", err: errors.New("quota exceeded")}
	s := NewSummarizer([]Provider{provider}, testPacer(), 1500, 0, "English")

	got := s.Summarize(context.Background(), article("Real content to summarize."))

	if got.Text != SentinelFailed {
		t.Errorf("expected %q sentinel on provider failure, got %q", SentinelFailed, got.Text)
	}
	if got.Title != "New AI model released" {
		t.Errorf("title should pass through, got %q", got.Title)
	}
}

func TestSummarize_FallsBackToSecondProvider(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("down")}
	fallback := &fakeProvider{name: "fallback", text: "A short summary."}
	s := NewSummarizer([]Provider{primary, fallback}, testPacer(), 1500, 0, "English")

	got := s.Summarize(context.Background(), article("Real content to summarize."))

	if got.Text != "A short summary." {
		t.Errorf("expected fallback provider output, got %q", got.Text)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("expected both providers tried once, got %d/%d", primary.calls, fallback.calls)
	}
}

func TestSummarize_SanitizesProviderOutput(t *testing.T) {
	provider := &fakeProvider{name: "fake", text: "The launch happened.\nNote: generated by AI."}
	s := NewSummarizer([]Provider{provider}, testPacer(), 1500, 0, "English")

	got := s.Summarize(context.Background(), article("Real content."))

	if got.Text != "The launch happened." {
		t.Errorf("provider output should be sanitized, got %q", got.Text)
	}
}

func TestSummarize_BudgetExhaustionDegrades(t *testing.T) {
	provider := &fakeProvider{name: "fake", text: "fine"}
	s := NewSummarizer([]Provider{provider}, testPacer(), 1500, 1, "English")

	first := s.Summarize(context.Background(), article("Content one."))
	second := s.Summarize(context.Background(), article("Content two."))

	if first.Text != "fine" {
		t.Fatalf("first article should use the budget, got %q", first.Text)
	}
	if second.Text != SentinelFailed {
		t.Errorf("over-budget article should degrade, got %q", second.Text)
	}
	if provider.calls != 1 {
		t.Errorf("expected exactly 1 provider call under budget 1, got %d", provider.calls)
	}
}

func TestSummarize_TruncatesInputBeforePrompting(t *testing.T) {
	provider := &fakeProvider{name: "fake", text: "fine"}
	s := NewSummarizer([]Provider{provider}, testPacer(), 50, 0, "English")

	long := strings.Repeat("word ", 100)
	s.Summarize(context.Background(), article(long))

	if len(provider.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(provider.prompts))
	}
	if strings.Contains(provider.prompts[0], strings.Repeat("word ", 20)) {
		t.Errorf("input should have been truncated to ~50 runes before prompting")
	}
}

func TestSummarizeBatch_OneSummaryPerArticleInOrder(t *testing.T) {
	provider := &fakeProvider{name: "fake", text: "summary text"}
	s := NewSummarizer([]Provider{provider}, testPacer(), 1500, 0, "English")

	batch := []news.Article{
		{Title: "first", RawSummary: "one"},
		{Title: "second", RawSummary: ""},
		{Title: "third", RawSummary: "three"},
	}

	got := s.SummarizeBatch(context.Background(), batch)
	if len(got) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(got))
	}
	if got[0].Title != "first" || got[1].Title != "second" || got[2].Title != "third" {
		t.Errorf("summaries must stay positionally aligned with the batch, got %+v", got)
	}
	if got[1].Text != SentinelNoContent {
		t.Errorf("empty article should get the no-content sentinel, got %q", got[1].Text)
	}
}

func TestSummarize_NoProvidersDegrades(t *testing.T) {
	s := NewSummarizer(nil, testPacer(), 1500, 0, "English")

	got := s.Summarize(context.Background(), article("Some content."))
	if got.Text != SentinelFailed {
		t.Errorf("with no providers the summary must degrade, got %q", got.Text)
	}
}
