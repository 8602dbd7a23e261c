// Package rss loads the feed list and fetches RSS/Atom entries.
package rss

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"
)

// Feed is one configured source.
// Keywords are matched case-insensitively against title+summary; an empty
// list means the feed is already topic-pure and every entry passes.
type Feed struct {
	URL      string   `yaml:"url"`
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// FeedsConfig is YAML config structure
// feeds:
//   - url: https://...
//     name: TechCrunch AI
//     keywords: [ai, llm]
type FeedsConfig struct {
	Feeds []Feed `yaml:"feeds"`
}

// LoadFeeds reads the feed list from a YAML file.
func LoadFeeds(path string) ([]Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Feeds) == 0 {
		return nil, fmt.Errorf("no feeds configured in %s", path)
	}
	return cfg.Feeds, nil
}

// Fetcher downloads and parses feeds.
type Fetcher struct {
	parser *gofeed.Parser
}

func NewFetcher(timeout time.Duration) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &Fetcher{parser: parser}
}

// Fetch returns the entries of one feed in feed order. A single attempt
// per feed: a network or parse failure is logged and yields an empty
// slice, so a dead feed costs one timeout, never aborts the run.
func (f *Fetcher) Fetch(ctx context.Context, feed Feed) []*gofeed.Item {
	parsed, err := f.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		log.Printf("Error parsing RSS %s (%s): %v", feed.Name, feed.URL, err)
		return nil
	}

	log.Printf("Loaded %d entries from %s", len(parsed.Items), feed.Name)
	return parsed.Items
}
