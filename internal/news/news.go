// Package news turns raw feed entries into the ordered batch for one run.
package news

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/rss"
)

// Article is the unit flowing through the pipeline. RawSummary keeps the
// feed's HTML as-is; stripping happens at summarization time.
type Article struct {
	Title      string
	URL        string
	Source     string
	RawSummary string
	Published  time.Time
}

// resolvePublished picks the entry timestamp: published first, updated as
// fallback. Entries with neither are unusable.
func resolvePublished(item *gofeed.Item) (time.Time, bool) {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed, true
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed, true
	}
	return time.Time{}, false
}

// matchesKeywords reports whether title+summary contains any keyword,
// case-insensitive. An empty keyword list accepts everything. Keywords are
// matched exactly as configured: padding like " ai " is how short tokens
// avoid firing inside words ("airline"), so it must survive.
func matchesKeywords(item *gofeed.Item, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	text := strings.ToLower(item.Title + " " + item.Description)
	for _, k := range keywords {
		k = strings.ToLower(k)
		if strings.TrimSpace(k) == "" {
			continue
		}
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// FilterEntries applies the recency window and keyword check to one feed's
// entries. Entries from the future are accepted; only age is bounded.
func FilterEntries(items []*gofeed.Item, feed rss.Feed, window time.Duration, now time.Time) []Article {
	var articles []Article

	for _, item := range items {
		metrics.Global.IncrementEntriesProcessed()

		published, ok := resolvePublished(item)
		if !ok {
			log.Printf("Skipping entry without timestamp: %s", item.Title)
			continue
		}
		if now.Sub(published) > window {
			continue
		}
		if !matchesKeywords(item, feed.Keywords) {
			continue
		}

		articles = append(articles, Article{
			Title:      item.Title,
			URL:        item.Link,
			Source:     feed.Name,
			RawSummary: item.Description,
			Published:  published,
		})
	}

	return articles
}

// Fetcher is the feed collaborator the aggregator runs against.
type Fetcher interface {
	Fetch(ctx context.Context, feed rss.Feed) []*gofeed.Item
}

// Aggregator collects all feeds into one batch per run.
type Aggregator struct {
	fetcher     Fetcher
	window      time.Duration
	maxArticles int
}

func NewAggregator(fetcher Fetcher, window time.Duration, maxArticles int) *Aggregator {
	return &Aggregator{fetcher: fetcher, window: window, maxArticles: maxArticles}
}

// Collect fetches and filters every feed, merges the survivors, drops
// in-run duplicate links, sorts newest-first and caps the batch size.
// A failed feed contributes nothing; the run continues.
func (a *Aggregator) Collect(ctx context.Context, feeds []rss.Feed) []Article {
	now := time.Now()
	seenLinks := map[string]struct{}{}
	var batch []Article

	for _, feed := range feeds {
		items := a.fetcher.Fetch(ctx, feed)
		accepted := FilterEntries(items, feed, a.window, now)

		for _, art := range accepted {
			if _, dup := seenLinks[art.URL]; dup {
				metrics.Global.IncrementDuplicatesFiltered()
				continue
			}
			seenLinks[art.URL] = struct{}{}
			batch = append(batch, art)
		}
		log.Printf("Feed %s: %d/%d entries accepted", feed.Name, len(accepted), len(items))
	}

	// Stable keeps feed order on equal timestamps.
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Published.After(batch[j].Published)
	})

	if len(batch) > a.maxArticles {
		batch = batch[:a.maxArticles]
	}

	log.Printf("Collected batch of %d articles from %d feeds", len(batch), len(feeds))
	return batch
}
