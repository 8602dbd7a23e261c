// Package publish renders the summarized batch into Slack messages and
// delivers them in paced, size-limited chunks.
package publish

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/news"
	"github.com/deusflow/ainews/internal/slack"
	"github.com/deusflow/ainews/internal/summarize"
)

// Sink-side field limits.
const (
	titleLimit = 256
	bodyLimit  = 4096
)

// Sink is the delivery collaborator, one webhook post per call.
type Sink interface {
	PostMessage(ctx context.Context, msg slack.Message) error
}

// Result counts what actually went out.
type Result struct {
	Sent   int
	Failed int
}

// Publisher chunks rendered articles into posts of at most chunkSize units
// and paces consecutive posts.
type Publisher struct {
	sink      Sink
	chunkSize int
	pace      time.Duration

	// swappable in tests
	sleep func(d time.Duration)
	now   func() time.Time
}

func NewPublisher(sink Sink, chunkSize int, pace time.Duration) *Publisher {
	return &Publisher{
		sink:      sink,
		chunkSize: chunkSize,
		pace:      pace,
		sleep:     time.Sleep,
		now:       time.Now,
	}
}

// Publish posts the whole batch. An empty batch still produces exactly one
// "no news" message; the pipeline never ends a run silently. A failed post
// is counted and the remaining chunks are still attempted.
func (p *Publisher) Publish(ctx context.Context, batch []news.Article, summaries []summarize.Summary) Result {
	if len(batch) == 0 {
		return p.post(ctx, p.noNewsMessage(), Result{})
	}

	units := make([]slack.Block, 0, len(batch))
	for i, article := range batch {
		units = append(units, renderUnit(article, summaries[i]))
	}

	chunks := chunkBlocks(units, p.chunkSize)
	result := Result{}

	for i, chunk := range chunks {
		if i > 0 {
			p.sleep(p.pace)
		}

		msg := slack.Message{}
		if i == 0 {
			msg.Blocks = append(msg.Blocks, slack.HeaderBlock(p.digestHeader(len(batch))))
		} else {
			msg.Blocks = append(msg.Blocks, slack.HeaderBlock(fmt.Sprintf("AI news digest (continued, part %d/%d)", i+1, len(chunks))))
		}
		msg.Blocks = append(msg.Blocks, slack.DividerBlock())

		for _, unit := range chunk {
			msg.Blocks = append(msg.Blocks, unit, slack.DividerBlock())
		}

		result = p.post(ctx, msg, result)
	}

	log.Printf("Published %d/%d chunks (%d failed)", result.Sent, len(chunks), result.Failed)
	return result
}

func (p *Publisher) post(ctx context.Context, msg slack.Message, result Result) Result {
	if err := p.sink.PostMessage(ctx, msg); err != nil {
		log.Printf("Error posting to Slack: %v", err)
		metrics.Global.IncrementMessagesFailed()
		result.Failed++
		return result
	}
	metrics.Global.IncrementMessagesSent()
	result.Sent++
	return result
}

func (p *Publisher) digestHeader(count int) string {
	return fmt.Sprintf("AI news digest (%s): %d articles", p.now().Format("2006-01-02"), count)
}

func (p *Publisher) noNewsMessage() slack.Message {
	return slack.Message{Blocks: []slack.Block{
		slack.HeaderBlock(fmt.Sprintf("AI news digest (%s)", p.now().Format("2006-01-02"))),
		slack.DividerBlock(),
		slack.SectionBlock("No qualifying articles found in this run."),
	}}
}

// renderUnit builds the section block for one (article, summary) pair.
func renderUnit(article news.Article, summary summarize.Summary) slack.Block {
	title := truncateRunes(article.Title, titleLimit)
	body := truncateRunes(summary.Text, bodyLimit)

	text := fmt.Sprintf("*%s*\n\n%s\n\nSource: %s | %s\n<%s|Read the article>",
		title, body, article.Source, article.Published.Format(time.RFC3339), article.URL)

	return slack.SectionBlock(text)
}

// chunkBlocks partitions units into ceil(len/size) ordered chunks.
func chunkBlocks(units []slack.Block, size int) [][]slack.Block {
	if size <= 0 {
		size = 1
	}
	var chunks [][]slack.Block
	for start := 0; start < len(units); start += size {
		end := start + size
		if end > len(units) {
			end = len(units)
		}
		chunks = append(chunks, units[start:end])
	}
	return chunks
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}
