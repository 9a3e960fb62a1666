package slack

import (
	"strings"

	"github.com/slack-go/slack"
)

const (
	// blockTextLimit keeps each section under Slack's 3000-char block
	// text cap, with headroom for markdown rendering.
	blockTextLimit = 2900

	// headerFilenameLimit bounds the filename shown in the header block.
	headerFilenameLimit = 50

	// fallbackTextLimit bounds the notification fallback text.
	fallbackTextLimit = 3000

	summaryDisclaimer = "_이 요약은 AI(Google Gemini)에 의해 자동 생성되었습니다. 정확성을 보장하지 않으므로 원문을 확인해주세요._"
)

// MessageBuilder constructs Block Kit messages for paper summaries.
type MessageBuilder struct{}

// NewMessageBuilder creates a message builder.
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// BuildSummaryBlocks lays the summary out as a header, the summary text
// split into section blocks within the per-block size limit, and a
// disclaimer footer.
func (b *MessageBuilder) BuildSummaryBlocks(filename, summary string) []slack.Block {
	name := filename
	if len([]rune(name)) > headerFilenameLimit {
		name = runeTruncate(name, headerFilenameLimit) + "..."
	}
	title := "논문 요약: " + name

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, title, true, false),
		),
		slack.NewDividerBlock(),
	}

	for _, chunk := range splitForBlocks(summary, blockTextLimit) {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, chunk, false, false),
			nil, nil,
		))
	}

	blocks = append(blocks,
		slack.NewDividerBlock(),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, summaryDisclaimer, false, false),
		),
	)

	return blocks
}

// FallbackText returns the plain-text notification fallback for a
// summary message.
func (b *MessageBuilder) FallbackText(summary string) string {
	return runeTruncate(summary, fallbackTextLimit)
}

// splitForBlocks splits text into chunks of at most limit runes,
// breaking on paragraph boundaries where possible. A paragraph longer
// than the limit is hard-split, so every chunk fits by construction.
func splitForBlocks(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		paraLen := len([]rune(para))

		if paraLen > limit {
			flush()
			for _, piece := range hardSplit(para, limit) {
				chunks = append(chunks, piece)
			}
			continue
		}

		// +2 for the paragraph separator being restored.
		if currentLen > 0 && currentLen+2+paraLen > limit {
			flush()
		}
		if currentLen > 0 {
			current.WriteString("\n\n")
			currentLen += 2
		}
		current.WriteString(para)
		currentLen += paraLen
	}
	flush()

	return chunks
}

// hardSplit cuts s into rune-boundary pieces of at most limit runes.
func hardSplit(s string, limit int) []string {
	runes := []rune(s)
	var pieces []string
	for len(runes) > limit {
		pieces = append(pieces, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}

// runeTruncate cuts s to at most max runes.
func runeTruncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
