// Package slack wraps the Slack Web API with the operations the
// pipeline needs: file metadata lookup, reactions, and thread replies.
package slack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/paper-bridge/internal/domain/errors"
)

const statusMessageFormat = "`%s` 논문을 분석 중입니다..."

// Client wraps the Slack API client with domain-specific operations.
// Implements the dispatch.FileGateway and summarize.Poster interfaces.
type Client struct {
	api        *slack.Client
	builder    *MessageBuilder
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates a Slack client. apiURL overrides the API base URL
// for tests.
func NewClient(botToken string, maxRetries int, retryDelay time.Duration, logger *slog.Logger, apiURL ...string) *Client {
	var api *slack.Client
	if len(apiURL) > 0 && apiURL[0] != "" {
		api = slack.New(botToken, slack.OptionAPIURL(apiURL[0]))
	} else {
		api = slack.New(botToken)
	}

	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Client{
		api:        api,
		builder:    NewMessageBuilder(),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// FileInfo fetches file metadata by ID.
func (c *Client) FileInfo(ctx context.Context, fileID string) (*entity.FileDescriptor, error) {
	file, _, _, err := c.api.GetFileInfoContext(ctx, fileID, 0, 0)
	if err != nil {
		return nil, categorizeSlackError(err, "getting file info")
	}
	return fileDescriptorFrom(file), nil
}

// AddReaction adds an emoji reaction to the file-share message.
// A duplicate reaction is treated as success.
func (c *Client) AddReaction(ctx context.Context, target entity.ThreadTarget, emoji string) error {
	err := c.api.AddReactionContext(ctx, emoji, slack.ItemRef{
		Channel:   target.ChannelID,
		Timestamp: target.ThreadTS,
	})
	if err == nil || isSlackError(err, "already_reacted") {
		return nil
	}
	return categorizeSlackError(err, "adding reaction")
}

// PostStatus posts the "analyzing" placeholder reply and returns its
// timestamp. One attempt only; the caller proceeds without it.
func (c *Client) PostStatus(ctx context.Context, target entity.ThreadTarget, filename string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, target.ChannelID,
		slack.MsgOptionText(fmt.Sprintf(statusMessageFormat, filename), false),
		slack.MsgOptionTS(target.ThreadTS),
	)
	if err != nil {
		return "", categorizeSlackError(err, "posting status message")
	}
	return ts, nil
}

// PostSummary posts the formatted summary as a thread reply, retrying
// transient failures. Returns the posted message timestamp.
func (c *Client) PostSummary(ctx context.Context, target entity.ThreadTarget, filename, summary string) (string, error) {
	blocks := c.builder.BuildSummaryBlocks(filename, summary)

	ts, err := c.postWithRetry(ctx, target.ChannelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(c.builder.FallbackText(summary), false),
		slack.MsgOptionTS(target.ThreadTS),
		slack.MsgOptionDisableLinkUnfurl(),
		slack.MsgOptionDisableMediaUnfurl(),
	)
	if err != nil {
		return "", domainerrors.NewPostError("posting summary", err)
	}
	return ts, nil
}

// PostThreadReply posts a plain-text thread reply, retrying transient
// failures.
func (c *Client) PostThreadReply(ctx context.Context, target entity.ThreadTarget, text string) (string, error) {
	ts, err := c.postWithRetry(ctx, target.ChannelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(target.ThreadTS),
	)
	if err != nil {
		return "", domainerrors.NewPostError("posting thread reply", err)
	}
	return ts, nil
}

// UpdateMessage rewrites an existing message. Best-effort: failures are
// logged, not returned.
func (c *Client) UpdateMessage(ctx context.Context, channelID, ts, text string) {
	_, _, _, err := c.api.UpdateMessageContext(ctx, channelID, ts,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		c.logger.Warn("failed to update message",
			"channel_id", channelID,
			"ts", ts,
			"error", err,
		)
	}
}

// DeleteMessage removes a message. Best-effort: failures are logged,
// not returned.
func (c *Client) DeleteMessage(ctx context.Context, channelID, ts string) {
	if _, _, err := c.api.DeleteMessageContext(ctx, channelID, ts); err != nil {
		c.logger.Warn("failed to delete message",
			"channel_id", channelID,
			"ts", ts,
			"error", err,
		)
	}
}

// postWithRetry posts a message, retrying transient failures with
// linearly increasing backoff. Permanent failures return immediately.
func (c *Client) postWithRetry(ctx context.Context, channelID string, options ...slack.MsgOption) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		_, ts, err := c.api.PostMessageContext(ctx, channelID, options...)
		if err == nil {
			return ts, nil
		}

		lastErr = categorizeSlackError(err, "posting message")
		if !domainerrors.IsTransientError(lastErr) {
			return "", lastErr
		}

		c.logger.Warn("transient slack error, retrying",
			"channel_id", channelID,
			"attempt", attempt,
			"error", err,
		)

		if attempt == c.maxRetries {
			break
		}
		select {
		case <-time.After(c.retryDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return "", domainerrors.NewTransientError("posting message: canceled", ctx.Err())
		}
	}
	return "", lastErr
}

// fileDescriptorFrom flattens the API file object to the entity shape.
func fileDescriptorFrom(file *slack.File) *entity.FileDescriptor {
	desc := &entity.FileDescriptor{
		ID:          file.ID,
		Name:        file.Name,
		DownloadURL: file.URLPrivateDownload,
		Size:        file.Size,
		Filetype:    file.Filetype,
		Shares: entity.ShareInfo{
			Public:  map[string][]string{},
			Private: map[string][]string{},
		},
	}
	if desc.DownloadURL == "" {
		desc.DownloadURL = file.URLPrivate
	}
	for channelID, shares := range file.Shares.Public {
		for _, share := range shares {
			desc.Shares.Public[channelID] = append(desc.Shares.Public[channelID], share.Ts)
		}
	}
	for channelID, shares := range file.Shares.Private {
		for _, share := range shares {
			desc.Shares.Private[channelID] = append(desc.Shares.Private[channelID], share.Ts)
		}
	}
	return desc
}

// isSlackError reports whether err is the named Slack API error.
func isSlackError(err error, code string) bool {
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		return slackErr.Err == code
	}
	return err != nil && err.Error() == code
}

// categorizeSlackError wraps Slack API errors as transient or permanent
// domain errors.
func categorizeSlackError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: network error", operation),
			err,
		)
	}

	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		switch slackErr.Err {
		case "rate_limited":
			return domainerrors.NewTransientError(
				fmt.Sprintf("%s: rate limited", operation),
				err,
			)

		case "internal_error", "fatal_error", "service_unavailable":
			return domainerrors.NewTransientError(
				fmt.Sprintf("%s: slack server error", operation),
				err,
			)

		case "invalid_auth", "account_inactive", "token_revoked", "no_permission",
			"channel_not_found", "not_in_channel", "is_archived", "file_not_found":
			return domainerrors.NewPermanentError(
				fmt.Sprintf("%s: %s", operation, slackErr.Err),
				err,
			)

		default:
			return domainerrors.NewPermanentError(
				fmt.Sprintf("%s: %s", operation, slackErr.Err),
				err,
			)
		}
	}

	var rateErr *slack.RateLimitedError
	if errors.As(err, &rateErr) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: rate limited", operation),
			err,
		)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: context timeout", operation),
			err,
		)
	}

	return domainerrors.NewPermanentError(
		fmt.Sprintf("%s: %v", operation, err),
		err,
	)
}
