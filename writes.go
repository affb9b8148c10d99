package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// PostTweet publishes a new standalone tweet through the browser session.
// PostIndeterminate means the submission was sent but no confirmation signal
// appeared before the wait expired; the tweet may still have been created.
func (c *Client) PostTweet(ctx context.Context, text string) (PostOutcome, error) {
	return c.submitPost(ctx, text, "")
}

// ReplyToTweet publishes a reply to an existing tweet.
func (c *Client) ReplyToTweet(ctx context.Context, tweetID, text string) (PostOutcome, error) {
	return c.submitPost(ctx, text, tweetID)
}

func (c *Client) submitPost(ctx context.Context, text, replyTo string) (PostOutcome, error) {
	if text == "" {
		return PostIndeterminate, fmt.Errorf("post: empty text")
	}
	confirmed, err := c.session.PostTweet(ctx, text, replyTo)
	if err != nil {
		return PostIndeterminate, err
	}
	if !confirmed {
		slog.Warn("post submitted without confirmation signal",
			slog.String("reply_to", replyTo))
		return PostIndeterminate, nil
	}
	return PostConfirmed, nil
}

// LikeTweet likes a tweet. The mutation is replayed from inside the page so
// it carries the live session's fingerprint.
func (c *Client) LikeTweet(ctx context.Context, tweetID string) error {
	return c.replayEngagement(ctx, "FavoriteTweet", "favorite_tweet", tweetID)
}

// UnlikeTweet removes a like from a tweet.
func (c *Client) UnlikeTweet(ctx context.Context, tweetID string) error {
	return c.replayEngagement(ctx, "UnfavoriteTweet", "unfavorite_tweet", tweetID)
}

// replayEngagement sends a like/unlike mutation via in-page fetch and checks
// the acknowledgment field the API returns on success.
func (c *Client) replayEngagement(ctx context.Context, operation, ackField, tweetID string) error {
	url, err := EndpointURL(operation)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"variables": map[string]any{"tweet_id": tweetID},
		"features":  Endpoints[operation].Features,
		"queryId":   Endpoints[operation].ID,
	}
	body, err := c.session.ReplayMutation(ctx, operation, url, payload)
	if err != nil {
		return err
	}
	return parseEngagementAck(operation, ackField, body)
}

// parseEngagementAck checks the acknowledgment field a successful engagement
// mutation carries. Anything else, including a 200 with an embedded errors
// array, is a rejection.
func parseEngagementAck(operation, ackField string, body []byte) error {
	var resp struct {
		Data   map[string]json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return &RemoteRejectedError{Op: operation, Status: 200, Body: string(body)}
	}
	if raw, ok := resp.Data[ackField]; ok {
		var ack string
		if json.Unmarshal(raw, &ack) == nil && ack == "Done" {
			return nil
		}
	}
	if len(resp.Errors) > 0 {
		return &RemoteRejectedError{Op: operation, Status: 200, Body: resp.Errors[0].Message}
	}
	return &RemoteRejectedError{Op: operation, Status: 200, Body: string(body)}
}

// Retweet retweets a tweet via the page UI. A false result with nil error
// means the click sequence ran but the confirmation control never appeared.
func (c *Client) Retweet(ctx context.Context, tweetID string) (bool, error) {
	if err := c.session.ToggleRetweet(ctx, tweetID, false); err != nil {
		return false, err
	}
	return true, nil
}

// Unretweet removes a retweet via the page UI.
func (c *Client) Unretweet(ctx context.Context, tweetID string) (bool, error) {
	if err := c.session.ToggleRetweet(ctx, tweetID, true); err != nil {
		return false, err
	}
	return true, nil
}
