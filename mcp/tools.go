package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	twitter "github.com/anatolykoptev/go-twitter-agent"
)

// Client is the surface of the agent client the tools need. Kept as an
// interface so tool dispatch can be tested without a live session.
type Client interface {
	GetHomeTimeline(ctx context.Context, count int) ([]*twitter.Tweet, error)
	GetUserProfile(ctx context.Context, handle string) (*twitter.UserProfile, error)
	GetUserTweets(ctx context.Context, handle string, count int) ([]*twitter.Tweet, error)
	GetTweet(ctx context.Context, tweetID string) (*twitter.Tweet, error)
	SearchTweets(ctx context.Context, query string, count int) ([]*twitter.Tweet, error)
	GetTrends(ctx context.Context) ([]twitter.Trend, error)
	PostTweet(ctx context.Context, text string) (twitter.PostOutcome, error)
	ReplyToTweet(ctx context.Context, tweetID, text string) (twitter.PostOutcome, error)
	LikeTweet(ctx context.Context, tweetID string) error
	UnlikeTweet(ctx context.Context, tweetID string) error
	Retweet(ctx context.Context, tweetID string) (bool, error)
	Unretweet(ctx context.Context, tweetID string) (bool, error)
}

const defaultCount = 20

// normalizeCount applies the default and range check shared by every
// paginated read tool.
func normalizeCount(count int) (int, error) {
	if count == 0 {
		return defaultCount, nil
	}
	if count < 1 || count > 100 {
		return 0, fmt.Errorf("count must be between 1 and 100, got %d", count)
	}
	return count, nil
}

func validateText(text string) error {
	if text == "" {
		return fmt.Errorf("text must not be empty")
	}
	if len([]rune(text)) > twitter.MaxTweetLength {
		return fmt.Errorf("text exceeds %d characters", twitter.MaxTweetLength)
	}
	return nil
}

func outcomeMessage(outcome twitter.PostOutcome, what string) string {
	if outcome == twitter.PostConfirmed {
		return fmt.Sprintf("%s posted successfully", what)
	}
	return fmt.Sprintf("%s was submitted but confirmation was not detected; it may still have gone through", what)
}

func jsonText(v any) (*mcp.CallToolResult, error) {
	enc, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(enc)), nil
}

// failure renders a domain error as a tool-level failure so the model can
// react to it; context cancellation stays a protocol error.
func failure(err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return mcp.NewToolResultError(err.Error()), nil
}

func countArg(desc string) mcp.ToolOption {
	return mcp.WithNumber("count",
		mcp.Description(desc),
		mcp.DefaultNumber(defaultCount),
		mcp.Min(1),
		mcp.Max(100),
	)
}

func registerTools(srv *server.MCPServer, client Client) {
	srv.AddTool(
		mcp.NewTool("get_home_timeline",
			mcp.WithDescription("Fetch tweets from the authenticated user's home timeline"),
			countArg("Number of tweets to fetch"),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			slog.Info("tool call", slog.String("tool", "get_home_timeline"))
			count, err := normalizeCount(req.GetInt("count", 0))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			tweets, err := client.GetHomeTimeline(ctx, count)
			if err != nil {
				return failure(err)
			}
			return jsonText(tweets)
		})

	srv.AddTool(
		mcp.NewTool("get_user_profile",
			mcp.WithDescription("Get a user's profile information by their username/handle"),
			mcp.WithString("username", mcp.Required(), mcp.Description("Username without the @ symbol")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			slog.Info("tool call", slog.String("tool", "get_user_profile"))
			username := req.GetString("username", "")
			if username == "" {
				return mcp.NewToolResultError("username is required"), nil
			}
			profile, err := client.GetUserProfile(ctx, username)
			if twitter.IsNotFound(err) {
				return mcp.NewToolResultError(fmt.Sprintf("User @%s not found", username)), nil
			}
			if err != nil {
				return failure(err)
			}
			return jsonText(profile)
		})

	srv.AddTool(
		mcp.NewTool("get_user_tweets",
			mcp.WithDescription("Get recent tweets posted by a specific user"),
			mcp.WithString("username", mcp.Required(), mcp.Description("Username without the @ symbol")),
			countArg("Number of tweets to fetch"),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			slog.Info("tool call", slog.String("tool", "get_user_tweets"))
			username := req.GetString("username", "")
			if username == "" {
				return mcp.NewToolResultError("username is required"), nil
			}
			count, err := normalizeCount(req.GetInt("count", 0))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			tweets, err := client.GetUserTweets(ctx, username, count)
			if twitter.IsNotFound(err) {
				return mcp.NewToolResultError(fmt.Sprintf("User @%s not found", username)), nil
			}
			if err != nil {
				return failure(err)
			}
			return jsonText(tweets)
		})

	srv.AddTool(
		mcp.NewTool("get_tweet",
			mcp.WithDescription("Get a single tweet by its ID"),
			mcp.WithString("tweet_id", mcp.Required(), mcp.Description("The tweet ID")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			slog.Info("tool call", slog.String("tool", "get_tweet"))
			tweetID := req.GetString("tweet_id", "")
			if tweetID == "" {
				return mcp.NewToolResultError("tweet_id is required"), nil
			}
			tweet, err := client.GetTweet(ctx, tweetID)
			if twitter.IsNotFound(err) {
				return mcp.NewToolResultError(fmt.Sprintf("Tweet %s not found", tweetID)), nil
			}
			if err != nil {
				return failure(err)
			}
			return jsonText(tweet)
		})

	srv.AddTool(
		mcp.NewTool("search_tweets",
			mcp.WithDescription("Search for tweets matching a query. Supports search operators like from:, to:, has:, etc."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
			countArg("Number of results to return"),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			slog.Info("tool call", slog.String("tool", "search_tweets"))
			query := req.GetString("query", "")
			if query == "" {
				return mcp.NewToolResultError("query is required"), nil
			}
			count, err := normalizeCount(req.GetInt("count", 0))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			tweets, err := client.SearchTweets(ctx, query, count)
			if err != nil {
				return failure(err)
			}
			return jsonText(tweets)
		})

	srv.AddTool(
		mcp.NewTool("get_trends",
			mcp.WithDescription("Get current trending topics"),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			slog.Info("tool call", slog.String("tool", "get_trends"))
			trends, err := client.GetTrends(ctx)
			if err != nil {
				return failure(err)
			}
			return jsonText(trends)
		})

	srv.AddTool(
		mcp.NewTool("post_tweet",
			mcp.WithDescription("Post a new tweet. Can also be used to reply by providing reply_to_tweet_id."),
			mcp.WithString("text", mcp.Required(), mcp.Description("The tweet text content")),
			mcp.WithString("reply_to_tweet_id", mcp.Description("Tweet ID to reply to (optional)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			slog.Info("tool call", slog.String("tool", "post_tweet"))
			text := req.GetString("text", "")
			if err := validateText(text); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			var (
				outcome twitter.PostOutcome
				err     error
			)
			if replyTo := req.GetString("reply_to_tweet_id", ""); replyTo != "" {
				outcome, err = client.ReplyToTweet(ctx, replyTo, text)
			} else {
				outcome, err = client.PostTweet(ctx, text)
			}
			if err != nil {
				return failure(err)
			}
			return mcp.NewToolResultText(outcomeMessage(outcome, "Tweet")), nil
		})

	srv.AddTool(
		mcp.NewTool("reply_to_tweet",
			mcp.WithDescription("Reply to a specific tweet"),
			mcp.WithString("tweet_id", mcp.Required(), mcp.Description("The tweet ID to reply to")),
			mcp.WithString("text", mcp.Required(), mcp.Description("The reply text content")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			slog.Info("tool call", slog.String("tool", "reply_to_tweet"))
			tweetID := req.GetString("tweet_id", "")
			if tweetID == "" {
				return mcp.NewToolResultError("tweet_id is required"), nil
			}
			text := req.GetString("text", "")
			if err := validateText(text); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			outcome, err := client.ReplyToTweet(ctx, tweetID, text)
			if err != nil {
				return failure(err)
			}
			return mcp.NewToolResultText(outcomeMessage(outcome, "Reply")), nil
		})

	likeTool, likeHandler := engagementTool("like_tweet",
		"Like a tweet by its ID", "like", "Liked", client.LikeTweet)
	srv.AddTool(likeTool, likeHandler)

	unlikeTool, unlikeHandler := engagementTool("unlike_tweet",
		"Unlike a previously liked tweet by its ID", "unlike", "Unliked", client.UnlikeTweet)
	srv.AddTool(unlikeTool, unlikeHandler)

	retweetTool, retweetHandler := engagementTool("retweet",
		"Retweet a tweet by its ID", "retweet", "Retweeted", dropOK(client.Retweet))
	srv.AddTool(retweetTool, retweetHandler)

	unretweetTool, unretweetHandler := engagementTool("unretweet",
		"Remove a retweet by the original tweet's ID", "unretweet", "Unretweeted", dropOK(client.Unretweet))
	srv.AddTool(unretweetTool, unretweetHandler)
}

// engagementTool builds the shared shape for single-id write tools: decode
// tweet_id, run the action, report success or failure.
func engagementTool(name, desc, verb, pastTense string, action func(ctx context.Context, tweetID string) error) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool(name,
		mcp.WithDescription(desc),
		mcp.WithString("tweet_id", mcp.Required(), mcp.Description("The tweet ID to "+verb)),
	)
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		slog.Info("tool call", slog.String("tool", name))
		tweetID := req.GetString("tweet_id", "")
		if tweetID == "" {
			return mcp.NewToolResultError("tweet_id is required"), nil
		}
		if err := action(ctx, tweetID); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to %s tweet %s: %v", verb, tweetID, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s tweet %s", pastTense, tweetID)), nil
	}
	return tool, handler
}

func dropOK(f func(ctx context.Context, tweetID string) (bool, error)) func(ctx context.Context, tweetID string) error {
	return func(ctx context.Context, tweetID string) error {
		_, err := f(ctx, tweetID)
		return err
	}
}
