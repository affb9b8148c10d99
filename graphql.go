package twitter

import (
	"context"
	"errors"
	"fmt"
)

// GetHomeTimeline fetches tweets from the authenticated user's home feed.
func (c *Client) GetHomeTimeline(ctx context.Context, count int) ([]*Tweet, error) {
	variables := map[string]any{
		"count":                  count,
		"includePromotedContent": false,
		"latestControlAvailable": true,
	}
	body, err := c.direct.graphqlGET(ctx, "HomeTimeline", variables)
	if err != nil {
		return nil, fmt.Errorf("HomeTimeline: %w", err)
	}
	return extractTimelineTweets(body), nil
}

// GetUserProfile fetches a user profile by handle. Returns ErrNotFound when
// the handle does not resolve.
func (c *Client) GetUserProfile(ctx context.Context, handle string) (*UserProfile, error) {
	variables := map[string]any{
		"screen_name":              handle,
		"withSafetyModeUserFields": true,
	}
	body, err := c.direct.graphqlGET(ctx, "UserByScreenName", variables)
	if err != nil {
		return nil, fmt.Errorf("UserByScreenName: %w", err)
	}
	profile, err := parseUserByScreenName(body)
	if err != nil {
		return nil, fmt.Errorf("UserByScreenName: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("user @%s: %w", handle, ErrNotFound)
	}
	return profile, nil
}

// GetUserTweets fetches recent tweets for a handle. The handle is resolved
// to a numeric id first; an unknown handle fails with ErrNotFound before any
// timeline request is attempted.
func (c *Client) GetUserTweets(ctx context.Context, handle string, count int) ([]*Tweet, error) {
	profile, err := c.GetUserProfile(ctx, handle)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{
		"userId":                                 profile.ID,
		"count":                                  count,
		"includePromotedContent":                 false,
		"withQuickPromoteEligibilityTweetFields": true,
		"withVoice":                              true,
		"withV2Timeline":                         true,
	}
	body, err := c.direct.graphqlGET(ctx, "UserTweets", variables)
	if err != nil {
		return nil, fmt.Errorf("UserTweets: %w", err)
	}
	return extractTimelineTweets(body), nil
}

// GetTweet fetches a single tweet by id. Returns ErrNotFound when the id
// does not resolve.
func (c *Client) GetTweet(ctx context.Context, tweetID string) (*Tweet, error) {
	variables := map[string]any{
		"tweetId":                tweetID,
		"withCommunity":          false,
		"includePromotedContent": false,
		"withVoice":              false,
	}
	body, err := c.direct.graphqlGET(ctx, "TweetResultByRestId", variables)
	if err != nil {
		return nil, fmt.Errorf("TweetResultByRestId: %w", err)
	}
	tweet, err := parseTweetByRestID(body)
	if err != nil {
		return nil, fmt.Errorf("TweetResultByRestId: %w", err)
	}
	if tweet == nil {
		return nil, fmt.Errorf("tweet %s: %w", tweetID, ErrNotFound)
	}
	return tweet, nil
}

// SearchTweets searches for tweets matching a query. Platform search
// operators (from:, to:, has:, ...) pass through untouched.
func (c *Client) SearchTweets(ctx context.Context, query string, count int) ([]*Tweet, error) {
	variables := map[string]any{
		"rawQuery":    query,
		"count":       count,
		"querySource": "typed_query",
		"product":     "Latest",
	}
	body, err := c.direct.graphqlGET(ctx, "SearchTimeline", variables)
	if err != nil {
		return nil, fmt.Errorf("SearchTimeline: %w", err)
	}
	return extractTimelineTweets(body), nil
}

// GetTrends fetches the current trending topics.
func (c *Client) GetTrends(ctx context.Context) ([]Trend, error) {
	body, err := c.direct.get(ctx, "Trends", trendsURL)
	if err != nil {
		return nil, fmt.Errorf("Trends: %w", err)
	}
	return parseTrends(body), nil
}

// IsNotFound reports whether err is the typed not-found result.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
