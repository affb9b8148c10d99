package twitter

import "fmt"

const (
	graphqlBase = "https://x.com/i/api/graphql"

	// trendsURL is the non-GraphQL guide endpoint behind the Explore tab.
	trendsURL = "https://x.com/i/api/2/guide.json?include_page_configuration=true&initial_tab_id=trending"
)

// BearerToken is the web app's public bearer credential. Requests are
// authorized by the session cookies; this token only identifies the client.
const BearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

// Endpoint holds the operation's GraphQL query ID and per-operation feature flags.
type Endpoint struct {
	ID       string
	Name     string
	Features map[string]any
}

// URL returns the full URL for this endpoint.
func (e Endpoint) URL() string {
	return fmt.Sprintf("%s/%s/%s", graphqlBase, e.ID, e.Name)
}

// EndpointURL returns the URL for a named operation, or an error if unknown.
func EndpointURL(operation string) (string, error) {
	ep, ok := Endpoints[operation]
	if !ok {
		return "", fmt.Errorf("unknown operation: %s", operation)
	}
	return ep.URL(), nil
}

// Endpoints maps operation names to their current query IDs and feature
// flags. The IDs come from the web client's JS bundles and change when the
// platform deploys updates.
var Endpoints = map[string]Endpoint{
	"HomeTimeline":        {ID: "HJFjzBgCs16TqxewQOeLNg", Name: "HomeTimeline", Features: gqlFeatures()},
	"HomeLatestTimeline":  {ID: "DiTkXJgAKXcS_buyLnSPCA", Name: "HomeLatestTimeline", Features: gqlFeatures()},
	"UserByScreenName":    {ID: "xmU6X_CKVnQ5lSrCbAmJsg", Name: "UserByScreenName", Features: gqlFeatures()},
	"UserTweets":          {ID: "E3opETHurmVJflFsUBVuUQ", Name: "UserTweets", Features: gqlFeatures()},
	"TweetDetail":         {ID: "nBS-WpgA6ZG0CyNHD517JQ", Name: "TweetDetail", Features: gqlFeatures()},
	"TweetResultByRestId": {ID: "DJSqGOkuGNMpfQDENkkCaA", Name: "TweetResultByRestId", Features: gqlFeatures()},
	"SearchTimeline":      {ID: "gkjsKepM6gl_HmFWoWKfgg", Name: "SearchTimeline", Features: gqlFeatures()},
	"CreateTweet":         {ID: "a1p9RWpkYKBjWv_I3WzS-A", Name: "CreateTweet", Features: gqlFeatures()},
	"FavoriteTweet":       {ID: "lI07N6Otwv1PhnEgXILM7A", Name: "FavoriteTweet", Features: map[string]any{}},
	"UnfavoriteTweet":     {ID: "ZYKSe-w7KEslx3JhSIk5LA", Name: "UnfavoriteTweet", Features: map[string]any{}},
	"CreateRetweet":       {ID: "ojPdsZsimiJrUGLR1sjVsA", Name: "CreateRetweet", Features: map[string]any{}},
	"DeleteRetweet":       {ID: "iQtK4dl5hBmXewYZuEOKVw", Name: "DeleteRetweet", Features: map[string]any{}},
}

// gqlFeatures returns the canonical feature flags the web client sends with
// timeline and tweet queries.
func gqlFeatures() map[string]any {
	return map[string]any{
		"articles_preview_enabled":                                                true,
		"c9s_tweet_anatomy_moderator_badge_enabled":                               true,
		"communities_web_enable_tweet_community_results_fetch":                    true,
		"creator_subscriptions_quote_tweet_preview_enabled":                       false,
		"creator_subscriptions_tweet_preview_api_enabled":                         true,
		"freedom_of_speech_not_reach_fetch_enabled":                               true,
		"graphql_is_translatable_rweb_tweet_is_translatable_enabled":              true,
		"longform_notetweets_consumption_enabled":                                 true,
		"longform_notetweets_inline_media_enabled":                                true,
		"longform_notetweets_rich_text_read_enabled":                              true,
		"responsive_web_edit_tweet_api_enabled":                                   true,
		"responsive_web_enhance_cards_enabled":                                    false,
		"responsive_web_graphql_exclude_directive_enabled":                        true,
		"responsive_web_graphql_skip_user_profile_image_extensions_enabled":       false,
		"responsive_web_graphql_timeline_navigation_enabled":                      true,
		"responsive_web_twitter_article_tweet_consumption_enabled":                true,
		"rweb_tipjar_consumption_enabled":                                         true,
		"rweb_video_timestamps_enabled":                                           true,
		"standardized_nudges_misinfo":                                             true,
		"tweet_awards_web_tipping_enabled":                                        false,
		"tweet_with_visibility_results_prefer_gql_limited_actions_policy_enabled": true,
		"verified_phone_label_enabled":                                            false,
		"view_counts_everywhere_api_enabled":                                      true,
	}
}
