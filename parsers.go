package twitter

import (
	"encoding/json"
	"strconv"
)

// The platform returns deeply nested, loosely-typed trees whose shape shifts
// between endpoints and deploys. Every field below is treated as optional
// until proven present: sub-objects are pointers, and a record missing its
// legacy metadata or its author is dropped rather than surfaced half-built.

type userLegacy struct {
	Name             string `json:"name"`
	ScreenName       string `json:"screen_name"`
	Description      string `json:"description"`
	ProfileImageURL  string `json:"profile_image_url_https"`
	ProfileBannerURL string `json:"profile_banner_url"`
	FollowersCount   int    `json:"followers_count"`
	FriendsCount     int    `json:"friends_count"`
	StatusesCount    int    `json:"statuses_count"`
	CreatedAt        string `json:"created_at"`
	Location         string `json:"location"`
	URL              string `json:"url"`
}

type userResult struct {
	TypeName       string      `json:"__typename"`
	RestID         string      `json:"rest_id"`
	Legacy         *userLegacy `json:"legacy"`
	IsBlueVerified bool        `json:"is_blue_verified"`
}

type mediaEntity struct {
	Type          string `json:"type"`
	URL           string `json:"url"`
	MediaURLHTTPS string `json:"media_url_https"`
}

type tweetLegacy struct {
	IDStr             string `json:"id_str"`
	FullText          string `json:"full_text"`
	Text              string `json:"text"`
	CreatedAt         string `json:"created_at"`
	FavoriteCount     int    `json:"favorite_count"`
	RetweetCount      int    `json:"retweet_count"`
	ReplyCount        int    `json:"reply_count"`
	QuoteCount        int    `json:"quote_count"`
	BookmarkCount     int    `json:"bookmark_count"`
	Lang              string `json:"lang"`
	InReplyToStatusID string `json:"in_reply_to_status_id_str"`
	ConversationID    string `json:"conversation_id_str"`
	ExtendedEntities  struct {
		Media []mediaEntity `json:"media"`
	} `json:"extended_entities"`
}

type tweetResult struct {
	TypeName string       `json:"__typename"`
	RestID   string       `json:"rest_id"`
	Tweet    *tweetResult `json:"tweet"`
	Core     struct {
		UserResults struct {
			Result *userResult `json:"result"`
		} `json:"user_results"`
	} `json:"core"`
	Legacy *tweetLegacy `json:"legacy"`
	Views  struct {
		Count string `json:"count"`
	} `json:"views"`
}

// unwrap peels the TweetWithVisibilityResults wrapper the platform inserts
// when visibility restrictions apply; the real tweet sits one level deeper.
func (r *tweetResult) unwrap() *tweetResult {
	if r != nil && r.TypeName == "TweetWithVisibilityResults" && r.Tweet != nil {
		return r.Tweet
	}
	return r
}

// mapTweet translates a raw tweet result into the domain model, or returns
// nil when the record is unparseable (missing legacy or author metadata).
func mapTweet(r *tweetResult) *Tweet {
	r = r.unwrap()
	if r == nil || r.Legacy == nil {
		return nil
	}
	author := r.Core.UserResults.Result
	if author == nil || author.Legacy == nil {
		return nil
	}

	id := r.Legacy.IDStr
	if id == "" {
		id = r.RestID
	}
	if id == "" {
		return nil
	}

	text := r.Legacy.FullText
	if text == "" {
		text = r.Legacy.Text
	}

	t := &Tweet{
		ID:   id,
		Text: text,
		Author: Author{
			ID:              author.RestID,
			Username:        author.Legacy.ScreenName,
			Name:            author.Legacy.Name,
			ProfileImageURL: author.Legacy.ProfileImageURL,
			Verified:        author.IsBlueVerified,
		},
		CreatedAt:        r.Legacy.CreatedAt,
		Likes:            r.Legacy.FavoriteCount,
		Retweets:         r.Legacy.RetweetCount,
		Replies:          r.Legacy.ReplyCount,
		Quotes:           r.Legacy.QuoteCount,
		Bookmarks:        r.Legacy.BookmarkCount,
		Language:         r.Legacy.Lang,
		InReplyToTweetID: r.Legacy.InReplyToStatusID,
		ConversationID:   r.Legacy.ConversationID,
	}

	if r.Views.Count != "" {
		if n, err := strconv.Atoi(r.Views.Count); err == nil {
			t.Views = &n
		}
	}

	for _, m := range r.Legacy.ExtendedEntities.Media {
		url := m.MediaURLHTTPS
		if url == "" {
			url = m.URL
		}
		t.Media = append(t.Media, Media{Type: m.Type, URL: url, PreviewURL: m.MediaURLHTTPS})
	}

	return t
}

// mapUser translates a raw user result, or returns nil when the legacy
// metadata is missing.
func mapUser(r *userResult) *UserProfile {
	if r == nil || r.Legacy == nil || r.RestID == "" {
		return nil
	}
	return &UserProfile{
		ID:               r.RestID,
		Username:         r.Legacy.ScreenName,
		Name:             r.Legacy.Name,
		Description:      r.Legacy.Description,
		ProfileImageURL:  r.Legacy.ProfileImageURL,
		ProfileBannerURL: r.Legacy.ProfileBannerURL,
		Followers:        r.Legacy.FollowersCount,
		Following:        r.Legacy.FriendsCount,
		TweetCount:       r.Legacy.StatusesCount,
		Verified:         r.IsBlueVerified,
		CreatedAt:        r.Legacy.CreatedAt,
		Location:         r.Legacy.Location,
		URL:              r.Legacy.URL,
	}
}

// --- Timeline instruction trees ---

type timelineObj struct {
	Instructions []timelineInstruction `json:"instructions"`
}

type timelineInstruction struct {
	Type    string          `json:"type"`
	Entries []timelineEntry `json:"entries"`
	Entry   *timelineEntry  `json:"entry"`
}

type timelineEntry struct {
	EntryID string       `json:"entryId"`
	Content entryContent `json:"content"`
}

type entryContent struct {
	EntryType   string       `json:"entryType"`
	TypeName    string       `json:"__typename"`
	ItemContent *itemContent `json:"itemContent"`
	Items       []moduleItem `json:"items"`
}

type itemContent struct {
	TypeName     string `json:"__typename"`
	TweetResults struct {
		Result *tweetResult `json:"result"`
	} `json:"tweet_results"`
}

// moduleItem is one element of a module entry (conversation thread, carousel).
type moduleItem struct {
	Item struct {
		ItemContent *itemContent `json:"itemContent"`
	} `json:"item"`
}

// parseUserByScreenName parses the UserByScreenName response. A missing or
// unavailable user yields (nil, nil); the caller maps that to not-found.
func parseUserByScreenName(body []byte) (*UserProfile, error) {
	var raw struct {
		Data struct {
			User struct {
				Result *userResult `json:"result"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return mapUser(raw.Data.User.Result), nil
}

// parseTweetByRestID parses the TweetResultByRestId response. A missing
// tweet yields (nil, nil).
func parseTweetByRestID(body []byte) (*Tweet, error) {
	var raw struct {
		Data struct {
			TweetResult struct {
				Result *tweetResult `json:"result"`
			} `json:"tweetResult"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return mapTweet(raw.Data.TweetResult.Result), nil
}

// extractTimelineTweets walks a timeline response that may originate from
// the home feed, a user feed, or search; all three nest the same
// instruction/entry tree under different roots. Each entry contributes its
// direct tweet plus any tweets bundled in a module (conversation threads),
// flattened in order. Records that fail to map are skipped; a truncated tree
// degrades to whatever was already collected.
func extractTimelineTweets(body []byte) []*Tweet {
	var raw struct {
		Data struct {
			Home struct {
				HomeTimelineURT timelineObj `json:"home_timeline_urt"`
			} `json:"home"`
			User struct {
				Result struct {
					Timeline struct {
						Timeline timelineObj `json:"timeline"`
					} `json:"timeline"`
					TimelineV2 struct {
						Timeline timelineObj `json:"timeline"`
					} `json:"timeline_v2"`
				} `json:"result"`
			} `json:"user"`
			SearchByRawQuery struct {
				SearchTimeline struct {
					Timeline timelineObj `json:"timeline"`
				} `json:"search_timeline"`
			} `json:"search_by_raw_query"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	instructions := raw.Data.Home.HomeTimelineURT.Instructions
	if len(instructions) == 0 {
		instructions = raw.Data.User.Result.TimelineV2.Timeline.Instructions
	}
	if len(instructions) == 0 {
		instructions = raw.Data.User.Result.Timeline.Timeline.Instructions
	}
	if len(instructions) == 0 {
		instructions = raw.Data.SearchByRawQuery.SearchTimeline.Timeline.Instructions
	}

	var tweets []*Tweet
	for _, instruction := range instructions {
		entries := instruction.Entries
		if instruction.Entry != nil {
			entries = append(entries, *instruction.Entry)
		}
		for _, entry := range entries {
			if ic := entry.Content.ItemContent; ic != nil {
				if t := mapTweet(ic.TweetResults.Result); t != nil {
					tweets = append(tweets, t)
				}
			}
			for _, item := range entry.Content.Items {
				if ic := item.Item.ItemContent; ic != nil {
					if t := mapTweet(ic.TweetResults.Result); t != nil {
						tweets = append(tweets, t)
					}
				}
			}
		}
	}
	return tweets
}

// --- Trends ---

// parseTrends walks the guide.json response behind the Explore tab. Its
// instruction tree predates the GraphQL timelines and nests trends inside
// timelineModule items.
func parseTrends(body []byte) []Trend {
	var raw struct {
		Timeline struct {
			Instructions []struct {
				AddEntries struct {
					Entries []struct {
						Content struct {
							TimelineModule struct {
								Items []struct {
									Item struct {
										Content struct {
											Trend *struct {
												Name          string `json:"name"`
												TrendMetadata struct {
													MetaDescription string `json:"metaDescription"`
													DomainContext   string `json:"domainContext"`
												} `json:"trendMetadata"`
											} `json:"trend"`
										} `json:"content"`
									} `json:"item"`
								} `json:"items"`
							} `json:"timelineModule"`
						} `json:"content"`
					} `json:"entries"`
				} `json:"addEntries"`
			} `json:"instructions"`
		} `json:"timeline"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	var trends []Trend
	for _, instruction := range raw.Timeline.Instructions {
		for _, entry := range instruction.AddEntries.Entries {
			for _, item := range entry.Content.TimelineModule.Items {
				trend := item.Item.Content.Trend
				if trend == nil || trend.Name == "" {
					continue
				}
				t := Trend{
					Name:        trend.Name,
					Description: trend.TrendMetadata.MetaDescription,
					Domain:      trend.TrendMetadata.DomainContext,
				}
				if n, ok := parseTrendVolume(trend.TrendMetadata.MetaDescription); ok {
					t.TweetCount = &n
				}
				trends = append(trends, t)
			}
		}
	}
	return trends
}

// parseTrendVolume derives an approximate volume from a free-text meta
// description like "12.3K posts" by concatenating its digit characters.
// The digits are kept losslessly ("12.3K" yields 123), never scaled.
func parseTrendVolume(desc string) (int, bool) {
	var digits []byte
	for i := 0; i < len(desc); i++ {
		if desc[i] >= '0' && desc[i] <= '9' {
			digits = append(digits, desc[i])
		}
	}
	if len(digits) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, false
	}
	return n, true
}
