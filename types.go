package twitter

// Author identifies the account that wrote a tweet.
type Author struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Verified        bool   `json:"verified"`
}

// Media is a single attachment on a tweet (photo, video, animated_gif).
type Media struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// Tweet represents a single tweet. ID and Author are always populated on a
// valid tweet; a raw record missing either is dropped by the mapper rather
// than surfaced half-built.
type Tweet struct {
	ID               string  `json:"id"`
	Text             string  `json:"text"`
	Author           Author  `json:"author"`
	CreatedAt        string  `json:"created_at"`
	Likes            int     `json:"likes"`
	Retweets         int     `json:"retweets"`
	Replies          int     `json:"replies"`
	Quotes           int     `json:"quotes"`
	Bookmarks        int     `json:"bookmarks"`
	Views            *int    `json:"views,omitempty"`
	Language         string  `json:"language,omitempty"`
	InReplyToTweetID string  `json:"in_reply_to_tweet_id,omitempty"`
	ConversationID   string  `json:"conversation_id,omitempty"`
	Media            []Media `json:"media,omitempty"`
}

// UserProfile represents a Twitter/X account profile.
type UserProfile struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	ProfileImageURL  string `json:"profile_image_url"`
	ProfileBannerURL string `json:"profile_banner_url,omitempty"`
	Followers        int    `json:"followers_count"`
	Following        int    `json:"following_count"`
	TweetCount       int    `json:"tweet_count"`
	Verified         bool   `json:"verified"`
	CreatedAt        string `json:"created_at"`
	Location         string `json:"location,omitempty"`
	URL              string `json:"url,omitempty"`
}

// Trend is one entry from the trending-topics guide.
type Trend struct {
	Name        string `json:"name"`
	TweetCount  *int   `json:"tweet_count,omitempty"`
	Description string `json:"description,omitempty"`
	Domain      string `json:"domain,omitempty"`
}

// PostOutcome reports how a browser-driven post attempt concluded.
type PostOutcome int

const (
	// PostConfirmed means the success toast or a navigation away from the
	// compose surface was observed after submission.
	PostConfirmed PostOutcome = iota
	// PostIndeterminate means submission was issued but neither confirmation
	// signal appeared within the wait budget. The tweet may or may not exist.
	PostIndeterminate
)

func (o PostOutcome) String() string {
	if o == PostConfirmed {
		return "confirmed"
	}
	return "indeterminate"
}
