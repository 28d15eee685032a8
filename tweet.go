package url2mda

import (
	"context"
	"encoding/json"
)

// Tweet is the subset of the public syndication payload the formatter uses,
// plus the raw payload for downstream machine consumption.
type Tweet struct {
	Text              string       `json:"text"`
	CreatedAt         string       `json:"created_at"`
	FavoriteCount     int          `json:"favorite_count"`
	ConversationCount int          `json:"conversation_count"`
	User              *TweetUser   `json:"user"`
	Photos            []TweetPhoto `json:"photos"`

	// Raw is the unmodified upstream payload.
	Raw json.RawMessage `json:"-"`
}

// TweetUser identifies the post author.
type TweetUser struct {
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

// TweetPhoto is one attached media item.
type TweetPhoto struct {
	URL string `json:"url"`
}

// TweetService reads public microblog posts by id without authentication.
type TweetService interface {
	// Tweet fetches the post with the given id. Returns an ENOTFOUND
	// error when the post does not exist or carries no text.
	Tweet(ctx context.Context, id string) (*Tweet, error)
}
