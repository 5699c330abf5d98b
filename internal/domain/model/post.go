package model

// PostTimeLayout is the creation timestamp format, minute precision.
const PostTimeLayout = "2006-01-02 15:04"

// Post is a single blog entry. Author is a soft reference to a username;
// the store does not verify the referenced user still exists.
type Post struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Topic     string `json:"topic"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// PostView is a Post annotated for one viewer. IsAuthor is a display
// hint, not an access-control decision.
type PostView struct {
	Post
	IsAuthor bool `json:"is_author"`
}
