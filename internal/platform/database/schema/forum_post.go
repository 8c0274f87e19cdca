package schema

// ForumPostTable represents the 'forum.post' table
type ForumPostTable struct {
	Table     string
	ID        string
	TopicID   string
	AuthorID  string
	Body      string
	CreatedAt string
	UpdatedAt string
}

// ForumPost is the schema definition for forum.post
var ForumPost = ForumPostTable{
	Table:     "forum.post",
	ID:        "id",
	TopicID:   "topicid",
	AuthorID:  "authorid",
	Body:      "body",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t ForumPostTable) Columns() []string {
	return []string{t.ID, t.TopicID, t.AuthorID, t.Body, t.CreatedAt, t.UpdatedAt}
}
