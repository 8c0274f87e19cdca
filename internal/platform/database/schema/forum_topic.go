package schema

// ForumTopicTable represents the 'forum.topic' table
type ForumTopicTable struct {
	Table          string
	ID             string
	CategoryID     string
	AuthorID       string
	Title          string
	Slug           string
	IsPinned       string
	IsLocked       string
	PostCount      string
	LastActivityAt string
	CreatedAt      string
	UpdatedAt      string
}

// ForumTopic is the schema definition for forum.topic
var ForumTopic = ForumTopicTable{
	Table:          "forum.topic",
	ID:             "id",
	CategoryID:     "categoryid",
	AuthorID:       "authorid",
	Title:          "title",
	Slug:           "slug",
	IsPinned:       "ispinned",
	IsLocked:       "islocked",
	PostCount:      "postcount",
	LastActivityAt: "lastactivityat",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t ForumTopicTable) Columns() []string {
	return []string{
		t.ID, t.CategoryID, t.AuthorID, t.Title, t.Slug, t.IsPinned, t.IsLocked,
		t.PostCount, t.LastActivityAt, t.CreatedAt, t.UpdatedAt,
	}
}
