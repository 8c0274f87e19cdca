package schema

// ForumTagTable represents the 'forum.tag' table
type ForumTagTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	CreatedAt string
}

// ForumTag is the schema definition for forum.tag
var ForumTag = ForumTagTable{
	Table:     "forum.tag",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "createdat",
}

// ForumTopicTagTable represents the 'forum.topictag' join table
type ForumTopicTagTable struct {
	Table   string
	TopicID string
	TagID   string
}

// ForumTopicTag is the schema definition for forum.topictag
var ForumTopicTag = ForumTopicTagTable{
	Table:   "forum.topictag",
	TopicID: "topicid",
	TagID:   "tagid",
}
