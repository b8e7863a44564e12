package blog

import "time"

const DefaultCategory = "General"

type Post struct {
	ID            string     `bson:"_id,omitempty" json:"id"`
	Title         string     `bson:"title" json:"title"`
	Slug          string     `bson:"slug" json:"slug"`
	Content       string     `bson:"content" json:"content"`
	Excerpt       string     `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Author        string     `bson:"author" json:"-"`
	Category      string     `bson:"category" json:"category"`
	Tags          []string   `bson:"tags" json:"tags"`
	FeaturedImage string     `bson:"featuredImage" json:"featuredImage"`
	Published     bool       `bson:"published" json:"published"`
	Views         int64      `bson:"views" json:"views"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
	PublishedAt   *time.Time `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
}

// PublishState is where a post sits in the draft/publish lifecycle.
type PublishState int

const (
	StateDraft PublishState = iota
	// StatePendingStamp is transient: published but publishedAt not yet recorded.
	StatePendingStamp
	StatePublished
)

func (p Post) State() PublishState {
	switch {
	case p.Published && p.PublishedAt == nil:
		return StatePendingStamp
	case p.Published:
		return StatePublished
	default:
		return StateDraft
	}
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PostView is a post as returned to clients, with the author populated.
type PostView struct {
	Post
	Author Author `json:"author"`
}

type CreateRequest struct {
	Title         string   `json:"title" validate:"notblank"`
	Content       string   `json:"content" validate:"notblank"`
	Excerpt       string   `json:"excerpt" validate:"max=200"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featuredImage"`
	Published     bool     `json:"published"`
}

// UpdateRequest is a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Title         *string   `json:"title" validate:"omitempty,notblank"`
	Content       *string   `json:"content" validate:"omitempty,notblank"`
	Excerpt       *string   `json:"excerpt" validate:"omitempty,max=200"`
	Category      *string   `json:"category"`
	Tags          *[]string `json:"tags"`
	FeaturedImage *string   `json:"featuredImage"`
	Published     *bool     `json:"published"`
}

// Patch is the set of stored fields an update rewrites.
type Patch struct {
	Title         *string
	Slug          *string
	Content       *string
	Excerpt       *string
	Category      *string
	Tags          *[]string
	FeaturedImage *string
	Published     *bool
	UpdatedAt     time.Time
}

type PublicListFilter struct {
	Category string
	Tag      string
}

type PublicPage struct {
	Items []PostView `json:"items"`
	Total int64      `json:"total"`
	Page  int64      `json:"page"`
	Limit int64      `json:"limit"`
}
