package projects

import "time"

type Project struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Title        string    `bson:"title" json:"title"`
	Description  string    `bson:"description" json:"description"`
	Image        string    `bson:"image" json:"image"`
	Technologies []string  `bson:"technologies" json:"technologies"`
	ProjectURL   string    `bson:"projectUrl,omitempty" json:"projectUrl,omitempty"`
	GithubURL    string    `bson:"githubUrl,omitempty" json:"githubUrl,omitempty"`
	Featured     bool      `bson:"featured" json:"featured"`
	Order        int       `bson:"order" json:"order"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpsertRequest struct {
	Title        string   `json:"title" validate:"notblank,max=100"`
	Description  string   `json:"description" validate:"notblank,max=500"`
	Image        string   `json:"image" validate:"notblank"`
	Technologies []string `json:"technologies" validate:"dive,notblank"`
	ProjectURL   string   `json:"projectUrl" validate:"omitempty,url"`
	GithubURL    string   `json:"githubUrl" validate:"omitempty,url"`
	Featured     *bool    `json:"featured"`
	Order        *int     `json:"order"`
}

// Patch carries the fields of an update. Featured and Order keep the stored
// value when nil; every other field is replaced.
type Patch struct {
	Title        string
	Description  string
	Image        string
	Technologies []string
	ProjectURL   string
	GithubURL    string
	Featured     *bool
	Order        *int
	UpdatedAt    time.Time
}

type ListFilter struct {
	FeaturedOnly bool
}
