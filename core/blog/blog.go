package blog

import "time"

type Post struct {
	ID          string     `json:"id" db:"post_id"`
	Title       string     `json:"title" db:"title"`
	Slug        string     `json:"slug" db:"slug"`
	Content     string     `json:"content" db:"content"`
	Excerpt     string     `json:"excerpt" db:"excerpt"`
	ImageURL    string     `json:"imageUrl" db:"image_url"`
	IsPublished bool       `json:"isPublished" db:"is_published"`
	AuthorID    string     `json:"authorId" db:"author_id"`
	PublishedAt *time.Time `json:"publishedAt" db:"published_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

type PostNew struct {
	Title       string `json:"title" validate:"required"`
	Slug        string `json:"slug" validate:"required"`
	Content     string `json:"content" validate:"required"`
	Excerpt     string `json:"excerpt"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	IsPublished bool   `json:"isPublished"`
}

type PostUp struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Content     *string `json:"content"`
	Excerpt     *string `json:"excerpt"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	IsPublished *bool   `json:"isPublished"`
}
