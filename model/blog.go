package model

import "time"

// PostStatus is the editorial state of a BlogPost.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostArchived  PostStatus = "archived"
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostDraft, PostPublished, PostArchived:
		return true
	}
	return false
}

// BlogPost is an article on the public blog.
type BlogPost struct {
	Base
	Title         string     `gorm:"size:255;not null" json:"title"`
	Excerpt       string     `gorm:"type:text" json:"excerpt"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Category      string     `gorm:"size:100;index" json:"category"`
	ReadTime      int        `json:"readTime,omitempty"`
	Tags          StringList `json:"tags"`
	FeaturedImage string     `gorm:"size:500" json:"featuredImage,omitempty"`
	Status        PostStatus `gorm:"size:20;default:'draft';index" json:"status"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
}

// CreateBlogPostRequest is the body of POST /blog.
type CreateBlogPostRequest struct {
	Title         string     `json:"title" binding:"required"`
	Excerpt       string     `json:"excerpt" binding:"required"`
	Content       string     `json:"content" binding:"required"`
	Category      string     `json:"category" binding:"required"`
	ReadTime      int        `json:"readTime,omitempty"`
	Tags          StringList `json:"tags,omitempty"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Status        PostStatus `json:"status,omitempty"`
}

// BlogPostPatch is the body of PATCH /blog/:id.
type BlogPostPatch struct {
	Title         *string     `json:"title,omitempty"`
	Excerpt       *string     `json:"excerpt,omitempty"`
	Content       *string     `json:"content,omitempty"`
	Category      *string     `json:"category,omitempty"`
	ReadTime      *int        `json:"readTime,omitempty"`
	Tags          *StringList `json:"tags,omitempty"`
	FeaturedImage *string     `json:"featuredImage,omitempty"`
	Status        *PostStatus `json:"status,omitempty"`
}
