package endpoint

import (
	"time"

	"github.com/ariebrainware/psych-practice/content"
	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/gin-gonic/gin"
)

// ListBlogPosts returns every post, drafts included.
// GET /blog
func ListBlogPosts(c *gin.Context) {
	listBlogPosts(c, false)
}

// ListPublishedBlogPosts returns published posts, newest first.
// GET /blog/published
func ListPublishedBlogPosts(c *gin.Context) {
	listBlogPosts(c, true)
}

func listBlogPosts(c *gin.Context, publishedOnly bool) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	q := parseQueryParams(c)
	query := db
	if publishedOnly {
		query = q.apply(query.Where("status = ?", model.PostPublished), "published_at")
	} else {
		query = q.apply(query, "created_at")
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if q.Keyword != "" {
		kw := likeKeyword(q.Keyword)
		query = query.Where("title LIKE ? OR excerpt LIKE ?", kw, kw)
	}

	posts := []model.BlogPost{}
	if err := query.Find(&posts).Error; err != nil {
		util.CallServerError(c, "Failed to retrieve blog posts", err)
		return
	}
	util.CallSuccessOK(c, posts)
}

// GetBlogPost returns a post. Drafts are hidden from anonymous readers.
// GET /blog/:id
func GetBlogPost(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var post model.BlogPost
	if !findOrRespond(c, db, &post, "Blog post") {
		return
	}
	if post.Status != model.PostPublished && !callerRole(c).IsBackOffice() {
		util.CallErrorNotFound(c, "Blog post not found")
		return
	}
	util.CallSuccessOK(c, post)
}

// CreateBlogPost adds a post, draft unless a status is given. readTime is
// derived from the content when omitted.
// POST /blog
func CreateBlogPost(c *gin.Context) {
	var req model.CreateBlogPostRequest
	if !bindJSONOrRespond(c, &req) {
		return
	}
	status := req.Status
	if status == "" {
		status = model.PostDraft
	}
	if !status.Valid() {
		util.CallUserError(c, "Invalid status")
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	post := model.BlogPost{
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Category:      req.Category,
		ReadTime:      req.ReadTime,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		Status:        status,
	}
	if post.ReadTime <= 0 {
		post.ReadTime = content.ReadTime(post.Content)
	}
	if status == model.PostPublished {
		now := time.Now()
		post.PublishedAt = &now
	}
	if !createOrRespond(c, db, &post, "Blog post") {
		return
	}
	util.CallCreated(c, post)
}

// UpdateBlogPost applies a partial update.
// PATCH /blog/:id
func UpdateBlogPost(c *gin.Context) {
	var p model.BlogPostPatch
	if !bindJSONOrRespond(c, &p) {
		return
	}
	if p.Status != nil && !p.Status.Valid() {
		util.CallUserError(c, "Invalid status")
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var post model.BlogPost
	if !findOrRespond(c, db, &post, "Blog post") {
		return
	}

	set(&post.Title, p.Title)
	set(&post.Excerpt, p.Excerpt)
	set(&post.Content, p.Content)
	set(&post.Category, p.Category)
	set(&post.ReadTime, p.ReadTime)
	set(&post.Tags, p.Tags)
	set(&post.FeaturedImage, p.FeaturedImage)
	if p.Content != nil && p.ReadTime == nil {
		post.ReadTime = content.ReadTime(post.Content)
	}
	if p.Status != nil {
		setPostStatus(&post, *p.Status, time.Now())
	}

	if !saveOrRespond(c, db, &post, "Blog post") {
		return
	}
	util.CallSuccessOK(c, post)
}

// PublishBlogPost marks a post published now.
// PATCH /blog/:id/publish
func PublishBlogPost(c *gin.Context) {
	changeBlogStatus(c, model.PostPublished)
}

// UnpublishBlogPost returns a post to draft.
// PATCH /blog/:id/unpublish
func UnpublishBlogPost(c *gin.Context) {
	changeBlogStatus(c, model.PostDraft)
}

func changeBlogStatus(c *gin.Context, status model.PostStatus) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var post model.BlogPost
	if !findOrRespond(c, db, &post, "Blog post") {
		return
	}
	setPostStatus(&post, status, time.Now())
	if !saveOrRespond(c, db, &post, "Blog post") {
		return
	}
	util.CallSuccessOK(c, post)
}

// setPostStatus keeps PublishedAt consistent with status. Re-publishing a
// published post keeps its original date.
func setPostStatus(post *model.BlogPost, status model.PostStatus, now time.Time) {
	switch {
	case status == model.PostPublished && post.Status != model.PostPublished:
		post.PublishedAt = &now
	case status == model.PostDraft:
		post.PublishedAt = nil
	}
	post.Status = status
}

// DeleteBlogPost removes a post.
// DELETE /blog/:id
func DeleteBlogPost(c *gin.Context) {
	deleteByID(c, &model.BlogPost{}, "Blog post")
}
