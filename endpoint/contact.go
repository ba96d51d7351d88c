package endpoint

import (
	"strings"
	"time"

	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/gin-gonic/gin"
)

// SubmitContact stores a message from the public contact form.
// POST /contact
func SubmitContact(c *gin.Context) {
	var req model.ContactRequest
	if !bindJSONOrRespond(c, &req) {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	msg := model.ContactMessage{
		FirstName: util.NormalizeName(req.FirstName),
		LastName:  util.NormalizeName(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    model.MessageUnread,
	}
	if !createOrRespond(c, db, &msg, "Contact message") {
		return
	}
	util.CallCreated(c, msg)
}

// ListContactMessages returns messages, newest first, optionally by ?status=.
// GET /contact
func ListContactMessages(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	q := parseQueryParams(c)
	query := q.apply(db, "created_at")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if q.Keyword != "" {
		kw := likeKeyword(q.Keyword)
		query = query.Where("email LIKE ? OR subject LIKE ? OR message LIKE ?", kw, kw, kw)
	}

	msgs := []model.ContactMessage{}
	if err := query.Find(&msgs).Error; err != nil {
		util.CallServerError(c, "Failed to retrieve contact messages", err)
		return
	}
	util.CallSuccessOK(c, msgs)
}

// GetContactMessage returns one message.
// GET /contact/:id
func GetContactMessage(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var msg model.ContactMessage
	if !findOrRespond(c, db, &msg, "Contact message") {
		return
	}
	util.CallSuccessOK(c, msg)
}

// UpdateContactMessage changes status or records a reply. A reply without an
// explicit status marks the message replied.
// PATCH /contact/:id
func UpdateContactMessage(c *gin.Context) {
	var p model.ContactMessagePatch
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
	var msg model.ContactMessage
	if !findOrRespond(c, db, &msg, "Contact message") {
		return
	}

	if p.Reply != nil && *p.Reply != msg.Reply {
		now := time.Now()
		msg.Reply = *p.Reply
		msg.RepliedAt = &now
		msg.Status = model.MessageReplied
	}
	set(&msg.Status, p.Status)

	if !saveOrRespond(c, db, &msg, "Contact message") {
		return
	}
	util.CallSuccessOK(c, msg)
}

// DeleteContactMessage removes a message.
// DELETE /contact/:id
func DeleteContactMessage(c *gin.Context) {
	deleteByID(c, &model.ContactMessage{}, "Contact message")
}
