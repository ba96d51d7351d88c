package model

import "time"

// MessageStatus tracks how far a contact message has been handled.
type MessageStatus string

const (
	MessageUnread   MessageStatus = "unread"
	MessageRead     MessageStatus = "read"
	MessageReplied  MessageStatus = "replied"
	MessageArchived MessageStatus = "archived"
)

// Valid reports whether s is a known message status.
func (s MessageStatus) Valid() bool {
	switch s {
	case MessageUnread, MessageRead, MessageReplied, MessageArchived:
		return true
	}
	return false
}

// ContactMessage is an inquiry sent through the public contact form.
type ContactMessage struct {
	Base
	FirstName string        `gorm:"size:100;not null" json:"firstName"`
	LastName  string        `gorm:"size:100" json:"lastName"`
	Email     string        `gorm:"size:191;index;not null" json:"email"`
	Phone     string        `gorm:"size:50" json:"phone,omitempty"`
	Subject   string        `gorm:"size:255" json:"subject,omitempty"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    MessageStatus `gorm:"size:20;default:'unread'" json:"status"`
	Reply     string        `gorm:"type:text" json:"reply,omitempty"`
	RepliedAt *time.Time    `json:"repliedAt,omitempty"`
}

// ContactRequest is the body of POST /contact.
type ContactRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Message   string `json:"message" binding:"required"`
}

// ContactMessagePatch is the body of PATCH /contact/:id.
type ContactMessagePatch struct {
	Status *MessageStatus `json:"status,omitempty"`
	Reply  *string        `json:"reply,omitempty"`
}
