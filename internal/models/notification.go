package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventPurchaseApproved EventType = "purchase-approved"
	EventAwaitingPayment  EventType = "awaiting-payment"
	EventCartAbandoned    EventType = "cart-abandoned"
)

type UserRole string

const (
	RoleProducer  UserRole = "producer"
	RoleAffiliate UserRole = "affiliate"
)

type Platform string

const (
	PlatformHotmart  Platform = "hotmart"
	PlatformBraip    Platform = "braip"
	PlatformKiwfy    Platform = "kiwfy"
	PlatformMonetize Platform = "monetize"
)

// ProductScopeAll applies a rule to every product; any other scope is a product id.
const ProductScopeAll = "all"

var (
	EventTypes = []EventType{EventPurchaseApproved, EventAwaitingPayment, EventCartAbandoned}
	UserRoles  = []UserRole{RoleProducer, RoleAffiliate}
	Platforms  = []Platform{PlatformHotmart, PlatformBraip, PlatformKiwfy, PlatformMonetize}
)

type NotificationRule struct {
	ID           string    `json:"id"`
	EventType    EventType `json:"event_type"`
	UserRole     UserRole  `json:"user_role"`
	Platform     Platform  `json:"platform"`
	ProfileName  string    `json:"profile_name"`
	InstanceID   string    `json:"instance_id"`
	Messages     []Message `json:"messages"`
	WebhookURL   string    `json:"webhook_url"`
	ProductScope string    `json:"product_scope"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// NotificationInput is the form payload. A non-empty ID means edit mode.
type NotificationInput struct {
	ID           string    `json:"id"`
	EventType    EventType `json:"event_type" binding:"required,wa_event"`
	UserRole     UserRole  `json:"user_role" binding:"required,wa_role"`
	Platform     Platform  `json:"platform" binding:"required,wa_platform"`
	ProfileName  string    `json:"profile_name" binding:"required,max=120"`
	InstanceID   string    `json:"instance_id" binding:"required"`
	Messages     []Message `json:"messages" binding:"required,min=1,max=5,dive"`
	ProductScope string    `json:"product_scope"`
}

type MessageType string

const (
	MessageText     MessageType = "text"
	MessageImage    MessageType = "image"
	MessageVideo    MessageType = "video"
	MessageAudio    MessageType = "audio"
	MessageDocument MessageType = "document"
)

type Message struct {
	ID      string      `json:"id"`
	Type    MessageType `json:"type" binding:"required,wa_msgtype"`
	Content string      `json:"content" binding:"max=4096"`
	FileURL string      `json:"file_url,omitempty"`
	// Delay is in seconds.
	Delay int `json:"delay" binding:"min=0,max=300"`
}

func (m Message) HasPayload() bool {
	if m.Type == MessageText {
		return m.Content != ""
	}
	return m.FileURL != ""
}

const MaxMessages = 5

// MessageList is an ordered message sequence holding between 1 and MaxMessages entries
// once it has been seeded.
type MessageList struct {
	items []Message
}

func MessageListOf(msgs []Message) (*MessageList, error) {
	if len(msgs) == 0 {
		return nil, ErrMessageMinimum
	}
	if len(msgs) > MaxMessages {
		return nil, ErrMessageLimit
	}
	items := make([]Message, len(msgs))
	copy(items, msgs)
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
	return &MessageList{items: items}, nil
}

func (l *MessageList) Len() int { return len(l.items) }

func (l *MessageList) Items() []Message {
	out := make([]Message, len(l.items))
	copy(out, l.items)
	return out
}

func (l *MessageList) Add(m Message) error {
	if len(l.items) >= MaxMessages {
		return ErrMessageLimit
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	l.items = append(l.items, m)
	return nil
}

func (l *MessageList) Remove(id string) error {
	if len(l.items) <= 1 {
		return ErrMessageMinimum
	}
	for i, m := range l.items {
		if m.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return nil
		}
	}
	return ErrMessageIndex
}

func (l *MessageList) Move(from, to int) error {
	if from < 0 || from >= len(l.items) || to < 0 || to >= len(l.items) {
		return ErrMessageIndex
	}
	m := l.items[from]
	l.items = append(l.items[:from], l.items[from+1:]...)
	l.items = append(l.items[:to], append([]Message{m}, l.items[to:]...)...)
	return nil
}
