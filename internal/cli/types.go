package cli

import "time"

// Request represents a JSON request in headless mode
type Request struct {
	ID      string                 `json:"id,omitempty"`
	Command string                 `json:"command"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// Response represents a JSON response in headless mode
type Response struct {
	ID      string      `json:"id,omitempty"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Event represents a real-time event in headless mode
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// UserInfo represents the session identity for responses
type UserInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// SessionInfo represents session state for responses
type SessionInfo struct {
	LoggedIn bool      `json:"logged_in"`
	Loading  bool      `json:"loading"`
	User     *UserInfo `json:"user,omitempty"`
}

// ChatInfo represents one inbox row for responses
type ChatInfo struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Online          bool      `json:"online"`
	UnreadCount     int       `json:"unread_count"`
	LastMessageText string    `json:"last_message_text,omitempty"`
	LastMessageTime time.Time `json:"last_message_time,omitempty"`
	LastMessageMine bool      `json:"last_message_mine,omitempty"`
	LastMessageRead bool      `json:"last_message_read,omitempty"`
}

// MessageInfo represents message information for responses
type MessageInfo struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	Text       string    `json:"text,omitempty"`
	Image      string    `json:"image,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	IsFromMe   bool      `json:"is_from_me"`
	IsRead     bool      `json:"is_read"`
}

// DayGroupInfo is one calendar-day bucket of a conversation view
type DayGroupInfo struct {
	Date     string        `json:"date"`
	Messages []MessageInfo `json:"messages"`
}

// ConversationView is the detail-screen payload: the partner header plus
// the day-bucketed history
type ConversationView struct {
	ChatID      string         `json:"chat_id"`
	PartnerName string         `json:"partner_name"`
	Online      bool           `json:"online"`
	LastActive  time.Time      `json:"last_active,omitempty"`
	Days        []DayGroupInfo `json:"days"`
}

// TypingInfo represents a typing indicator for responses
type TypingInfo struct {
	ChatID   string `json:"chat_id"`
	IsTyping bool   `json:"is_typing"`
	UserID   string `json:"user_id,omitempty"`
}
