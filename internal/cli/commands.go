package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pingme/internal/domain"
	"pingme/internal/service"
)

// CommandHandler executes CLI commands against the session and chat services
type CommandHandler struct {
	session *service.SessionService
	chat    *service.ChatService
	bus     domain.EventBus
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(session *service.SessionService, chat *service.ChatService, bus domain.EventBus) *CommandHandler {
	return &CommandHandler{
		session: session,
		chat:    chat,
		bus:     bus,
	}
}

// Command represents a parsed command
type Command struct {
	Name string
	Args []string
}

// ParseCommand parses a command string (e.g., "/send chat1 Hello there")
func ParseCommand(input string) (*Command, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty command")
	}

	if !strings.HasPrefix(input, "/") {
		return nil, fmt.Errorf("commands must start with /")
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	args := parts[1:]

	return &Command{Name: name, Args: args}, nil
}

// SubscribeEvents exposes the event stream to the frontends
func (h *CommandHandler) SubscribeEvents(types []domain.EventType) <-chan domain.Event {
	return h.bus.Subscribe(types)
}

// Execute executes a command and returns the result
func (h *CommandHandler) Execute(ctx context.Context, cmd *Command) (interface{}, error) {
	switch cmd.Name {
	case "help", "h":
		return h.cmdHelp()
	case "status", "s":
		return h.cmdStatus()
	case "login":
		return h.cmdLogin(ctx, cmd.Args)
	case "register":
		return h.cmdRegister(ctx, cmd.Args)
	case "logout":
		return h.cmdLogout(ctx)
	case "chats", "ls":
		return h.cmdChats(cmd.Args)
	case "open", "o":
		return h.cmdOpen(cmd.Args)
	case "send":
		return h.cmdSend(cmd.Args)
	case "sendimg":
		return h.cmdSendImage(cmd.Args)
	case "unread":
		return h.cmdUnread(cmd.Args)
	case "typing":
		return h.cmdTyping(cmd.Args)
	case "emoji":
		return h.cmdEmoji(cmd.Args)
	case "quit", "exit", "q":
		return map[string]bool{"quit": true}, nil
	default:
		return nil, fmt.Errorf("unknown command: %s. Type /help for available commands", cmd.Name)
	}
}

func (h *CommandHandler) cmdHelp() (interface{}, error) {
	help := `Available commands:

Session:
  /status, /s                    Show session status
  /login <email> <password>      Sign in (demo password: "password")
  /register <email> <password> <name...>  Create an account
  /logout                        Sign out

Conversations:
  /chats, /ls [filter]           List conversations, newest first
  /open, /o <chat_id>            Open a conversation (marks it read)
  /send <chat_id> <text...>      Send a text message
  /sendimg <chat_id> <uri> [caption...]  Send an image
  /unread <chat_id>              Show the unread count
  /typing <chat_id>              Show the typing indicator

Composer:
  /emoji                         Show the emoji palette
  /emoji <n>                     Add palette glyph n to the draft
  <text>                         Send the draft + text to the open chat

Other:
  /help, /h                      Show this help
  /quit, /q                      Exit`

	return map[string]string{"help": help}, nil
}

func (h *CommandHandler) cmdStatus() (interface{}, error) {
	info := SessionInfo{Loading: h.session.Loading()}
	if user := h.session.Current(); user != nil {
		info.LoggedIn = true
		info.User = &UserInfo{ID: user.ID, Name: user.Name, Email: user.Email, Avatar: user.Avatar}
	}
	return info, nil
}

func (h *CommandHandler) cmdLogin(ctx context.Context, args []string) (interface{}, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("usage: /login <email> <password>")
	}
	if !h.session.Login(ctx, args[0], args[1]) {
		return nil, domain.ErrInvalidCredentials
	}
	h.chat.Initialize(h.session.Current())
	return h.cmdStatus()
}

func (h *CommandHandler) cmdRegister(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("usage: /register <email> <password> <name...>")
	}
	email, password := args[0], args[1]
	name := strings.Join(args[2:], " ")
	if !h.session.Register(ctx, name, email, password) {
		return nil, domain.ErrEmailTaken
	}
	h.chat.Initialize(h.session.Current())
	return h.cmdStatus()
}

func (h *CommandHandler) cmdLogout(ctx context.Context) (interface{}, error) {
	h.session.Logout(ctx)
	h.chat.Clear()
	return map[string]string{"message": "Logged out"}, nil
}

func (h *CommandHandler) cmdChats(args []string) (interface{}, error) {
	if h.session.Current() == nil {
		return nil, domain.ErrNoSession
	}

	filter := ""
	if len(args) > 0 {
		filter = strings.Join(args, " ")
	}

	convs := h.chat.Conversations(filter)
	chats := make([]ChatInfo, 0, len(convs))
	for _, conv := range convs {
		chats = append(chats, h.toChatInfo(conv))
	}

	return map[string]interface{}{"chats": chats, "filter": filter}, nil
}

func (h *CommandHandler) cmdOpen(args []string) (interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: /open <chat_id>")
	}
	chatID := args[0]

	conv, err := h.chat.Conversation(chatID)
	if err != nil {
		return nil, err
	}
	if err := h.chat.MarkAsRead(chatID); err != nil {
		return nil, err
	}

	view := ConversationView{ChatID: chatID}
	if partner, ok := h.chat.OtherParticipant(conv); ok {
		view.PartnerName = partner.Name
		view.Online = partner.Online
		view.LastActive = partner.LastActive
	}
	for _, group := range h.chat.MessagesByDay(chatID) {
		day := DayGroupInfo{Date: group.Date.Format("2006-01-02")}
		for _, msg := range group.Messages {
			day.Messages = append(day.Messages, h.toMessageInfo(msg))
		}
		view.Days = append(view.Days, day)
	}

	return view, nil
}

func (h *CommandHandler) cmdSend(args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /send <chat_id> <text>")
	}
	msg, err := h.chat.SendMessage(args[0], strings.Join(args[1:], " "), "")
	if err != nil {
		return nil, err
	}
	return h.toMessageInfo(msg), nil
}

func (h *CommandHandler) cmdSendImage(args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /sendimg <chat_id> <uri> [caption]")
	}
	caption := ""
	if len(args) > 2 {
		caption = strings.Join(args[2:], " ")
	}
	msg, err := h.chat.SendMessage(args[0], caption, args[1])
	if err != nil {
		return nil, err
	}
	return h.toMessageInfo(msg), nil
}

func (h *CommandHandler) cmdUnread(args []string) (interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: /unread <chat_id>")
	}
	return map[string]interface{}{
		"chat_id": args[0],
		"unread":  h.chat.UnreadCount(args[0]),
	}, nil
}

func (h *CommandHandler) cmdTyping(args []string) (interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: /typing <chat_id>")
	}
	status := h.chat.TypingStatus(args[0])
	return TypingInfo{ChatID: args[0], IsTyping: status.IsTyping, UserID: status.UserID}, nil
}

func (h *CommandHandler) cmdEmoji(args []string) (interface{}, error) {
	if len(args) == 0 {
		return map[string]interface{}{"palette": Palette}, nil
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("usage: /emoji [n]")
	}
	glyph, err := PickEmoji(index)
	if err != nil {
		return nil, err
	}
	return map[string]string{"emoji": glyph}, nil
}

// SendDraft sends composer text to a conversation on behalf of a frontend.
func (h *CommandHandler) SendDraft(chatID, text string) (MessageInfo, error) {
	msg, err := h.chat.SendMessage(chatID, text, "")
	if err != nil {
		return MessageInfo{}, err
	}
	return h.toMessageInfo(msg), nil
}

func (h *CommandHandler) toChatInfo(conv *domain.Conversation) ChatInfo {
	info := ChatInfo{
		ID:          conv.ID,
		UnreadCount: h.chat.UnreadCount(conv.ID),
	}
	if partner, ok := h.chat.OtherParticipant(conv); ok {
		info.Name = partner.Name
		info.Online = partner.Online
	}
	if lm := conv.LastMessage; lm != nil {
		info.LastMessageText = lm.Text
		info.LastMessageTime = lm.Timestamp
		info.LastMessageRead = lm.Read
		if user := h.chat.Current(); user != nil {
			info.LastMessageMine = lm.SenderID == user.ID
		}
	}
	return info
}

func (h *CommandHandler) toMessageInfo(msg *domain.Message) MessageInfo {
	info := MessageInfo{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		SenderID:  msg.SenderID,
		Text:      msg.Text,
		Image:     msg.Image,
		Timestamp: msg.Timestamp,
		IsRead:    msg.Read,
	}
	if user := h.chat.Current(); user != nil {
		info.IsFromMe = msg.SenderID == user.ID
	}
	if profile, ok := h.chat.Profile(msg.SenderID); ok {
		info.SenderName = profile.Name
	} else if info.IsFromMe {
		info.SenderName = h.chat.Current().Name
	}
	return info
}
