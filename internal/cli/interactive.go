package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"pingme/internal/domain"
)

// InteractiveCLI is the prompt-loop frontend: the login screen, the inbox
// and the conversation view rolled into one /command interface. Plain input
// goes to the open conversation's composer.
type InteractiveCLI struct {
	handler *CommandHandler
	reader  *bufio.Reader
	writer  io.Writer

	// Composer state is shared with the event goroutine.
	mu         sync.Mutex
	activeChat string
	draft      string
}

// NewInteractiveCLI creates a new interactive CLI
func NewInteractiveCLI(handler *CommandHandler) *InteractiveCLI {
	return &InteractiveCLI{
		handler: handler,
		reader:  bufio.NewReader(os.Stdin),
		writer:  os.Stdout,
	}
}

// Notify renders session notifications as transient toast lines.
func (cli *InteractiveCLI) Notify(title, detail string) {
	cli.printf("\n[%s] %s\n", title, detail)
}

// Run starts the interactive CLI loop
func (cli *InteractiveCLI) Run(ctx context.Context) error {
	cli.printWelcome()

	eventChan := cli.handler.SubscribeEvents([]domain.EventType{
		domain.EventTypeTypingUpdated,
		domain.EventTypeSessionChanged,
	})

	go cli.handleEvents(eventChan)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			cli.print("\n> ")
			line, err := cli.reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			if !strings.HasPrefix(line, "/") {
				cli.handleComposer(line)
				continue
			}

			if err := cli.processCommand(ctx, line); err != nil {
				if err.Error() == "quit" {
					cli.println("Goodbye!")
					return nil
				}
				// Auth failures already surfaced as a toast via Notify.
				if !errors.Is(err, domain.ErrInvalidCredentials) && !errors.Is(err, domain.ErrEmailTaken) {
					cli.printf("Error: %s\n", err)
				}
			}
		}
	}
}

func (cli *InteractiveCLI) printWelcome() {
	cli.println("===========================================")
	cli.println("  pingme")
	cli.println("===========================================")
	cli.println("Type /help for available commands")
	cli.println("")

	status, _ := cli.handler.cmdStatus()
	if s, ok := status.(SessionInfo); ok {
		if s.User != nil {
			cli.printf("Signed in as %s <%s>\n", s.User.Name, s.User.Email)
		} else {
			cli.println("Not signed in. Use /login <email> <password>")
		}
	}
}

// openComposer points the composer at a conversation and drops any draft.
func (cli *InteractiveCLI) openComposer(chatID string) {
	cli.mu.Lock()
	defer cli.mu.Unlock()
	cli.activeChat = chatID
	cli.draft = ""
}

func (cli *InteractiveCLI) resetComposer() {
	cli.openComposer("")
}

func (cli *InteractiveCLI) composerTarget() string {
	cli.mu.Lock()
	defer cli.mu.Unlock()
	return cli.activeChat
}

// takeDraft clears the draft and returns it with the line appended.
func (cli *InteractiveCLI) takeDraft(line string) string {
	cli.mu.Lock()
	defer cli.mu.Unlock()
	text := cli.draft + line
	cli.draft = ""
	return text
}

func (cli *InteractiveCLI) appendDraft(glyph string) string {
	cli.mu.Lock()
	defer cli.mu.Unlock()
	cli.draft += glyph
	return cli.draft
}

// handleComposer sends plain input (plus any emoji draft) to the open chat.
func (cli *InteractiveCLI) handleComposer(line string) {
	chatID := cli.composerTarget()
	if chatID == "" {
		cli.println("No open conversation. Use /open <chat_id> first.")
		return
	}

	msg, err := cli.handler.SendDraft(chatID, cli.takeDraft(line))
	if err != nil {
		cli.printf("Error: %s\n", err)
		return
	}
	cli.printf("[%s] Me: %s ✓\n", msg.Timestamp.Format("15:04"), msg.Text)
}

func (cli *InteractiveCLI) processCommand(ctx context.Context, input string) error {
	cmd, err := ParseCommand(input)
	if err != nil {
		return err
	}

	// login/register block on the simulated backend delay
	if cmd.Name == "login" || cmd.Name == "register" {
		cli.println("Signing in...")
	}

	result, err := cli.handler.Execute(ctx, cmd)
	if err != nil {
		return err
	}

	if m, ok := result.(map[string]bool); ok && m["quit"] {
		return fmt.Errorf("quit")
	}

	cli.displayResult(cmd.Name, result)
	return nil
}

func (cli *InteractiveCLI) displayResult(cmdName string, result interface{}) {
	switch cmdName {
	case "help", "h":
		if m, ok := result.(map[string]string); ok {
			cli.println(m["help"])
		}

	case "status", "s", "login", "register":
		if s, ok := result.(SessionInfo); ok {
			if s.User != nil {
				cli.printf("Signed in as %s <%s>\n", s.User.Name, s.User.Email)
			} else {
				cli.println("Not signed in")
			}
		}

	case "logout":
		cli.resetComposer()

	case "chats", "ls":
		if m, ok := result.(map[string]interface{}); ok {
			chats, _ := m["chats"].([]ChatInfo)
			if filter, _ := m["filter"].(string); filter != "" {
				cli.printf("Conversations matching %q:\n\n", filter)
			} else if len(chats) == 0 {
				cli.println("No conversations yet. Start chatting with someone!")
				return
			}
			for _, chat := range chats {
				presence := " "
				if chat.Online {
					presence = "*"
				}
				unread := ""
				if chat.UnreadCount > 0 {
					unread = fmt.Sprintf(" [%d unread]", chat.UnreadCount)
				}
				cli.printf("%s %s — %s%s\n", presence, chat.ID, chat.Name, unread)
				if chat.LastMessageText != "" {
					preview := chat.LastMessageText
					if len(preview) > 50 {
						preview = preview[:50] + "..."
					}
					prefix := ""
					if chat.LastMessageMine {
						prefix = "You: "
					}
					cli.printf("   %s%s (%s)\n", prefix, preview, relativeTime(chat.LastMessageTime))
				}
			}
		}

	case "open", "o":
		if view, ok := result.(ConversationView); ok {
			cli.openComposer(view.ChatID)

			cli.printf("--- %s ---\n", view.PartnerName)
			if view.Online {
				cli.println("online")
			} else if !view.LastActive.IsZero() {
				cli.printf("last active %s\n", relativeTime(view.LastActive))
			} else {
				cli.println("offline")
			}

			for _, day := range view.Days {
				cli.printf("\n····· %s ·····\n", dayLabel(day.Date))
				for _, msg := range day.Messages {
					cli.printMessage(msg)
				}
			}
			cli.println("\nType a message, or /emoji to open the picker.")
		}

	case "send", "sendimg":
		if msg, ok := result.(MessageInfo); ok {
			cli.printf("Sent to %s at %s\n", msg.ChatID, msg.Timestamp.Format("15:04:05"))
		}

	case "unread":
		if m, ok := result.(map[string]interface{}); ok {
			cli.printf("%s: %d unread\n", m["chat_id"], m["unread"])
		}

	case "typing":
		if info, ok := result.(TypingInfo); ok {
			if info.IsTyping {
				name := info.UserID
				if profile, found := cli.handler.chat.Profile(info.UserID); found {
					name = profile.Name
				}
				cli.printf("%s is typing...\n", name)
			} else {
				cli.println("Nobody is typing")
			}
		}

	case "emoji":
		switch m := result.(type) {
		case map[string]interface{}:
			palette, _ := m["palette"].([]string)
			for i, glyph := range palette {
				cli.printf("%3d %s ", i+1, glyph)
				if (i+1)%8 == 0 {
					cli.println("")
				}
			}
			cli.println("\nUse /emoji <n> to add a glyph to your draft.")
		case map[string]string:
			cli.printf("Draft: %s\n", cli.appendDraft(m["emoji"]))
		}

	default:
		if m, ok := result.(map[string]string); ok {
			if msg, exists := m["message"]; exists {
				cli.println(msg)
				return
			}
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		cli.println(string(data))
	}
}

func (cli *InteractiveCLI) printMessage(msg MessageInfo) {
	sender := "Me"
	if !msg.IsFromMe && msg.SenderName != "" {
		sender = msg.SenderName
	}
	cli.printf("[%s] %s:\n", msg.Timestamp.Format("15:04"), sender)
	if msg.Text != "" {
		cli.printf("  %s", msg.Text)
	}
	if msg.Image != "" {
		cli.printf("  [image: %s]", msg.Image)
	}
	if msg.IsFromMe {
		if msg.IsRead {
			cli.print(" ✓✓")
		} else {
			cli.print(" ✓")
		}
	}
	cli.println("")
}

func (cli *InteractiveCLI) handleEvents(eventChan <-chan domain.Event) {
	for event := range eventChan {
		switch ev := event.(type) {
		case domain.TypingUpdatedEvent:
			if ev.Status.IsTyping && ev.ChatID == cli.composerTarget() {
				name := ev.Status.UserID
				if profile, ok := cli.handler.chat.Profile(ev.Status.UserID); ok {
					name = profile.Name
				}
				cli.printf("\n[%s is typing...]\n> ", name)
			}
		case domain.SessionChangedEvent:
			if ev.User == nil {
				cli.resetComposer()
			}
		}
	}
}

// dayLabel renders a day separator: "Today" for the current date,
// otherwise the long form.
func dayLabel(date string) string {
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return date
	}
	if t.Format("2006-01-02") == time.Now().Format("2006-01-02") {
		return "Today"
	}
	return t.Format("January 2, 2006")
}

// relativeTime renders timestamps the way the inbox shows them.
func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func (cli *InteractiveCLI) print(s string) {
	fmt.Fprint(cli.writer, s)
}

func (cli *InteractiveCLI) println(s string) {
	fmt.Fprintln(cli.writer, s)
}

func (cli *InteractiveCLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(cli.writer, format, args...)
}
