package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"pingme/internal/domain"
)

// HeadlessCLI handles JSON-based headless operation: one request per line
// on stdin, one response per line on stdout, events interleaved.
type HeadlessCLI struct {
	handler *CommandHandler
	reader  *bufio.Reader
	writer  io.Writer
	mu      sync.Mutex
}

// NewHeadlessCLI creates a new headless CLI
func NewHeadlessCLI(handler *CommandHandler) *HeadlessCLI {
	return &HeadlessCLI{
		handler: handler,
		reader:  bufio.NewReader(os.Stdin),
		writer:  os.Stdout,
	}
}

// Run starts the headless JSON processing loop
func (cli *HeadlessCLI) Run(ctx context.Context) error {
	cli.sendResponse(Response{
		Success: true,
		Data:    map[string]string{"status": "ready", "mode": "headless"},
	})

	eventChan := cli.handler.SubscribeEvents([]domain.EventType{
		domain.EventTypeMessageSent,
		domain.EventTypeChatRead,
		domain.EventTypeTypingUpdated,
		domain.EventTypeSessionChanged,
	})

	go cli.streamEvents(eventChan)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			line, err := cli.reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil
				}
				cli.sendError("", fmt.Sprintf("read error: %v", err))
				continue
			}

			cli.processRequest(ctx, line)
		}
	}
}

func (cli *HeadlessCLI) processRequest(ctx context.Context, line string) {
	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		cli.sendError("", fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if req.Command == "" {
		cli.sendError(req.ID, "missing command field")
		return
	}

	switch req.Command {
	case "set-typing":
		// Presence injection for scripted drivers; not a prompt command.
		cli.handleSetTyping(req)
		return
	case "quit", "exit":
		cli.sendResponse(Response{
			ID:      req.ID,
			Success: true,
			Data:    map[string]string{"message": "goodbye"},
		})
		os.Exit(0)
		return
	}

	cmd := &Command{
		Name: req.Command,
		Args: cli.paramsToArgs(req.Command, req.Params),
	}

	result, err := cli.handler.Execute(ctx, cmd)
	if err != nil {
		cli.sendError(req.ID, err.Error())
		return
	}

	cli.sendResponse(Response{
		ID:      req.ID,
		Success: true,
		Data:    result,
	})
}

func (cli *HeadlessCLI) paramsToArgs(command string, params map[string]interface{}) []string {
	if params == nil {
		return nil
	}

	var args []string

	str := func(key string) {
		if v, ok := params[key].(string); ok && v != "" {
			args = append(args, v)
		}
	}

	switch command {
	case "login":
		str("email")
		str("password")

	case "register":
		str("email")
		str("password")
		str("name")

	case "chats", "ls":
		str("filter")

	case "open", "o", "unread", "typing":
		str("chat_id")

	case "send":
		str("chat_id")
		str("text")

	case "sendimg":
		str("chat_id")
		str("image")
		str("caption")

	case "emoji":
		if index, ok := params["index"].(float64); ok {
			args = append(args, fmt.Sprintf("%d", int(index)))
		}
	}

	return args
}

func (cli *HeadlessCLI) handleSetTyping(req Request) {
	chatID, _ := req.Params["chat_id"].(string)
	userID, _ := req.Params["user_id"].(string)
	isTyping, _ := req.Params["is_typing"].(bool)

	if err := cli.handler.chat.SetTyping(chatID, userID, isTyping); err != nil {
		cli.sendError(req.ID, err.Error())
		return
	}
	cli.sendResponse(Response{
		ID:      req.ID,
		Success: true,
		Data:    TypingInfo{ChatID: chatID, IsTyping: isTyping, UserID: userID},
	})
}

func (cli *HeadlessCLI) streamEvents(eventChan <-chan domain.Event) {
	for event := range eventChan {
		cli.sendEvent(Event{
			Type:      string(event.Type()),
			Timestamp: event.Timestamp(),
			Data:      eventData(event),
		})
	}
}

func eventData(event domain.Event) interface{} {
	switch ev := event.(type) {
	case domain.MessageSentEvent:
		return map[string]interface{}{
			"chat_id":    ev.Message.ChatID,
			"message_id": ev.Message.ID,
			"sender_id":  ev.Message.SenderID,
			"text":       ev.Message.Text,
		}
	case domain.ChatReadEvent:
		return map[string]interface{}{"chat_id": ev.ChatID}
	case domain.TypingUpdatedEvent:
		return map[string]interface{}{
			"chat_id":   ev.ChatID,
			"is_typing": ev.Status.IsTyping,
			"user_id":   ev.Status.UserID,
		}
	case domain.SessionChangedEvent:
		data := map[string]interface{}{"logged_in": ev.User != nil}
		if ev.User != nil {
			data["user_id"] = ev.User.ID
		}
		return data
	default:
		return nil
	}
}

func (cli *HeadlessCLI) sendResponse(resp Response) {
	cli.mu.Lock()
	defer cli.mu.Unlock()

	data, _ := json.Marshal(resp)
	fmt.Fprintln(cli.writer, string(data))
}

func (cli *HeadlessCLI) sendError(id, message string) {
	cli.sendResponse(Response{
		ID:      id,
		Success: false,
		Error:   message,
	})
}

func (cli *HeadlessCLI) sendEvent(event Event) {
	cli.mu.Lock()
	defer cli.mu.Unlock()

	data, _ := json.Marshal(map[string]interface{}{
		"type":      "event",
		"event":     event.Type,
		"timestamp": event.Timestamp,
		"data":      event.Data,
	})
	fmt.Fprintln(cli.writer, string(data))
}
