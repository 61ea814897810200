package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/eliseohh/ytbot/internal/paginator"
	tele "gopkg.in/telebot.v3"
)

// navUnique is the callback endpoint shared by every navigation button. The
// button data carries the action name.
const navUnique = "pg"

var navBtn = tele.Btn{Unique: navUnique}

// api is the part of *tele.Bot the messenger needs.
type api interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	EditReplyMarkup(msg tele.Editable, markup *tele.ReplyMarkup) (*tele.Message, error)
}

// chatMessenger renders pager sessions into one Telegram chat. Telegram drops
// the inline keyboard on a text edit unless it is sent again, so attached
// markups are remembered per message.
type chatMessenger struct {
	api  api
	chat tele.Recipient

	mu      sync.Mutex
	markups map[paginator.MessageID]*tele.ReplyMarkup
}

func newChatMessenger(a api, chat tele.Recipient) *chatMessenger {
	return &chatMessenger{
		api:     a,
		chat:    chat,
		markups: make(map[paginator.MessageID]*tele.ReplyMarkup),
	}
}

func (m *chatMessenger) Send(_ context.Context, text string) (paginator.MessageID, error) {
	msg, err := m.api.Send(m.chat, text)
	if err != nil {
		return "", err
	}
	return messageID(msg.Chat.ID, msg.ID), nil
}

func (m *chatMessenger) Edit(_ context.Context, id paginator.MessageID, text string) error {
	stored, err := storedMessage(id)
	if err != nil {
		return err
	}

	var opts []interface{}
	m.mu.Lock()
	if mk := m.markups[id]; mk != nil {
		opts = append(opts, mk)
	}
	m.mu.Unlock()

	_, err = m.api.Edit(stored, text, opts...)
	return err
}

func (m *chatMessenger) Attach(_ context.Context, id paginator.MessageID, actions []paginator.Action) error {
	stored, err := storedMessage(id)
	if err != nil {
		return err
	}

	mk := navMarkup(actions)
	if _, err := m.api.EditReplyMarkup(stored, mk); err != nil {
		return err
	}

	m.mu.Lock()
	m.markups[id] = mk
	m.mu.Unlock()
	return nil
}

func (m *chatMessenger) Clear(_ context.Context, id paginator.MessageID) error {
	m.mu.Lock()
	delete(m.markups, id)
	m.mu.Unlock()

	stored, err := storedMessage(id)
	if err != nil {
		return err
	}
	// A nil markup removes the keyboard.
	_, err = m.api.EditReplyMarkup(stored, nil)
	return err
}

func navMarkup(actions []paginator.Action) *tele.ReplyMarkup {
	mk := &tele.ReplyMarkup{}
	btns := make([]tele.Btn, 0, len(actions))
	for _, a := range actions {
		btns = append(btns, mk.Data(a.Symbol(), navUnique, a.String()))
	}
	mk.Inline(mk.Row(btns...))
	return mk
}

func messageID(chatID int64, msgID int) paginator.MessageID {
	return paginator.MessageID(fmt.Sprintf("%d:%d", chatID, msgID))
}

func storedMessage(id paginator.MessageID) (tele.StoredMessage, error) {
	chat, msg, ok := strings.Cut(string(id), ":")
	if !ok {
		return tele.StoredMessage{}, fmt.Errorf("malformed message id %q", id)
	}
	chatID, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return tele.StoredMessage{}, fmt.Errorf("malformed message id %q: %w", id, err)
	}
	return tele.StoredMessage{ChatID: chatID, MessageID: msg}, nil
}

func userID(u *tele.User) paginator.UserID {
	return paginator.UserID(strconv.FormatInt(u.ID, 10))
}
