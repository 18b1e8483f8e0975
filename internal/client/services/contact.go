package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/client/validation"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

type Contact struct {
	api ContactAPI
	log logging.Logger
}

func NewContact(api ContactAPI, log logging.Logger) *Contact {
	return &Contact{api: api, log: log.With("service", "contact")}
}

// Send validates the form locally before submitting it.
func (c *Contact) Send(ctx context.Context, form models.ContactForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Subject = strings.TrimSpace(form.Subject)
	if err := validation.Contact(form); err != nil {
		return err
	}
	if err := c.api.SendContact(ctx, form); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	c.log.Info(ctx, "contact message sent")
	return nil
}

// AdminGate reports whether the current user may review messages.
// *session.Session satisfies it.
type AdminGate interface {
	IsAdmin() bool
}

// MessageReview is the admin inbox. Every operation checks the gate first;
// non-admins get ErrAdminRequired and no request is made.
type MessageReview struct {
	api   ContactAPI
	gate  AdminGate
	log   logging.Logger
	limit int

	mu       sync.Mutex
	gen      uint64
	page     int
	pages    int
	messages []models.ContactMessage
	open     *models.ContactMessage
	states   tracker[models.ID]
}

func NewMessageReview(api ContactAPI, gate AdminGate, limit int, log logging.Logger) *MessageReview {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &MessageReview{
		api:    api,
		gate:   gate,
		log:    log.With("service", "messages"),
		limit:  limit,
		page:   1,
		pages:  1,
		states: tracker[models.ID]{},
	}
}

func (m *MessageReview) Load(ctx context.Context, page int) error {
	if !m.gate.IsAdmin() {
		return ErrAdminRequired
	}
	if page < 1 {
		page = 1
	}

	m.mu.Lock()
	gen := m.gen
	m.mu.Unlock()

	p, err := m.api.Messages(ctx, page, m.limit)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return ErrStale
	}
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	m.page = page
	m.pages = 1
	m.messages = []models.ContactMessage{}
	if p != nil {
		if p.Pages > 1 {
			m.pages = p.Pages
		}
		if p.Messages != nil {
			m.messages = p.Messages
		}
	}
	if m.open != nil && m.indexLocked(m.open.ID) < 0 {
		m.open = nil
	}
	return nil
}

func (m *MessageReview) Next(ctx context.Context) (bool, error) {
	m.mu.Lock()
	page, pages := m.page, m.pages
	m.mu.Unlock()
	if page >= pages {
		return false, nil
	}
	return true, m.Load(ctx, page+1)
}

func (m *MessageReview) Prev(ctx context.Context) (bool, error) {
	m.mu.Lock()
	page := m.page
	m.mu.Unlock()
	if page <= 1 {
		return false, nil
	}
	return true, m.Load(ctx, page-1)
}

func (m *MessageReview) indexLocked(id models.ID) int {
	for i, msg := range m.messages {
		if msg.ID == id {
			return i
		}
	}
	return -1
}

// Open selects a message from the loaded page.
func (m *MessageReview) Open(id models.ID) (models.ContactMessage, error) {
	if !m.gate.IsAdmin() {
		return models.ContactMessage{}, ErrAdminRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return models.ContactMessage{}, ErrMessageNotListed
	}
	msg := m.messages[i]
	m.open = &msg
	return msg, nil
}

// Detail fetches one message from the server and opens it.
func (m *MessageReview) Detail(ctx context.Context, id models.ID) (models.ContactMessage, error) {
	if !m.gate.IsAdmin() {
		return models.ContactMessage{}, ErrAdminRequired
	}
	m.mu.Lock()
	gen := m.gen
	m.mu.Unlock()

	msg, err := m.api.Message(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return models.ContactMessage{}, ErrStale
	}
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("load message %s: %w", id, err)
	}
	open := *msg
	if open.ID == "" {
		open.ID = id
	}
	m.open = &open
	return open, nil
}

// MarkRead sets the read flag; after the server confirms, the list entry
// and the open message (when it is the same one) change together.
func (m *MessageReview) MarkRead(ctx context.Context, id models.ID, isRead bool) error {
	if !m.gate.IsAdmin() {
		return ErrAdminRequired
	}

	m.mu.Lock()
	if err := m.states.begin(id); err != nil {
		m.mu.Unlock()
		return err
	}
	gen := m.gen
	m.mu.Unlock()

	err := m.api.SetMessageRead(ctx, id, isRead)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return ErrStale
	}
	m.states.settle(id, err)
	if err != nil {
		return fmt.Errorf("update message %s: %w", id, err)
	}
	if i := m.indexLocked(id); i >= 0 {
		m.messages[i].IsRead = isRead
	}
	if m.open != nil && m.open.ID == id {
		m.open.IsRead = isRead
	}
	return nil
}

func (m *MessageReview) Messages() []models.ContactMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ContactMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Opened returns a copy of the open message, or nil.
func (m *MessageReview) Opened() *models.ContactMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open == nil {
		return nil
	}
	c := *m.open
	return &c
}

func (m *MessageReview) Unread() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if !msg.IsRead {
			n++
		}
	}
	return n
}

func (m *MessageReview) Page() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page
}

func (m *MessageReview) Pages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pages
}

func (m *MessageReview) State(id models.ID) SyncState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[id]
}

func (m *MessageReview) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.page, m.pages = 1, 1
	m.messages = []models.ContactMessage{}
	m.open = nil
	m.states = tracker[models.ID]{}
}
