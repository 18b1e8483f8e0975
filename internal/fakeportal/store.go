package fakeportal

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/common"
)

var (
	errEmailTaken   = errors.New("email already registered")
	errUnknownToken = errors.New("unknown or used reset token")
)

type account struct {
	user      models.User
	hash      []byte
	createdAt time.Time
}

type searchRecord struct {
	entry models.HistoryEntry
	at    time.Time
}

// memStore is the whole portal state behind one mutex.
type memStore struct {
	mu        sync.Mutex
	accounts  map[models.ID]*account
	byEmail   map[string]models.ID
	revoked   map[string]time.Time
	resets    map[string]models.ID
	favorites map[models.ID][]models.Favorite
	history   map[models.ID][]searchRecord
	messages  []models.ContactMessage
}

func newMemStore() *memStore {
	return &memStore{
		accounts:  map[models.ID]*account{},
		byEmail:   map[string]models.ID{},
		revoked:   map[string]time.Time{},
		resets:    map[string]models.ID{},
		favorites: map[models.ID][]models.Favorite{},
		history:   map[models.ID][]searchRecord{},
	}
}

func newID() models.ID {
	return models.ID(uuid.NewString())
}

func newAPIKey() string {
	k, err := common.MakeRandHexString(24)
	if err != nil {
		// crypto/rand does not fail on supported platforms
		return "sk-" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return "sk-" + k
}

func (m *memStore) createAccount(u models.User, hash []byte, now time.Time) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := normalizeEmail(u.Email)
	if _, ok := m.byEmail[email]; ok {
		return models.User{}, errEmailTaken
	}
	u.ID = newID()
	u.Email = email
	u.APIKey = newAPIKey()
	m.accounts[u.ID] = &account{user: u, hash: hash, createdAt: now}
	m.byEmail[email] = u.ID
	return u, nil
}

func (m *memStore) accountByEmail(email string) (account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[normalizeEmail(email)]
	if !ok {
		return account{}, false
	}
	return *m.accounts[id], true
}

func (m *memStore) account(id models.ID) (account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return account{}, false
	}
	return *a, true
}

func (m *memStore) emailTaken(email string, except models.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[normalizeEmail(email)]
	return ok && id != except
}

// updateAccount applies fn to the stored account and re-indexes its email.
func (m *memStore) updateAccount(id models.ID, fn func(*account) error) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return models.User{}, common.ErrNotFound
	}
	before := a.user.Email
	if err := fn(a); err != nil {
		return models.User{}, err
	}
	a.user.Email = normalizeEmail(a.user.Email)
	if a.user.Email != before {
		if other, ok := m.byEmail[a.user.Email]; ok && other != id {
			a.user.Email = before
			return models.User{}, errEmailTaken
		}
		delete(m.byEmail, before)
		m.byEmail[a.user.Email] = id
	}
	return a.user, nil
}

func (m *memStore) countAccounts(since time.Time) (total, recent int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		total++
		if !a.createdAt.Before(since) {
			recent++
		}
	}
	return total, recent
}

// counts returns the portal-wide totals for the system summary.
func (m *memStore) counts() models.SystemStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := models.SystemStats{TotalUsers: len(m.accounts), TotalMessages: len(m.messages)}
	for _, recs := range m.history {
		st.TotalSearches += len(recs)
	}
	for _, favs := range m.favorites {
		st.TotalFavorites += len(favs)
	}
	for _, msg := range m.messages {
		if !msg.IsRead {
			st.UnreadMessages++
		}
	}
	return st
}

func (m *memStore) revoke(tokenID string, exp time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = exp
}

func (m *memStore) isRevoked(tokenID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok
}

func (m *memStore) addResetToken(token string, id models.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[token] = id
}

// takeResetToken consumes token; reset tokens are single use.
func (m *memStore) takeResetToken(token string) (models.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.resets[token]
	if !ok {
		return "", errUnknownToken
	}
	delete(m.resets, token)
	return id, nil
}

func (m *memStore) listFavorites(user models.ID) []models.Favorite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Favorite{}, m.favorites[user]...)
}

// addFavorite stores f, or returns the existing favorite for the same URL.
func (m *memStore) addFavorite(user models.ID, f models.Favorite) models.Favorite {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.favorites[user] {
		if ex.URL == f.URL {
			return ex
		}
	}
	f.ID = newID()
	m.favorites[user] = append(m.favorites[user], f)
	return f
}

func (m *memStore) removeFavorite(user, id models.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.favorites[user]
	for i, f := range list {
		if f.ID == id {
			m.favorites[user] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

func (m *memStore) recordSearch(user models.ID, e models.HistoryEntry, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = newID()
	m.history[user] = append(m.history[user], searchRecord{entry: e, at: at})
}

// searches returns the user's records newest first, or every user's when
// user is empty.
func (m *memStore) searches(user models.ID) []searchRecord {
	m.mu.Lock()
	var out []searchRecord
	if user != "" {
		out = append(out, m.history[user]...)
	} else {
		for _, recs := range m.history {
			out = append(out, recs...)
		}
	}
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].at.After(out[j].at) })
	return out
}

func (m *memStore) clearHistory(user models.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.history, user)
}

func (m *memStore) addMessage(msg models.ContactMessage) models.ContactMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = newID()
	m.messages = append(m.messages, msg)
	return msg
}

// listMessages returns every message newest first.
func (m *memStore) listMessages() []models.ContactMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ContactMessage, len(m.messages))
	for i, msg := range m.messages {
		out[len(out)-1-i] = msg
	}
	return out
}

func (m *memStore) message(id models.ID) (models.ContactMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return models.ContactMessage{}, false
}

func (m *memStore) setRead(id models.ID, isRead bool) (models.ContactMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].IsRead = isRead
			return m.messages[i], true
		}
	}
	return models.ContactMessage{}, false
}
