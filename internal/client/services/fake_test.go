package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
)

// fakeAPI implements every API interface of the package. Outputs are preset
// per method; inputs are captured in last* fields.
type fakeAPI struct {
	mu sync.Mutex

	loginResp *models.AuthResponse
	loginErr  error
	lastCreds models.Credentials

	registerResp *models.AuthResponse
	registerErr  error

	meResp  *models.User
	meErr   error
	meCalls int

	updateResp  *models.User
	updateErr   error
	lastUpdate  *models.ProfileUpdateBody
	updateCalls int

	apiKey    string
	apiKeyErr error

	logoutErr   error
	logoutCalls int

	resetReqErr   error
	lastResetMail string
	resetErr      error
	lastResetTok  string
	available     bool
	checkErr      error

	// search is consulted first; when nil searchResp/searchErr are used.
	search      func(ctx context.Context, req models.SearchRequest) (json.RawMessage, error)
	searchResp  json.RawMessage
	searchErr   error
	searchCalls []models.SearchRequest

	newsResp     json.RawMessage
	newsErr      error
	lastNewsQ    string
	lastNewsCat  string
	lastNewsLim  int
	suggestResp  []string
	suggestErr   error
	suggestCalls []string

	favorites     []models.Favorite
	favoritesErr  error
	favCalls      int
	addID         models.ID
	addErr        error
	lastAdd       *models.NewFavorite
	removeErr     error
	lastRemove    models.ID
	removeCalls   int
	statsResp     *models.StatsSnapshot
	statsErr      error
	lastRange     string
	systemResp    *models.SystemStats
	systemCalls   int
	searchAnResp  *models.SearchAnalytics
	favAnResp     *models.FavoritesAnalytics
	analyticsErr  error
	historyResp   map[int]*models.HistoryPage
	historyErr    error
	historyCalls  []historyCall
	clearErr      error
	clearCalls    int
	sendErr       error
	lastForm      *models.ContactForm
	messagesResp  *models.MessagePage
	messagesErr   error
	messagesCalls int
	messageResp   *models.ContactMessage
	messageErr    error
	setReadErr    error
	lastSetRead   struct {
		id     models.ID
		isRead bool
	}
}

type historyCall struct {
	page, limit int
	term        string
}

func (f *fakeAPI) Login(_ context.Context, c models.Credentials) (*models.AuthResponse, error) {
	f.lastCreds = c
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Register(context.Context, models.Registration) (*models.AuthResponse, error) {
	return f.registerResp, f.registerErr
}

func (f *fakeAPI) Me(context.Context) (*models.User, error) {
	f.meCalls++
	return f.meResp, f.meErr
}

func (f *fakeAPI) UpdateProfile(_ context.Context, b models.ProfileUpdateBody) (*models.User, error) {
	f.updateCalls++
	f.lastUpdate = &b
	return f.updateResp, f.updateErr
}

func (f *fakeAPI) RefreshAPIKey(context.Context) (string, error) { return f.apiKey, f.apiKeyErr }

func (f *fakeAPI) Logout(context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAPI) RequestPasswordReset(_ context.Context, email string) error {
	f.lastResetMail = email
	return f.resetReqErr
}

func (f *fakeAPI) ResetPassword(_ context.Context, token, _ string) error {
	f.lastResetTok = token
	return f.resetErr
}

func (f *fakeAPI) CheckEmail(context.Context, string) (bool, error) { return f.available, f.checkErr }

func (f *fakeAPI) Search(ctx context.Context, req models.SearchRequest) (json.RawMessage, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, req)
	fn := f.search
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, req)
	}
	return f.searchResp, f.searchErr
}

func (f *fakeAPI) searches() []models.SearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SearchRequest(nil), f.searchCalls...)
}

func (f *fakeAPI) NewsFeed(_ context.Context, q, cat string, limit int) (json.RawMessage, error) {
	f.lastNewsQ, f.lastNewsCat, f.lastNewsLim = q, cat, limit
	return f.newsResp, f.newsErr
}

func (f *fakeAPI) Suggest(_ context.Context, partial string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestCalls = append(f.suggestCalls, partial)
	return f.suggestResp, f.suggestErr
}

func (f *fakeAPI) suggests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.suggestCalls...)
}

func (f *fakeAPI) Favorites(context.Context) ([]models.Favorite, error) {
	f.favCalls++
	return append([]models.Favorite(nil), f.favorites...), f.favoritesErr
}

func (f *fakeAPI) AddFavorite(_ context.Context, fav models.NewFavorite) (models.ID, error) {
	f.lastAdd = &fav
	return f.addID, f.addErr
}

func (f *fakeAPI) RemoveFavorite(_ context.Context, id models.ID) error {
	f.removeCalls++
	f.lastRemove = id
	return f.removeErr
}

func (f *fakeAPI) Stats(_ context.Context, rng string) (*models.StatsSnapshot, error) {
	f.lastRange = rng
	return f.statsResp, f.statsErr
}

func (f *fakeAPI) SystemStats(context.Context) (*models.SystemStats, error) {
	f.systemCalls++
	return f.systemResp, f.analyticsErr
}

func (f *fakeAPI) SearchAnalytics(context.Context) (*models.SearchAnalytics, error) {
	return f.searchAnResp, f.analyticsErr
}

func (f *fakeAPI) FavoritesAnalytics(context.Context) (*models.FavoritesAnalytics, error) {
	return f.favAnResp, f.analyticsErr
}

func (f *fakeAPI) History(_ context.Context, page, limit int, term string) (*models.HistoryPage, error) {
	f.historyCalls = append(f.historyCalls, historyCall{page: page, limit: limit, term: term})
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.historyResp[page], nil
}

func (f *fakeAPI) ClearHistory(context.Context) error {
	f.clearCalls++
	return f.clearErr
}

func (f *fakeAPI) SendContact(_ context.Context, form models.ContactForm) error {
	f.lastForm = &form
	return f.sendErr
}

func (f *fakeAPI) Messages(context.Context, int, int) (*models.MessagePage, error) {
	f.messagesCalls++
	return f.messagesResp, f.messagesErr
}

func (f *fakeAPI) Message(context.Context, models.ID) (*models.ContactMessage, error) {
	return f.messageResp, f.messageErr
}

func (f *fakeAPI) SetMessageRead(_ context.Context, id models.ID, isRead bool) error {
	f.lastSetRead.id, f.lastSetRead.isRead = id, isRead
	return f.setReadErr
}

type adminFlag bool

func (a adminFlag) IsAdmin() bool { return bool(a) }
