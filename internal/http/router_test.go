package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"heartlink/internal/apierr"
	"heartlink/internal/conversation"
	"heartlink/internal/http/handler"
	"heartlink/internal/model"
)

// --- mocks ---

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Login(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	args := m.Called(creds)
	return args.Get(0).(model.AuthResponse), args.Error(1)
}

func (m *mockAPI) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Conversation), args.Error(1)
}

func (m *mockAPI) UnreadCount(ctx context.Context) (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *mockAPI) PotentialMatches(ctx context.Context) ([]model.PotentialMatch, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PotentialMatch), args.Error(1)
}

func (m *mockAPI) Act(ctx context.Context, targetUserID, action string) (model.MatchActionResult, error) {
	args := m.Called(targetUserID, action)
	return args.Get(0).(model.MatchActionResult), args.Error(1)
}

func (m *mockAPI) Matches(ctx context.Context) ([]model.Match, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Match), args.Error(1)
}

func (m *mockAPI) Register(ctx context.Context, creds model.Credentials) (model.StatusMessage, error) {
	args := m.Called(creds)
	return args.Get(0).(model.StatusMessage), args.Error(1)
}

func (m *mockAPI) VerifyEmail(ctx context.Context, token string) (model.StatusMessage, error) {
	args := m.Called(token)
	return args.Get(0).(model.StatusMessage), args.Error(1)
}

func (m *mockAPI) ForgotPassword(ctx context.Context, email string) (model.StatusMessage, error) {
	args := m.Called(email)
	return args.Get(0).(model.StatusMessage), args.Error(1)
}

func (m *mockAPI) ResetPassword(ctx context.Context, token, password string) (model.StatusMessage, error) {
	args := m.Called(token, password)
	return args.Get(0).(model.StatusMessage), args.Error(1)
}

func (m *mockAPI) Profile(ctx context.Context) (model.ProfileResponse, error) {
	args := m.Called()
	return args.Get(0).(model.ProfileResponse), args.Error(1)
}

func (m *mockAPI) CreateProfile(ctx context.Context, profile model.Profile) (model.ProfileResponse, error) {
	args := m.Called(profile)
	return args.Get(0).(model.ProfileResponse), args.Error(1)
}

func (m *mockAPI) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.ProfileResponse, error) {
	args := m.Called(update)
	return args.Get(0).(model.ProfileResponse), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Set(ctx context.Context, token string) error {
	return m.Called(token).Error(0)
}

func (m *mockStore) Clear(ctx context.Context) error {
	return m.Called().Error(0)
}

type mockView struct {
	mock.Mock
}

func (m *mockView) Open(ctx context.Context, matchID string) error {
	return m.Called(matchID).Error(0)
}

func (m *mockView) Close() {
	m.Called()
}

func (m *mockView) SetDraft(draft string) {
	m.Called(draft)
}

func (m *mockView) Send(ctx context.Context, content string) (model.Message, error) {
	args := m.Called(content)
	return args.Get(0).(model.Message), args.Error(1)
}

func (m *mockView) Retry(ctx context.Context, id string) (model.Message, error) {
	args := m.Called(id)
	return args.Get(0).(model.Message), args.Error(1)
}

func (m *mockView) View(now time.Time, labels *conversation.Labels) conversation.View {
	return m.Called().Get(0).(conversation.View)
}

// --- helpers ---

func newTestRouter(api *mockAPI, store *mockStore, view *mockView) http.Handler {
	labels := conversation.EnglishLabels()
	return NewRouter(Handlers{
		Session:      handler.NewSessionHandler(api, store, view, zerolog.Nop()),
		Account:      handler.NewAccountHandler(api),
		Profile:      handler.NewProfileHandler(api),
		Conversation: handler.NewConversationHandler(view, api, labels, time.UTC),
		Match:        handler.NewMatchHandler(api),
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(new(mockAPI), new(mockStore), new(mockView)), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestRouter(new(mockAPI), new(mockStore), new(mockView)), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginStoresToken(t *testing.T) {
	api, store := new(mockAPI), new(mockStore)
	creds := model.Credentials{Email: "ann@example.com", Password: "pw"}
	api.On("Login", creds).Return(model.AuthResponse{Token: "tok"}, nil)
	store.On("Set", "tok").Return(nil)

	rec := do(t, newTestRouter(api, store, new(mockView)), http.MethodPost, "/session", `{"email":"ann@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	store.AssertExpectations(t)
}

func TestLoginFailure(t *testing.T) {
	api := new(mockAPI)
	api.On("Login", mock.Anything).Return(model.AuthResponse{}, &apierr.APIError{StatusCode: 401, Message: "Invalid credentials"})

	rec := do(t, newTestRouter(api, new(mockStore), new(mockView)), http.MethodPost, "/session", `{"email":"a@b.co","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginMalformedBody(t *testing.T) {
	rec := do(t, newTestRouter(new(mockAPI), new(mockStore), new(mockView)), http.MethodPost, "/session", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClosesConversation(t *testing.T) {
	store, view := new(mockStore), new(mockView)
	view.On("Close").Once()
	store.On("Clear").Return(nil).Once()

	rec := do(t, newTestRouter(new(mockAPI), store, view), http.MethodDelete, "/session", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	view.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestListConversationsRequiresSession(t *testing.T) {
	api := new(mockAPI)
	api.On("ListConversations").Return(nil, apierr.ErrAuthenticationRequired)

	rec := do(t, newTestRouter(api, new(mockStore), new(mockView)), http.MethodGet, "/conversations", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnread(t *testing.T) {
	api := new(mockAPI)
	api.On("UnreadCount").Return(4, nil)

	rec := do(t, newTestRouter(api, new(mockStore), new(mockView)), http.MethodGet, "/conversations/unread", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unreadCount":4}`, rec.Body.String())
}

func TestOpenRendersView(t *testing.T) {
	view := new(mockView)
	view.On("Open", "m1").Return(nil)
	view.On("View").Return(conversation.View{MatchID: "m1", Title: "Bo", Groups: []conversation.GroupView{}})

	rec := do(t, newTestRouter(new(mockAPI), new(mockStore), view), http.MethodPut, "/conversations/m1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var v conversation.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "m1", v.MatchID)
}

func TestOpenFailureStillRendersView(t *testing.T) {
	view := new(mockView)
	view.On("Open", "m1").Return(&apierr.APIError{StatusCode: 500, Message: "Failed to fetch messages"})
	view.On("View").Return(conversation.View{MatchID: "m1", LoadError: "Failed to fetch messages (status 500)"})

	rec := do(t, newTestRouter(new(mockAPI), new(mockStore), view), http.MethodPut, "/conversations/m1", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "loadError")
}

func TestSendCreated(t *testing.T) {
	view := new(mockView)
	view.On("Send", "hello").Return(model.Message{ID: "srv-1", Content: "hello", DeliveryState: model.DeliveryConfirmed}, nil)

	rec := do(t, newTestRouter(new(mockAPI), new(mockStore), view), http.MethodPost, "/conversations/current/messages", `{"content":"hello"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSendFailureReturnsFailedEntry(t *testing.T) {
	view := new(mockView)
	failed := model.Message{ID: "temp-1-x", Content: "hello", DeliveryState: model.DeliveryFailed}
	view.On("Send", "hello").Return(failed, &apierr.APIError{Message: apierr.NetworkErrorMessage})

	rec := do(t, newTestRouter(new(mockAPI), new(mockStore), view), http.MethodPost, "/conversations/current/messages", `{"content":"hello"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body struct {
		Error   string        `json:"error"`
		Message model.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, model.DeliveryFailed, body.Message.DeliveryState)
}

func TestSendBlankAndDuplicate(t *testing.T) {
	view := new(mockView)
	view.On("Send", " ").Return(model.Message{}, apierr.ErrEmptyContent)
	view.On("Send", "again").Return(model.Message{}, apierr.ErrDuplicateSend)
	h := newTestRouter(new(mockAPI), new(mockStore), view)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/conversations/current/messages", `{"content":" "}`).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/conversations/current/messages", `{"content":"again"}`).Code)
}

func TestRetryNotFound(t *testing.T) {
	view := new(mockView)
	view.On("Retry", "nope").Return(model.Message{}, conversation.ErrMessageNotFound)

	rec := do(t, newTestRouter(new(mockAPI), new(mockStore), view), http.MethodPost, "/conversations/current/messages/nope/retry", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDraftAndClose(t *testing.T) {
	view := new(mockView)
	view.On("SetDraft", "typing").Once()
	view.On("View").Return(conversation.View{Draft: "typing"})
	view.On("Close").Once()
	h := newTestRouter(new(mockAPI), new(mockStore), view)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/conversations/current/draft", `{"draft":"typing"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/conversations/current", "").Code)
	view.AssertExpectations(t)
}

func TestMatchAction(t *testing.T) {
	api := new(mockAPI)
	api.On("Act", "u2", "like").Return(model.MatchActionResult{IsMatch: true}, nil)

	rec := do(t, newTestRouter(api, new(mockStore), new(mockView)), http.MethodPost, "/matches/action", `{"targetUserId":"u2","action":"like"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isMatch":true`)
}

func TestMatchesEmptyList(t *testing.T) {
	api := new(mockAPI)
	api.On("Matches").Return(nil, nil)
	api.On("PotentialMatches").Return(nil, errors.New("boom"))
	h := newTestRouter(api, new(mockStore), new(mockView))

	rec := do(t, h, http.MethodGet, "/matches", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, http.StatusInternalServerError, do(t, h, http.MethodGet, "/matches/potential", "").Code)
}

func TestRegisterCreatesAccount(t *testing.T) {
	api := new(mockAPI)
	creds := model.Credentials{Email: "ann@example.com", Password: "pw", Name: "Ann"}
	api.On("Register", creds).Return(model.StatusMessage{Message: "Check your email"}, nil)

	rec := do(t, newTestRouter(api, new(mockStore), new(mockView)), http.MethodPost, "/account", `{"email":"ann@example.com","password":"pw","name":"Ann"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Check your email"}`, rec.Body.String())
}

func TestVerifyEmailPassesToken(t *testing.T) {
	api := new(mockAPI)
	api.On("VerifyEmail", "abc123").Return(model.StatusMessage{}, &apierr.APIError{StatusCode: 400, Message: "Invalid or expired token"})

	rec := do(t, newTestRouter(api, new(mockStore), new(mockView)), http.MethodGet, "/account/verify/abc123", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	api.AssertExpectations(t)
}

func TestPasswordRecovery(t *testing.T) {
	api := new(mockAPI)
	api.On("ForgotPassword", "ann@example.com").Return(model.StatusMessage{Message: "sent"}, nil)
	api.On("ResetPassword", "tok9", "new-secret").Return(model.StatusMessage{Message: "reset"}, nil)
	h := newTestRouter(api, new(mockStore), new(mockView))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/password/forgot", `{"email":"ann@example.com"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/password/reset/tok9", `{"password":"new-secret"}`).Code)
	api.AssertExpectations(t)
}

func TestProfileRoutes(t *testing.T) {
	api := new(mockAPI)
	bio := "new bio"
	api.On("Profile").Return(model.ProfileResponse{ID: "u1", Profile: model.Profile{Name: "Ann"}}, nil)
	api.On("CreateProfile", mock.MatchedBy(func(p model.Profile) bool { return p.Name == "Ann" && p.Age == 29 })).
		Return(model.ProfileResponse{ID: "u1"}, nil)
	api.On("UpdateProfile", model.ProfileUpdate{Bio: &bio}).Return(model.ProfileResponse{ID: "u1"}, nil)
	h := newTestRouter(api, new(mockStore), new(mockView))

	rec := do(t, h, http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Ann"`)

	assert.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/profile", `{"name":"Ann","age":29,"gender":"female","bio":"hi"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPatch, "/profile", `{"bio":"new bio"}`).Code)
	api.AssertExpectations(t)
}

func TestProfileRequiresSession(t *testing.T) {
	api := new(mockAPI)
	api.On("Profile").Return(model.ProfileResponse{}, apierr.ErrAuthenticationRequired)

	rec := do(t, newTestRouter(api, new(mockStore), new(mockView)), http.MethodGet, "/profile", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
