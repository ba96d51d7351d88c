package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/tokenstore"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest captures what the fake API received.
type recordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	ContentType   string
	Body          []byte
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *fakeAPI) {
	t.Helper()
	f := &fakeAPI{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		f.mu.Unlock()
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		f.handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, f
}

func (f *fakeAPI) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request reached the fake API")
	return f.requests[len(f.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_DefaultsBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
	assert.Equal(t, "http://api.example.com/api", New(" http://api.example.com/api/ ").BaseURL())
}

func TestTokenLifecycle_AuthorizationHeader(t *testing.T) {
	srv, api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			writeJSON(w, http.StatusCreated, model.Service{Name: "Couples", Duration: 50})
			return
		}
		writeJSON(w, http.StatusOK, []model.Service{})
	})
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.GetServices(ctx)
	require.NoError(t, err)
	assert.Empty(t, api.last(t).Authorization)

	c.SetToken("t")
	_, err = c.GetServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer t", api.last(t).Authorization)

	_, err = c.CreateService(ctx, model.CreateServiceRequest{Name: "Couples", Description: "d", Duration: 50})
	require.NoError(t, err)
	assert.Equal(t, "Bearer t", api.last(t).Authorization)

	c.ClearToken()
	_, err = c.GetServices(ctx)
	require.NoError(t, err)
	assert.Empty(t, api.last(t).Authorization)
}

func TestToken_PersistedAcrossClients(t *testing.T) {
	store := tokenstore.NewMemory()

	first := New("http://localhost", WithTokenStore(store))
	assert.Empty(t, first.Token())
	first.SetToken("persisted")

	second := New("http://localhost", WithTokenStore(store))
	assert.Equal(t, "persisted", second.Token(), "token is read from storage at construction")

	second.ClearToken()
	tok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestRequest_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "message field", status: http.StatusBadRequest, body: `{"message":"X"}`, wantMsg: "X"},
		{name: "message list", status: http.StatusBadRequest, body: `{"message":["email must be an email","name should not be empty"]}`, wantMsg: "email must be an email, name should not be empty"},
		{name: "empty body", status: http.StatusInternalServerError, body: "", wantMsg: "HTTP error! status: 500"},
		{name: "unparseable body", status: http.StatusBadGateway, body: "<html>bad gateway</html>", wantMsg: "HTTP error! status: 502"},
		{name: "no message field", status: http.StatusNotFound, body: `{"error":"Not Found"}`, wantMsg: "HTTP error! status: 404"},
		{name: "empty message", status: http.StatusForbidden, body: `{"message":""}`, wantMsg: "HTTP error! status: 403"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			c := New(srv.URL)

			_, err := Request[map[string]interface{}](context.Background(), c, "/anything", RequestOptions{})
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestRequest_NetworkErrorPropagatesUnmodified(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := New(base).GetServices(context.Background())
	require.Error(t, err)

	var urlErr *url.Error
	assert.True(t, errors.As(err, &urlErr), "expected *url.Error, got %T", err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestRequest_HeadersAndEmptyBody(t *testing.T) {
	srv, api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := New(srv.URL)
	c.SetToken("abc")

	out, err := Request[model.User](context.Background(), c, "users/1", RequestOptions{
		Method:  http.MethodGet,
		Headers: map[string]string{"X-Request-Source": "test", "Authorization": "ignored"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.User{}, out)

	got := api.last(t)
	assert.Equal(t, "/users/1", got.Path)
	assert.Equal(t, "application/json", got.ContentType)
	assert.Equal(t, "Bearer abc", got.Authorization, "bearer token wins over caller headers")
}

func TestDelete_SharesRequestPath(t *testing.T) {
	srv, api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/services/gone":
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Service not found"})
		case "/services/listed":
			writeJSON(w, http.StatusOK, []string{"ignored"})
		default:
			writeJSON(w, http.StatusOK, map[string]string{"message": "Service deleted successfully"})
		}
	})
	c := New(srv.URL)
	c.SetToken("abc")
	ctx := context.Background()

	require.NoError(t, c.DeleteService(ctx, "s1"))
	got := api.last(t)
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "application/json", got.ContentType)
	assert.Equal(t, "Bearer abc", got.Authorization)
	assert.Empty(t, got.Body)

	require.NoError(t, c.DeleteService(ctx, "listed"))

	err := c.DeleteService(ctx, "gone")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Service not found", apiErr.Error())
}

func TestRequest_ContextCancellationAbortsCall(t *testing.T) {
	release := make(chan struct{})
	srv, _ := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL).GetServices(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPublishBlogPost(t *testing.T) {
	srv, api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":     "post-1",
			"title":  "Coping with anxiety",
			"status": "published",
			"tags":   `["anxiety","cbt"]`,
		})
	})
	c := New(srv.URL)

	post, err := c.PublishBlogPost(context.Background(), "post-1")
	require.NoError(t, err)

	got := api.last(t)
	assert.Equal(t, http.MethodPatch, got.Method)
	assert.Equal(t, "/blog/post-1/publish", got.Path)
	assert.Empty(t, got.Body)
	assert.Equal(t, model.PostPublished, post.Status)
	assert.Equal(t, model.StringList{"anxiety", "cbt"}, post.Tags)

	_, err = c.UnpublishBlogPost(context.Background(), "post-1")
	require.NoError(t, err)
	assert.Equal(t, "/blog/post-1/unpublish", api.last(t).Path)
}

func TestUpdate_SendsOnlyChangedFields(t *testing.T) {
	srv, api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": "u1", "firstName": "Janet"})
	})
	c := New(srv.URL)

	name := "Janet"
	user, err := c.UpdateUser(context.Background(), "u1", model.UserPatch{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Janet", user.FirstName)

	got := api.last(t)
	assert.Equal(t, http.MethodPatch, got.Method)
	assert.Equal(t, "/users/u1", got.Path)
	assert.JSONEq(t, `{"firstName":"Janet"}`, string(got.Body))

	_, err = c.UpdateAppointmentStatus(context.Background(), "a1", model.AppointmentNoShow)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"no_show"}`, string(api.last(t).Body))
}

func TestResourceRoutes(t *testing.T) {
	srv, api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		lists := map[string]bool{
			"/users":                        true,
			"/appointments/patient/p1":      true,
			"/appointments/available-slots": true,
			"/blog/published":               true,
		}
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && lists[r.URL.Path]:
			writeJSON(w, http.StatusOK, []interface{}{})
		default:
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": "x"})
		}
	})
	c := New(srv.URL)
	ctx := context.Background()

	calls := []struct {
		name   string
		call   func() error
		method string
		path   string
		query  string
	}{
		{"get users", func() error { _, err := c.GetUsers(ctx); return err }, http.MethodGet, "/users", ""},
		{"create user", func() error { _, err := c.CreateUser(ctx, model.CreateUserRequest{FirstName: "J"}); return err }, http.MethodPost, "/users", ""},
		{"delete user", func() error { return c.DeleteUser(ctx, "u 1") }, http.MethodDelete, "/users/u 1", ""},
		{"get service", func() error { _, err := c.GetService(ctx, "s1"); return err }, http.MethodGet, "/services/s1", ""},
		{"delete service", func() error { return c.DeleteService(ctx, "s1") }, http.MethodDelete, "/services/s1", ""},
		{"patient appointments", func() error { _, err := c.GetPatientAppointments(ctx, "p1"); return err }, http.MethodGet, "/appointments/patient/p1", ""},
		{"available slots", func() error { _, err := c.GetAvailableSlots(ctx, "2024-06-01"); return err }, http.MethodGet, "/appointments/available-slots", "date=2024-06-01"},
		{"get appointment", func() error { _, err := c.GetAppointment(ctx, "a1"); return err }, http.MethodGet, "/appointments/a1", ""},
		{"delete appointment", func() error { return c.DeleteAppointment(ctx, "a1") }, http.MethodDelete, "/appointments/a1", ""},
		{"contact submit", func() error { _, err := c.SubmitContactForm(ctx, model.ContactRequest{}); return err }, http.MethodPost, "/contact", ""},
		{"contact update", func() error {
			st := model.MessageRead
			_, err := c.UpdateContactMessage(ctx, "m1", model.ContactMessagePatch{Status: &st})
			return err
		}, http.MethodPatch, "/contact/m1", ""},
		{"published posts", func() error { _, err := c.GetPublishedBlogPosts(ctx); return err }, http.MethodGet, "/blog/published", ""},
		{"delete post", func() error { return c.DeleteBlogPost(ctx, "b1") }, http.MethodDelete, "/blog/b1", ""},
	}

	for _, tc := range calls {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.call())
			got := api.last(t)
			assert.Equal(t, tc.method, got.Method)
			assert.Equal(t, tc.path, got.Path)
			assert.Equal(t, tc.query, got.RawQuery)
		})
	}
}

func TestLogin_SetsTokenAndClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": "admin@example.com",
		"role":  "admin",
		"exp":   exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	srv, api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": signed,
			"user":         map[string]interface{}{"id": "user-1", "email": "admin@example.com", "role": "admin"},
		})
	})
	c := New(srv.URL)

	_, err = c.Claims()
	assert.ErrorIs(t, err, ErrNoToken)

	resp, err := c.Login(context.Background(), "admin@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
	assert.Equal(t, signed, c.Token())
	assert.JSONEq(t, `{"email":"admin@example.com","password":"pw"}`, string(api.last(t).Body))

	claims, err := c.Claims()
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Second)))

	c.Logout()
	assert.Empty(t, c.Token())
}

func TestLogin_FailureKeepsNoToken(t *testing.T) {
	srv, _ := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	})
	c := New(srv.URL)

	_, err := c.Login(context.Background(), "a@b.c", "wrong")
	assert.EqualError(t, err, "Invalid credentials")
	assert.Empty(t, c.Token())
}

func TestWithRateLimit_StillServesRequests(t *testing.T) {
	srv, api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []string{"09:00 AM"})
	})
	c := New(srv.URL, WithRateLimit(1000, 2))

	for i := 0; i < 3; i++ {
		slots, err := c.GetAvailableSlots(context.Background(), "2024-06-01")
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00 AM"}, slots)
	}
	api.mu.Lock()
	assert.Len(t, api.requests, 3)
	api.mu.Unlock()
}
