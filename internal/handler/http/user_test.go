package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bborisdd/AutoStyle-backend/internal/auth"
	"github.com/bborisdd/AutoStyle-backend/internal/domain"
	"github.com/bborisdd/AutoStyle-backend/internal/service"
	apperrors "github.com/bborisdd/AutoStyle-backend/pkg/errors"
)

// --- Mock UserRepository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// setupUserRouter creates a chi router matching the production user routes.
func setupUserRouter(repo *mockUserRepository) *chi.Mux {
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	codec := newTestCodec()
	svc := service.NewUserService(repo, hasher, codec, testEventProducer(), testLogger())
	authHandler := NewAuthHandler(svc, testLogger())
	userHandler := NewUserHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(Auth(codec))

			r.Get("/me", userHandler.GetMe)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
		})
	})
	return r
}

func storedUser(id int64) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	return &domain.User{
		ID:           id,
		Name:         "Alice Smith",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Phone:        "+111",
	}
}

// --- Register / Login ---

func TestRegister_Returns201WithUsableToken(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 1
		}).
		Return(nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(storedUser(1), nil)

	body, _ := json.Marshal(RegisterRequest{
		Name:     "Alice Smith",
		Email:    "alice@example.com",
		Password: "secret1",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data AuthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Data.Token)

	// The issued token authenticates a follow-up request.
	meReq := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+resp.Data.Token)
	meRec := httptest.NewRecorder()
	router.ServeHTTP(meRec, meReq)

	assert.Equal(t, http.StatusOK, meRec.Code)
}

func TestRegister_InvalidEmail_Returns400(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(repo)

	body, _ := json.Marshal(RegisterRequest{
		Name:     "Alice Smith",
		Email:    "not-an-email",
		Password: "secret1",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail_Returns409(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "alice@example.com"))

	body, _ := json.Marshal(RegisterRequest{
		Name:     "Alice Smith",
		Email:    "alice@example.com",
		Password: "secret1",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_WrongPasswordAndUnknownEmail_SameResponse(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(repo)

	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(storedUser(1), nil)
	repo.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(nil, apperrors.NotFound("user", "nobody@example.com"))

	login := func(email, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(LoginRequest{Email: email, Password: password})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	wrongPass := login("alice@example.com", "wrong")
	unknown := login("nobody@example.com", "whatever")

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)

	// Body must not reveal which of the two failed.
	assert.JSONEq(t, wrongPass.Body.String(), unknown.Body.String())
}

func TestLogin_Success_Returns200(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(repo)

	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(storedUser(1), nil)

	body, _ := json.Marshal(LoginRequest{Email: "alice@example.com", Password: "secret1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data AuthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Data.Token)
}

// --- Ownership on /users/{id} ---

func TestGetUser_Self_Returns200(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(repo)

	repo.On("GetByID", mock.Anything, int64(1)).Return(storedUser(1), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/v1/users/1", nil, 1))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetUser_OtherUser_Returns403(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/v1/users/1", nil, 2))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateUser_OtherUser_Returns403(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(repo)

	body, _ := json.Marshal(UpdateUserRequest{Name: strPtr("Eve")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodPut, "/api/v1/users/1", body, 2))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUser_Self_Returns200(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(repo)

	repo.On("GetByID", mock.Anything, int64(1)).Return(storedUser(1), nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	body, _ := json.Marshal(UpdateUserRequest{Name: strPtr("Alice Cooper"), Phone: strPtr("+222")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodPut, "/api/v1/users/1", body, 1))

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestDeleteUser_OtherUser_Returns403(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodDelete, "/api/v1/users/1", nil, 2))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGetMe_WithoutToken_Returns401(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func strPtr(s string) *string {
	return &s
}
