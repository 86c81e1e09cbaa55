package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"neurocrypt/src/auth"
	"neurocrypt/src/model"
	"neurocrypt/src/repository"
)

type userStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type authResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

// SignupHandler registers a new account and returns a bearer token for it.
func SignupHandler(users userStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload model.SignupPayload
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid signup payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		payload.Username = strings.TrimSpace(payload.Username)
		payload.Email = strings.TrimSpace(payload.Email)
		if payload.Username == "" || payload.Email == "" || payload.Password == "" {
			http.Error(w, "Username, email and password are required", http.StatusBadRequest)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.WithError(err).Error("failed to hash password")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		user := &model.User{
			Username:     payload.Username,
			Email:        payload.Email,
			PasswordHash: string(hashedPassword),
		}
		if err := users.Create(r.Context(), user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				http.Error(w, "Username or email already taken", http.StatusConflict)
				return
			}
			logger.WithError(err).Error("failed to create user")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		token, err := auth.IssueToken(user)
		if err != nil {
			logger.WithError(err).Error("failed to issue token after signup")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(authResponse{Token: token, User: user.ToResponse()}); err != nil {
			logger.WithError(err).Error("failed to encode signup response")
		}
	}
}

// LoginHandler exchanges credentials for a bearer token.
func LoginHandler(users userStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload model.LoginPayload
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid login payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		user, err := users.FindByUsername(r.Context(), strings.TrimSpace(payload.Username))
		if err != nil {
			logger.WithError(err).Error("failed to look up user during login")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if user == nil {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
			logger.WithField("username", payload.Username).Warn("password mismatch during login")
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		token, err := auth.IssueToken(user)
		if err != nil {
			logger.WithError(err).Error("failed to issue token after login")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(authResponse{Token: token, User: user.ToResponse()}); err != nil {
			logger.WithError(err).Error("failed to encode login response")
		}
	}
}

// MeHandler returns the authenticated user's profile.
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(user.ToResponse()); err != nil {
			logger.WithError(err).Error("failed to encode user response")
		}
	}
}

// DefaultSignupHandler wires the handler to the production repository implementation.
func DefaultSignupHandler() http.HandlerFunc {
	return SignupHandler(repository.NewUserRepository())
}

// DefaultLoginHandler wires the handler to the production repository implementation.
func DefaultLoginHandler() http.HandlerFunc {
	return LoginHandler(repository.NewUserRepository())
}
