// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingmock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bureau-foundation/eventdesk/lib/netutil"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// tokenClaims are the claims carried by an issued bearer token.
type tokenClaims struct {
	UserID string       `json:"user_id"`
	Role   booking.Role `json:"role"`
	jwt.RegisteredClaims
}

type contextKey int

const callerKey contextKey = iota

// caller is the authenticated account attached to a request context by
// requireToken.
func caller(ctx context.Context) *user {
	account, _ := ctx.Value(callerKey).(*user)
	return account
}

// IssueToken signs a bearer token for an existing account.
func (server *Server) IssueToken(userID string) (string, error) {
	account, exists := server.lookupUser(userID)
	if !exists {
		return "", ErrUserNotFound
	}
	now := server.clock.Now()
	claims := tokenClaims{
		UserID: account.id,
		Role:   account.role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(server.tokenLifetime)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(server.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Identity returns the full login identity for an account, including a
// freshly issued token.
func (server *Server) Identity(userID string) (booking.Identity, error) {
	token, err := server.IssueToken(userID)
	if err != nil {
		return booking.Identity{}, err
	}
	account, _ := server.lookupUser(userID)
	return booking.Identity{
		ID:    account.id,
		Name:  account.name,
		Email: account.email,
		Role:  account.role,
		Token: token,
	}, nil
}

func (server *Server) parseToken(signed string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(signed, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return server.secret, nil
	}, jwt.WithTimeFunc(server.clock.Now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// requireToken rejects requests without a valid bearer token and
// attaches the calling account to the context.
func (server *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		header := request.Header.Get("Authorization")
		signed, found := strings.CutPrefix(header, "Bearer ")
		if !found || signed == "" {
			netutil.WriteMessage(writer, http.StatusUnauthorized, "No token provided")
			return
		}
		claims, err := server.parseToken(signed)
		if err != nil {
			netutil.WriteMessage(writer, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		account, exists := server.lookupUser(claims.UserID)
		if !exists {
			netutil.WriteMessage(writer, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(writer, request.WithContext(context.WithValue(request.Context(), callerKey, account)))
	})
}

// requireAdmin rejects callers without the admin role. Must run after
// requireToken.
func (server *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		account := caller(request.Context())
		if account == nil || !account.role.IsAdmin() {
			netutil.WriteMessage(writer, http.StatusForbidden, "Access denied. Admins only.")
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func decodeJSON(request *http.Request, destination any) error {
	request.Body = http.MaxBytesReader(nil, request.Body, 1<<20)
	return json.NewDecoder(request.Body).Decode(destination)
}

func (server *Server) handleRegister(writer http.ResponseWriter, request *http.Request) {
	var body booking.RegisterRequest
	if err := decodeJSON(request, &body); err != nil {
		netutil.WriteMessage(writer, http.StatusBadRequest, "Invalid request body")
		return
	}
	// The service has no confirmation field; validate against the
	// password itself.
	if err := body.Validate(body.Password); err != nil {
		netutil.WriteMessage(writer, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := server.AddUser(body.Name, body.Email, body.Mobile, body.Password, booking.RoleRegular); err != nil {
		if errors.Is(err, ErrUserExists) {
			netutil.WriteMessage(writer, http.StatusConflict, "User already exists")
			return
		}
		netutil.WriteMessage(writer, http.StatusInternalServerError, "Registration failed")
		return
	}
	netutil.WriteMessage(writer, http.StatusCreated, "User registered successfully")
}

func (server *Server) handleLogin(writer http.ResponseWriter, request *http.Request) {
	var body booking.LoginRequest
	if err := decodeJSON(request, &body); err != nil {
		netutil.WriteMessage(writer, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := body.Validate(); err != nil {
		netutil.WriteMessage(writer, http.StatusBadRequest, "Email and password are required")
		return
	}
	account, err := server.authenticate(body.Email, body.Password)
	if err != nil {
		netutil.WriteMessage(writer, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	identity, err := server.Identity(account.id)
	if err != nil {
		netutil.WriteMessage(writer, http.StatusInternalServerError, "Login failed")
		return
	}
	netutil.WriteJSON(writer, http.StatusOK, booking.LoginResponse{
		Message: "Login successful",
		Data:    identity,
	})
}
