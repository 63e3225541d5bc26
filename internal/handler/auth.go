package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ordertrack/internal/service"
)

const tokenTTL = 24 * time.Hour

type credentials struct {
	Login    string `json:"login" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

func RegisterHandler(authSvc *service.AuthService, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := decode(w, r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}

		user, err := authSvc.Register(r.Context(), req.Login, req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if err := setToken(w, secret, user.ID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func LoginHandler(authSvc *service.AuthService, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := decode(w, r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}

		user, err := authSvc.Authenticate(r.Context(), req.Login, req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if err := setToken(w, secret, user.ID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func setToken(w http.ResponseWriter, secret, userID string) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	w.Header().Set("Authorization", "Bearer "+signed)
	return nil
}
