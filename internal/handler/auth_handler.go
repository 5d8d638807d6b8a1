package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
	"github.com/rs/zerolog/log"
)

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new user and issues a token for it.
func (a *API) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req, "invalid signup payload") {
		return
	}

	user, err := a.users.Register(service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrNameRequired),
			errors.Is(err, service.ErrEmailRequired),
			errors.Is(err, service.ErrPasswordTooShort):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			log.Error().Err(err).Msg("signup failed")
			respondError(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("token issue failed")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login verifies credentials and issues a token.
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}

	user, err := a.users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		log.Error().Err(err).Msg("login failed")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("token issue failed")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
