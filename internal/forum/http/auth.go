package http

import (
	"encoding/json"
	"net/http"

	"github.com/wellfora/wellfora/internal/forum/service"
	"github.com/wellfora/wellfora/pkg/httpx"
)

// AuthHandler serves register, login and logout. Sessions ride in the
// HTTP-only access_token cookie; responses carry the public identity.
type AuthHandler struct {
	AuthService  *service.AuthService
	CookieSecure bool
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates an account and logs it in.
//
//	@Summary	Register a new account
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		registerRequest	true	"Credentials"
//	@Success	201		{object}	domain.Identity
//	@Failure	400		{object}	ErrorResponse	"Missing fields"
//	@Failure	409		{object}	ErrorResponse	"Username or email taken"
//	@Router		/api/my/user/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	user, token, err := h.AuthService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.SetSessionCookie(w, token, h.AuthService.TTL(), h.CookieSecure)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, user.Identity())
}

// HandleLogin verifies credentials and refreshes the session cookie.
//
//	@Summary	Log in
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		loginRequest	true	"Credentials"
//	@Success	200		{object}	domain.Identity
//	@Failure	401		{object}	ErrorResponse	"Invalid credentials"
//	@Router		/api/my/user/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.SetSessionCookie(w, token, h.AuthService.TTL(), h.CookieSecure)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, user.Identity())
}

// HandleLogout clears the session cookie. The token itself simply ages
// out; there is no server-side session state to revoke.
//
//	@Summary	Log out
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/api/my/user/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	httpx.ClearSessionCookie(w)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
