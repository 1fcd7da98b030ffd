package http

import (
	"net/http"

	"github.com/wellfora/wellfora/internal/forum/service"
	"github.com/wellfora/wellfora/pkg/httpx"
)

// UsersHandler serves the user directory and the acting user's profile.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleList returns every registered user's public identity.
//
//	@Summary	List users
//	@Tags		Users
//	@Security	SessionCookie
//	@Produce	json
//	@Success	200	{array}	domain.Identity
//	@Router		/api/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identities, err := h.UserService.ListIdentities(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identities)
}

// HandleSelf returns the acting user's own profile.
//
//	@Summary	Get own profile
//	@Tags		Users
//	@Security	SessionCookie
//	@Produce	json
//	@Success	200	{object}	domain.Identity
//	@Failure	401	{object}	ErrorResponse
//	@Router		/api/users/single [get].
func (h *UsersHandler) HandleSelf(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "session required")
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, user.Identity())
}
