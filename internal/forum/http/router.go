package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wellfora/wellfora/internal/forum/service"
	"github.com/wellfora/wellfora/internal/forum/store"
	"github.com/wellfora/wellfora/pkg/httpx"
	"github.com/wellfora/wellfora/pkg/jwtx"
	"github.com/wellfora/wellfora/pkg/slogx"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	cookieSecure bool
	uploadDir    string

	AuthService    *service.AuthService
	PostService    *service.PostService
	VoteService    *service.VoteService
	CommentService *service.CommentService
	UserService    *service.UserService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	cookieSecure bool,
	uploadDir string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		cookieSecure: cookieSecure,
		uploadDir:    uploadDir,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPosts()
	r.registerComments()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	if r.uploadDir != "" {
		r.Mux.Handle("GET /uploads/",
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(r.uploadDir))))
	}
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Wellfora Community API
//	@version		0.1.0
//	@description	Backend for a community health discussion platform: accounts,
//	@description	categorized posts with mutually exclusive up/down votes, comments
//	@description	with embedded replies, and image attachments.
//
//	@contact.name				Wellfora Team
//	@contact.url				https://github.com/wellfora/wellfora
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						access_token
//	@description				HTTP-only session cookie set by register/login.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, CookieSecure: r.cookieSecure}

	// Credential endpoints - strict rate limit by IP to blunt brute force.
	r.Mux.Handle("POST /api/my/user/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/my/user/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/my/user/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPosts() {
	h := &PostsHandler{PostService: r.PostService, VoteService: r.VoteService}

	// Public reads - high limit by IP.
	r.Mux.Handle("GET /api/posts",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /api/posts/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Per-user listing requires a session even though it only reads.
	r.Mux.Handle("GET /api/posts/user/{userId}",
		httpx.Chain(http.HandlerFunc(h.HandleListByUser),
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Writes - moderate limit by authenticated user.
	r.Mux.Handle("POST /api/posts/new-post",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /api/posts/{postId}",
		httpx.Chain(http.HandlerFunc(h.HandleEdit),
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /api/posts/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /api/posts/{postId}/upvote",
		httpx.Chain(http.HandlerFunc(h.HandleUpvote),
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /api/posts/{postId}/downvote",
		httpx.Chain(http.HandlerFunc(h.HandleDownvote),
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerComments() {
	h := &CommentsHandler{CommentService: r.CommentService}

	r.Mux.Handle("POST /api/post/comment",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/post/comment/reply",
		httpx.Chain(http.HandlerFunc(h.HandleCreateReply),
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Comment reads are public.
	r.Mux.Handle("GET /api/post/comment/{postId}",
		httpx.Chain(http.HandlerFunc(h.HandleListForPost),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /api/post/comment/replies/{commentId}",
		httpx.Chain(http.HandlerFunc(h.HandleListReplies),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /api/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /api/users/single",
		httpx.Chain(http.HandlerFunc(h.HandleSelf),
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
