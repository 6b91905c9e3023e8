// Package api wires the HTTP resource handlers: authentication, leads,
// projects, users, reports, proposals, and social posts. Every protected
// route runs behind the session middleware; row visibility is decided by
// pkg/policy and enforced in pkg/store.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/golexcel/golexcel/pkg/auth"
	"github.com/golexcel/golexcel/pkg/httputil"
	"github.com/golexcel/golexcel/pkg/middleware"
	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/policy"
	"github.com/golexcel/golexcel/pkg/proposals"
)

// Deps carries everything the server needs wired in
type Deps struct {
	Logger      *observability.Logger
	Metrics     *observability.Metrics
	Tokens      *auth.TokenService
	Credentials *auth.CredentialStore
	Engine      *policy.Engine

	Users     UserStore
	Leads     LeadStore
	Projects  ProjectStore
	Activity  ActivityStore
	Social    SocialStore
	Proposals ProposalStore
	Generator proposals.TextGenerator

	SecureCookies bool
}

// Server is the application HTTP surface
type Server struct {
	router *mux.Router
}

// NewServer builds the router. Public routes (login, logout, root redirect)
// are registered before the protected subtree so they bypass the session gate.
func NewServer(deps Deps) *Server {
	sessions := middleware.NewSessionMiddleware(deps.Tokens)

	authH := &AuthHandlers{
		users:         deps.Users,
		creds:         deps.Credentials,
		tokens:        deps.Tokens,
		metrics:       deps.Metrics,
		secureCookies: deps.SecureCookies,
	}
	leadH := &LeadHandlers{leads: deps.Leads, engine: deps.Engine}
	projectH := &ProjectHandlers{projects: deps.Projects, engine: deps.Engine}
	userH := &UserHandlers{users: deps.Users, creds: deps.Credentials, engine: deps.Engine}
	reportH := &ReportHandlers{leads: deps.Leads, activity: deps.Activity, engine: deps.Engine}
	dashH := &DashboardHandlers{projects: deps.Projects, engine: deps.Engine}
	socialH := &SocialHandlers{social: deps.Social, engine: deps.Engine}
	proposalH := &ProposalHandlers{proposals: deps.Proposals, generator: deps.Generator, engine: deps.Engine}
	settingsH := &SettingsHandlers{users: deps.Users, creds: deps.Credentials}

	r := mux.NewRouter()
	r.Use(middleware.RequestLogging(deps.Logger, deps.Metrics))

	r.HandleFunc("/", sessions.RootRedirect).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", authH.Logout).Methods(http.MethodPost)

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(sessions.Handler)

	protected.HandleFunc("/leads", leadH.List).Methods(http.MethodGet)
	protected.HandleFunc("/leads", leadH.Create).Methods(http.MethodPost)
	protected.HandleFunc("/leads/{id}", leadH.Get).Methods(http.MethodGet)
	protected.HandleFunc("/leads/{id}", leadH.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/leads/{id}", leadH.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/projects", projectH.List).Methods(http.MethodGet)
	protected.HandleFunc("/projects", projectH.Create).Methods(http.MethodPost)

	protected.HandleFunc("/users", userH.List).Methods(http.MethodGet)
	protected.HandleFunc("/users", userH.Create).Methods(http.MethodPost)
	protected.HandleFunc("/users/{id}", userH.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{id}", userH.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/reports", reportH.Summary).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard/stats", dashH.Stats).Methods(http.MethodGet)

	protected.HandleFunc("/social", socialH.List).Methods(http.MethodGet)
	protected.HandleFunc("/social", socialH.Create).Methods(http.MethodPost)

	protected.HandleFunc("/proposals", proposalH.List).Methods(http.MethodGet)
	protected.HandleFunc("/proposals", proposalH.Create).Methods(http.MethodPost)
	protected.HandleFunc("/proposals/generate", proposalH.Generate).Methods(http.MethodPost)

	protected.HandleFunc("/settings/profile", settingsH.UpdateProfile).Methods(http.MethodPatch)

	return &Server{router: r}
}

// ServeHTTP satisfies http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requireSession fetches the verified claims the session middleware injected.
// A miss means the route was wired outside the protected subtree.
func requireSession(w http.ResponseWriter, r *http.Request) (*auth.SessionClaims, bool) {
	sess := middleware.SessionFromContext(r)
	if sess == nil {
		httputil.WriteUnauthorized(w, "unauthorized")
		return nil, false
	}
	return sess, true
}
