package web

import "net/http"

// registerRoutes attaches all page and API handlers to the mux.
// Handlers do their own method switching so unsupported methods get a
// 405 with an Allow header instead of the mux's 404.
func registerRoutes(mux *http.ServeMux) {
	// Pages
	mux.HandleFunc("/{$}", handleDashboard)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/users", handleUsersPage)
	mux.HandleFunc("/users/{id}", handleUserEditSubmit)
	mux.HandleFunc("/messages", handleMessagesPage)
	mux.HandleFunc("/messages/new", handleMessageNewPage)
	mux.HandleFunc("/messages/{id}/edit", handleMessageEditPage)

	// JSON API
	mux.HandleFunc("/api/messages", handleAPIMessages)
	mux.HandleFunc("/api/messages/{id}", handleAPIMessageItem)
	mux.HandleFunc("/api/messages/{id}/toggle", handleAPIMessageToggle)
	mux.HandleFunc("/api/users/{id}", handleAPIUserItem)
	mux.HandleFunc("/api/users/{id}/reset-password", handleAPIUserResetPassword)
}
