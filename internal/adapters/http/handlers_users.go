package web

import (
	"errors"
	"net/http"
	"os"

	"github.com/gorilla/csrf"

	profileStore "swingadmin/internal/adapters/storage/profile"
	"swingadmin/internal/application/orchestrators"
	accountDomain "swingadmin/internal/domain/account"
	"swingadmin/internal/domain/record"
)

// siteURL is the base for links embedded in outgoing emails.
func siteURL() string {
	if url := os.Getenv("SWING_SITE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// handleUsersPage handles GET /users — profile search plus the dynamic
// edit form for the selected profile.
func handleUsersPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requirePage(w, r); !ok {
		return
	}
	ctx := r.Context()

	search := r.URL.Query().Get("q")
	profiles, err := stores.ProfileStore.List(ctx, search, 50)
	if err != nil {
		internalError(w, err)
		return
	}

	data := map[string]any{
		"Profiles":  profiles,
		"Search":    search,
		"Saved":     r.URL.Query().Get("saved") == "1",
		"CSRFToken": csrf.Token(r),
	}

	if id := r.URL.Query().Get("id"); id != "" {
		rec, err := stores.ProfileStore.GetByID(ctx, id)
		switch {
		case errors.Is(err, profileStore.ErrNotFound):
			http.NotFound(w, r)
			return
		case err != nil:
			internalError(w, err)
			return
		}
		fields := record.DeriveEditableFields(rec)
		data["Selected"] = rec
		data["SelectedID"] = id
		data["Fields"] = fields
		data["Form"] = record.BuildFormState(rec, fields)
	}

	renderTemplate(w, r, "users.html", data)
}

// handleUserEditSubmit handles POST /users/{id} — the server-rendered
// edit form submission. Field values are folded through the same
// payload pipeline the JSON API uses, so trimming, empty-to-null, and
// system-column stripping behave identically on both surfaces.
func handleUserEditSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requirePage(w, r); !ok {
		return
	}
	ctx := r.Context()
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	rec, err := stores.ProfileStore.GetByID(ctx, id)
	switch {
	case errors.Is(err, profileStore.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	// Checkboxes are absent from the form when unchecked, so booleans
	// are read by key presence rather than value.
	fields := record.DeriveEditableFields(rec)
	state := make(record.FormState, len(fields))
	for _, f := range fields {
		if f.Type == record.TypeBoolean {
			state[f.Key] = r.PostForm.Has(f.Key)
			continue
		}
		state[f.Key] = r.FormValue(f.Key)
	}

	payload := record.BuildUpdatePayload(state, fields)
	if _, err := stores.ProfileStore.UpdatePartial(ctx, id, record.SanitizeUpdate(payload)); err != nil {
		internalError(w, err)
		return
	}

	http.Redirect(w, r, "/users?id="+id+"&saved=1", http.StatusSeeOther)
}

// handleAPIUserItem handles GET and PUT for /api/users/{id}
func handleAPIUserItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" && r.Method != "PUT" {
		methodNotAllowed(w, "GET", "PUT")
		return
	}
	if _, err := adminGate.AuthorizeAPICall(w, r); err != nil {
		return
	}
	ctx := r.Context()
	id := r.PathValue("id")

	if r.Method == "GET" {
		rec, err := stores.ProfileStore.GetByID(ctx, id)
		switch {
		case errors.Is(err, profileStore.ErrNotFound):
			jsonError(w, http.StatusNotFound, "profile not found")
			return
		case err != nil:
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}

	// PUT: sanitized partial update
	var body struct {
		Updates map[string]any `json:"updates"`
	}
	if err := strictDecode(r, &body); err != nil || body.Updates == nil {
		jsonError(w, http.StatusBadRequest, "request body must include an updates object")
		return
	}

	rec, err := stores.ProfileStore.UpdatePartial(ctx, id, record.SanitizeUpdate(body.Updates))
	switch {
	case errors.Is(err, profileStore.ErrNotFound):
		jsonError(w, http.StatusNotFound, "profile not found")
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleAPIUserResetPassword handles POST /api/users/{id}/reset-password
func handleAPIUserResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		methodNotAllowed(w, "POST")
		return
	}
	if _, err := adminGate.AuthorizeAPICall(w, r); err != nil {
		return
	}

	input := orchestrators.ResetPasswordInput{
		ProfileID: r.PathValue("id"),
		SiteURL:   siteURL(),
		From:      emailFromAddress,
		ReplyTo:   emailReplyTo,
	}
	result, err := orchestrators.ExecuteResetPassword(r.Context(), input, orchestrators.ResetPasswordDeps{
		AccountStore: stores.AccountStore,
		Sender:       emailSender,
	})
	switch {
	case errors.Is(err, orchestrators.ErrAccountNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, accountDomain.ErrNoEmail):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": result.Email})
}
