package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	messageStore "swingadmin/internal/adapters/storage/message"
	messageDomain "swingadmin/internal/domain/message"
)

// apiMessage is the wire shape of an in-app message. Optional dates are
// pointers so absent and null round-trip cleanly.
type apiMessage struct {
	ID                       string     `json:"id"`
	Title                    string     `json:"title"`
	Content                  string     `json:"content"`
	ContentType              string     `json:"content_type"`
	ImageURL                 string     `json:"image_url,omitempty"`
	Type                     string     `json:"type"`
	Priority                 int        `json:"priority"`
	TargetUserIDs            []string   `json:"target_user_ids"`
	RequiresMarketingConsent bool       `json:"requires_marketing_consent"`
	StartDate                *time.Time `json:"start_date"`
	EndDate                  *time.Time `json:"end_date"`
	IsActive                 bool       `json:"is_active"`
	ActionURL                string     `json:"action_url,omitempty"`
	ActionLabel              string     `json:"action_label,omitempty"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

func toAPIMessage(m messageDomain.InAppMessage) apiMessage {
	api := apiMessage{
		ID:                       m.ID,
		Title:                    m.Title,
		Content:                  m.Content,
		ContentType:              m.ContentType,
		ImageURL:                 m.ImageURL,
		Type:                     m.Type,
		Priority:                 m.Priority,
		TargetUserIDs:            m.TargetUserIDs,
		RequiresMarketingConsent: m.RequiresMarketingConsent,
		IsActive:                 m.IsActive,
		ActionURL:                m.ActionURL,
		ActionLabel:              m.ActionLabel,
		CreatedAt:                m.CreatedAt,
		UpdatedAt:                m.UpdatedAt,
	}
	if !m.StartDate.IsZero() {
		t := m.StartDate
		api.StartDate = &t
	}
	if !m.EndDate.IsZero() {
		t := m.EndDate
		api.EndDate = &t
	}
	return api
}

func toDomainMessage(api apiMessage) messageDomain.InAppMessage {
	m := messageDomain.InAppMessage{
		ID:                       api.ID,
		Title:                    api.Title,
		Content:                  api.Content,
		ContentType:              api.ContentType,
		ImageURL:                 api.ImageURL,
		Type:                     api.Type,
		Priority:                 api.Priority,
		TargetUserIDs:            api.TargetUserIDs,
		RequiresMarketingConsent: api.RequiresMarketingConsent,
		IsActive:                 api.IsActive,
		ActionURL:                api.ActionURL,
		ActionLabel:              api.ActionLabel,
		CreatedAt:                api.CreatedAt,
		UpdatedAt:                api.UpdatedAt,
	}
	if api.StartDate != nil {
		m.StartDate = *api.StartDate
	}
	if api.EndDate != nil {
		m.EndDate = *api.EndDate
	}
	return m
}

// handleAPIMessages handles GET (list) and POST (create) for /api/messages
func handleAPIMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" && r.Method != "POST" {
		methodNotAllowed(w, "GET", "POST")
		return
	}
	if _, err := adminGate.AuthorizeAPICall(w, r); err != nil {
		return
	}
	ctx := r.Context()

	if r.Method == "GET" {
		msgs, err := stores.MessageStore.ListAll(ctx)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]apiMessage, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, toAPIMessage(m))
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	// POST: create
	var body apiMessage
	if err := strictDecode(r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid message body")
		return
	}
	m := toDomainMessage(body)
	if m.ID == "" {
		m.ID = generateID()
	}
	if m.ContentType == "" {
		m.ContentType = messageDomain.ContentText
	}
	now := timeNow()
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := m.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := stores.MessageStore.Insert(ctx, m); err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toAPIMessage(m))
}

// handleAPIMessageItem handles GET, PUT, and DELETE for /api/messages/{id}
func handleAPIMessageItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" && r.Method != "PUT" && r.Method != "DELETE" {
		methodNotAllowed(w, "GET", "PUT", "DELETE")
		return
	}
	if _, err := adminGate.AuthorizeAPICall(w, r); err != nil {
		return
	}
	ctx := r.Context()
	id := r.PathValue("id")

	switch r.Method {
	case "GET":
		m, err := stores.MessageStore.GetByID(ctx, id)
		switch {
		case errors.Is(err, messageStore.ErrNotFound):
			jsonError(w, http.StatusNotFound, "message not found")
			return
		case err != nil:
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toAPIMessage(m))

	case "PUT":
		existing, err := stores.MessageStore.GetByID(ctx, id)
		switch {
		case errors.Is(err, messageStore.ErrNotFound):
			jsonError(w, http.StatusNotFound, "message not found")
			return
		case err != nil:
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}

		var body apiMessage
		if err := strictDecode(r, &body); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid message body")
			return
		}
		m := toDomainMessage(body)
		m.ID = id // path wins over body
		m.CreatedAt = existing.CreatedAt
		m.UpdatedAt = timeNow()
		if err := m.Validate(); err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := stores.MessageStore.Update(ctx, m); err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toAPIMessage(m))

	case "DELETE":
		err := stores.MessageStore.Delete(ctx, id)
		switch {
		case errors.Is(err, messageStore.ErrNotFound):
			jsonError(w, http.StatusNotFound, "message not found")
			return
		case err != nil:
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAPIMessageToggle handles POST /api/messages/{id}/toggle
func handleAPIMessageToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		methodNotAllowed(w, "POST")
		return
	}
	if _, err := adminGate.AuthorizeAPICall(w, r); err != nil {
		return
	}
	ctx := r.Context()
	id := r.PathValue("id")

	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := strictDecode(r, &body); err != nil || body.IsActive == nil {
		jsonError(w, http.StatusBadRequest, "is_active boolean is required")
		return
	}

	err := stores.MessageStore.SetActive(ctx, id, *body.IsActive)
	switch {
	case errors.Is(err, messageStore.ErrNotFound):
		jsonError(w, http.StatusNotFound, "message not found")
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_active": *body.IsActive})
}

// handleMessagesPage handles GET /messages — the message list screen.
func handleMessagesPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requirePage(w, r); !ok {
		return
	}

	msgs, err := stores.MessageStore.ListAll(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "messages.html", map[string]any{
		"Messages":  msgs,
		"CSRFToken": csrf.Token(r),
	})
}

// handleMessageNewPage handles GET (form) and POST (create) for /messages/new
func handleMessageNewPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePage(w, r); !ok {
		return
	}

	if r.Method == "GET" {
		renderTemplate(w, r, "message_form.html", map[string]any{
			"Title":     "New message",
			"Message":   messageDomain.InAppMessage{ContentType: messageDomain.ContentText, Type: messageDomain.TypeBanner},
			"CSRFToken": csrf.Token(r),
		})
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	m, err := messageFromForm(r)
	if err == nil {
		m.ID = generateID()
		now := timeNow()
		m.CreatedAt = now
		m.UpdatedAt = now
		err = m.Validate()
	}
	if err != nil {
		renderTemplate(w, r, "message_form.html", map[string]any{
			"Title":     "New message",
			"Message":   m,
			"Error":     err.Error(),
			"CSRFToken": csrf.Token(r),
		})
		return
	}
	if err := stores.MessageStore.Insert(r.Context(), m); err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/messages", http.StatusSeeOther)
}

// handleMessageEditPage handles GET (form) and POST (update) for /messages/{id}/edit
func handleMessageEditPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePage(w, r); !ok {
		return
	}
	ctx := r.Context()
	id := r.PathValue("id")

	existing, err := stores.MessageStore.GetByID(ctx, id)
	switch {
	case errors.Is(err, messageStore.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	if r.Method == "GET" {
		renderTemplate(w, r, "message_form.html", map[string]any{
			"Title":     "Edit message",
			"Message":   existing,
			"CSRFToken": csrf.Token(r),
		})
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	m, err := messageFromForm(r)
	if err == nil {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		m.UpdatedAt = timeNow()
		err = m.Validate()
	}
	if err != nil {
		renderTemplate(w, r, "message_form.html", map[string]any{
			"Title":     "Edit message",
			"Message":   m,
			"Error":     err.Error(),
			"CSRFToken": csrf.Token(r),
		})
		return
	}
	if err := stores.MessageStore.Update(ctx, m); err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/messages", http.StatusSeeOther)
}

// formDateLayout matches the datetime-local input format.
const formDateLayout = "2006-01-02T15:04"

// messageFromForm parses the message form into a domain value.
// Checkbox fields read as presence; empty dates stay zero.
func messageFromForm(r *http.Request) (messageDomain.InAppMessage, error) {
	var m messageDomain.InAppMessage
	if err := r.ParseForm(); err != nil {
		return m, errors.New("invalid form submission")
	}

	m.Title = strings.TrimSpace(r.FormValue("Title"))
	m.Content = r.FormValue("Content")
	m.ContentType = r.FormValue("ContentType")
	m.ImageURL = strings.TrimSpace(r.FormValue("ImageURL"))
	m.Type = r.FormValue("Type")
	m.ActionURL = strings.TrimSpace(r.FormValue("ActionURL"))
	m.ActionLabel = strings.TrimSpace(r.FormValue("ActionLabel"))
	m.RequiresMarketingConsent = r.PostForm.Has("RequiresMarketingConsent")
	m.IsActive = r.PostForm.Has("IsActive")

	if p := strings.TrimSpace(r.FormValue("Priority")); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return m, errors.New("priority must be a whole number")
		}
		m.Priority = n
	}

	if targets := strings.TrimSpace(r.FormValue("TargetUserIDs")); targets != "" {
		for _, id := range strings.Split(targets, ",") {
			if id = strings.TrimSpace(id); id != "" {
				m.TargetUserIDs = append(m.TargetUserIDs, id)
			}
		}
	}

	if s := r.FormValue("StartDate"); s != "" {
		t, err := time.Parse(formDateLayout, s)
		if err != nil {
			return m, errors.New("start date is not a valid date")
		}
		m.StartDate = t
	}
	if s := r.FormValue("EndDate"); s != "" {
		t, err := time.Parse(formDateLayout, s)
		if err != nil {
			return m, errors.New("end date is not a valid date")
		}
		m.EndDate = t
	}

	return m, nil
}
