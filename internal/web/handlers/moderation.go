package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// Moderation renders the live moderation panel for ?channel=
func (h *Handlers) Moderation(w http.ResponseWriter, r *http.Request) {
	panel := h.moderation.Panel(r.URL.Query().Get("channel"))
	h.render(w, http.StatusOK, "moderation", page{
		Title: "Event Moderation",
		Nav:   "moderation",
		Error: r.URL.Query().Get("error"),
		Data:  panel,
	})
}

// ModerationPost sends a moderator message to a channel
func (h *Handlers) ModerationPost(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		h.respondError(w, r, err)
		return
	}

	channel := r.FormValue("channel")
	msg, err := h.moderation.Post(clientKey(r), channel, r.FormValue("message"))
	if err != nil {
		h.moderationError(w, r, channel, err)
		return
	}

	if wantsJSON(r) {
		h.sendJSON(w, http.StatusCreated, msg)
		return
	}
	http.Redirect(w, r, "/moderation?channel="+url.QueryEscape(msg.Channel), http.StatusSeeOther)
}

// ModerationFlag toggles the flag on a message
func (h *Handlers) ModerationFlag(w http.ResponseWriter, r *http.Request) {
	msg, err := h.moderation.ToggleFlag(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if wantsJSON(r) {
		h.sendJSON(w, http.StatusOK, msg)
		return
	}
	http.Redirect(w, r, "/moderation?channel="+url.QueryEscape(msg.Channel), http.StatusSeeOther)
}

// ModerationAction records mute, warn, kick, ban or timeout against a user
func (h *Handlers) ModerationAction(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		h.respondError(w, r, err)
		return
	}

	channel := r.FormValue("channel")
	action, err := h.moderation.Apply(r.FormValue("type"), r.FormValue("user"), r.FormValue("reason"))
	if err != nil {
		h.moderationError(w, r, channel, err)
		return
	}

	if wantsJSON(r) {
		h.sendJSON(w, http.StatusCreated, action)
		return
	}
	http.Redirect(w, r, "/moderation?channel="+url.QueryEscape(channel), http.StatusSeeOther)
}

// moderationError sends browsers back to the panel with the message shown
func (h *Handlers) moderationError(w http.ResponseWriter, r *http.Request, channel string, err error) {
	if wantsJSON(r) || statusFor(err) >= http.StatusInternalServerError {
		h.respondError(w, r, err)
		return
	}
	q := url.Values{"error": {err.Error()}}
	if channel != "" {
		q.Set("channel", channel)
	}
	http.Redirect(w, r, "/moderation?"+q.Encode(), http.StatusSeeOther)
}
