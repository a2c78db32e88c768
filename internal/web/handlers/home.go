package handlers

import "net/http"

// Home renders the marketing landing page
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "home", page{
		Title: h.home.Hero.Title,
		Nav:   "home",
		Data:  h.home,
	})
}
