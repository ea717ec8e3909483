package httpx

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-storefront/internal/graph"
	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/go-chi/chi/v5"
)

type GraphHandler struct {
	Client        *graph.Client
	Sessions      *session.Registry
	AppID         string
	RedirectURI   string
	StaticFriends []string
}

func (h *GraphHandler) Register(r chi.Router) {
	r.Get("/graph/login", h.login)
	r.Post("/graph/session", h.storeToken)
	r.Delete("/graph/session", h.logout)
	r.Get("/graph/{subject}", h.profile)
}

type GraphSessionReq struct {
	Fragment string `json:"fragment"`
}

type ProfileView struct {
	*graph.Profile
	Page     int  `json:"page"`
	HasMore  bool `json:"has_more"`
	AllPosts int  `json:"total_posts"`
}

func (h *GraphHandler) login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, graph.LoginURL(h.AppID, h.RedirectURI, h.Client.APIVersion), http.StatusFound)
}

// storeToken receives the fragment of the OAuth redirect, which the browser
// never sends to the server on its own.
func (h *GraphHandler) storeToken(w http.ResponseWriter, r *http.Request) {
	var req GraphSessionReq
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid json"})
		return
	}
	token, ok := graph.ParseAccessToken(req.Fragment)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "no access token in fragment"})
		return
	}
	st := h.Sessions.FromRequest(w, r)
	st.Lock()
	st.SetGraphToken(token)
	st.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (h *GraphHandler) logout(w http.ResponseWriter, r *http.Request) {
	st := h.Sessions.FromRequest(w, r)
	st.Lock()
	st.SetGraphToken("")
	st.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (h *GraphHandler) profile(w http.ResponseWriter, r *http.Request) {
	subject, err := graph.ValidateSubject(chi.URLParam(r, "subject"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	page := 1
	if s := r.URL.Query().Get("page"); s != "" {
		if page, err = strconv.Atoi(s); err != nil || page < 1 {
			writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid page"})
			return
		}
	}

	st := h.Sessions.FromRequest(w, r)
	st.Lock()
	token := st.GraphToken()
	st.Unlock()
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResp{Error: graph.ErrNotAuthenticated.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := h.Client.Profile(ctx, token, subject, h.StaticFriends)
	if err != nil {
		var apiErr *graph.APIError
		if errors.As(err, &apiErr) {
			writeJSON(w, http.StatusBadGateway, errorResp{Error: apiErr.Message})
			return
		}
		log.Printf("graph subject=%s: %v", subject, err)
		writeError(w, err)
		return
	}
	total := len(p.Posts)
	var more bool
	p.Posts, more = graph.PagePosts(p.Posts, page)
	writeJSON(w, http.StatusOK, ProfileView{Profile: p, Page: page, HasMore: more, AllPosts: total})
}
