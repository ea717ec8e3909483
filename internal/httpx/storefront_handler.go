package httpx

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/go-chi/chi/v5"
)

type StatsReader interface {
	Read(ctx context.Context) (map[string]int64, error)
}

type StorefrontHandler struct {
	Catalog  catalog.Source
	Sessions *session.Registry
	Store    checkout.Store
	Creator  *checkout.Creator
	Returns  *checkout.ReturnHandler
	Stats    StatsReader

	PublicURL string // scheme://host the browser sees, no trailing slash
	Currency  string
}

func (h *StorefrontHandler) Register(r chi.Router) {
	r.Get("/", h.page)
	r.Get("/products", h.listProducts)
	r.Post("/cart/items", h.addItem)
	r.Delete("/cart/items/{index}", h.removeItem)
	r.Delete("/cart", h.clearCart)
	r.Post("/checkout", h.checkout)
	r.Get("/history", h.history)
	r.Get("/checkout/stats", h.stats)
}

type PageView struct {
	Products  []catalog.Product       `json:"products"`
	Cart      []checkout.LineItem     `json:"cart"`
	CartTotal string                  `json:"cart_total"`
	Currency  string                  `json:"currency"`
	History   []checkout.HistoryEntry `json:"history"`
	Flash     string                  `json:"flash,omitempty"`
}

type CartView struct {
	Items    []checkout.LineItem `json:"items"`
	Total    string              `json:"total"`
	Currency string              `json:"currency"`
}

type AddItemReq struct {
	ProductID string `json:"product_id"`
}

type CheckoutReq struct {
	PageURL string `json:"page_url"`
}

func (h *StorefrontHandler) cartView(c *checkout.Cart) CartView {
	items := c.Snapshot()
	if items == nil {
		items = []checkout.LineItem{}
	}
	return CartView{Items: items, Total: c.Total().StringFixed(2), Currency: h.Currency}
}

// page is every page load. When the processor sent the user back with an
// order id, the pending checkout is finished and the browser is redirected
// to the clean page, so a refresh cannot capture twice.
func (h *StorefrontHandler) page(w http.ResponseWriter, r *http.Request) {
	st := h.Sessions.FromRequest(w, r)
	st.Lock()
	defer st.Unlock()

	if r.URL.Query().Get(checkout.OrderIDParam) != "" {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		page, err := url.Parse(h.PublicURL + r.URL.RequestURI())
		if err != nil {
			writeError(w, apperr.Wrap(apperr.KindValidation, err))
			return
		}
		out := h.Returns.Handle(ctx, &st.Session, page)
		log.Printf("session=%s order=%s state=%s", st.ID, out.OrderID, out.State)
		st.SetFlash(out.Message)
		http.Redirect(w, r, out.RedirectURL, http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, err := h.Catalog.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	history, err := h.Store.LoadHistory(ctx, st.ID)
	if err != nil {
		// riwayat tetap opsional untuk render halaman
		log.Printf("session=%s load history: %v", st.ID, err)
	}
	if history == nil {
		history = []checkout.HistoryEntry{}
	}
	cart := h.cartView(&st.Cart)
	writeJSON(w, http.StatusOK, PageView{
		Products:  products,
		Cart:      cart.Items,
		CartTotal: cart.Total,
		Currency:  h.Currency,
		History:   history,
		Flash:     st.TakeFlash(),
	})
}

func (h *StorefrontHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *StorefrontHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemReq
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid json", Kind: apperr.KindValidation})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "missing product_id", Kind: apperr.KindValidation})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := catalog.Find(ctx, h.Catalog, req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp{Error: err.Error()})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	st := h.Sessions.FromRequest(w, r)
	st.Lock()
	defer st.Unlock()
	st.Cart.Add(p.LineItem())
	writeJSON(w, http.StatusOK, h.cartView(&st.Cart))
}

func (h *StorefrontHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid index", Kind: apperr.KindValidation})
		return
	}
	st := h.Sessions.FromRequest(w, r)
	st.Lock()
	defer st.Unlock()
	if err := st.Cart.Remove(i); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.cartView(&st.Cart))
}

func (h *StorefrontHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	st := h.Sessions.FromRequest(w, r)
	st.Lock()
	defer st.Unlock()
	st.Cart.Clear()
	writeJSON(w, http.StatusOK, h.cartView(&st.Cart))
}

func (h *StorefrontHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutReq
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid json", Kind: apperr.KindValidation})
		return
	}
	if req.PageURL == "" {
		req.PageURL = h.PublicURL + "/"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	st := h.Sessions.FromRequest(w, r)
	st.Lock()
	defer st.Unlock()

	created, err := h.Creator.Create(ctx, &st.Session, req.PageURL)
	if err != nil {
		log.Printf("session=%s checkout: %v", st.ID, err)
		writeError(w, err)
		return
	}
	log.Printf("session=%s order=%s created status=%s total=%s", st.ID, created.OrderID, created.Status, created.SettlementTotal)
	writeJSON(w, http.StatusCreated, created)
}

func (h *StorefrontHandler) history(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	st := h.Sessions.FromRequest(w, r)
	entries, err := h.Store.LoadHistory(ctx, st.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []checkout.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *StorefrontHandler) stats(w http.ResponseWriter, r *http.Request) {
	if h.Stats == nil {
		writeJSON(w, http.StatusNotFound, errorResp{Error: "stats not available"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Stats.Read(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
