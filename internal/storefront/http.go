package storefront

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/internal/auth"
	"Storefront/internal/cart"
	"Storefront/pkg/kit"
)

type Server struct {
	App      *App
	JWT      *auth.TokenMaker
	TokenTTL time.Duration
	Log      *zap.Logger
}

// Catalog

func (s *Server) handleProducts(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.App.Products())
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	p, found := s.App.Product(id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.App.Categories())
}

func (s *Server) handleBrowse(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.App.Filtered())
}

type categoryReq struct {
	Category string `json:"category"`
}

func (s *Server) handleFilterCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "category required", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.App.FilterByCategory(req.Category))
}

type searchReq struct {
	Query string `json:"query"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.App.Search(req.Query))
}

// Cart

func (s *Server) handleCart(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.App.Cart())
}

type addItemReq struct {
	ProductID int `json:"product_id"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	view, err := s.App.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, view)
}

type quantityReq struct {
	Quantity *int `json:"quantity"`
}

func (s *Server) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req quantityReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if req.Quantity == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity required", nil)
		return
	}

	view, err := s.App.SetQuantity(r.Context(), id, *req.Quantity)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	view, err := s.App.RemoveFromCart(r.Context(), id)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := s.App.ClearCart(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var info cart.ShippingInfo
	if err := kit.DecodeJSON(w, r, &info); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	o, err := s.App.Checkout(r.Context(), info)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, o)
}

func (s *Server) handleOrders(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.App.Orders())
}

// Session

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        auth.Identity `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if req.Username == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "username/password required", nil)
		return
	}

	id, err := s.App.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	tok, err := s.JWT.New(id, s.TokenTTL)
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, loginResp{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.TokenTTL.Seconds()),
		User:        id,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.App.Logout(r.Context()); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	kit.WriteJSON(w, http.StatusOK, id)
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.App.Dashboard())
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.App.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// requireSession admits a token only while it belongs to the logged-in
// session. A logout ends every token issued before it.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenID, _ := auth.IdentityFromContext(r.Context())
		current, ok := s.App.CurrentUser()
		if !ok || current.ID != tokenID.ID {
			kit.WriteError(w, r, http.StatusUnauthorized, "session ended", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdminSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.App.IsAdmin() {
			kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *cart.ValidationError

	switch {
	case errors.As(err, &ve):
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "invalid shipping info", ve.Fields)
	case errors.Is(err, auth.ErrInvalidCredentials):
		kit.WriteError(w, r, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, ErrProductNotFound):
		kit.WriteError(w, r, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrOutOfStock), errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrEmptyCart):
		kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	default:
		s.Log.Error("request failed", zap.Error(err), zap.String("route", kit.ChiRoutePatternOrPath(r)))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}
