package server

import (
	"net/http"

	"github.com/jrsteele09/go-shop-client/cart"
	"github.com/jrsteele09/go-shop-client/catalog"
	"github.com/jrsteele09/go-shop-client/preferences"
	"github.com/jrsteele09/go-shop-client/services"
	"github.com/jrsteele09/go-shop-client/sessions"
	"github.com/rs/zerolog/log"
)

type sessionView struct {
	State         string `json:"state"`
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role,omitempty"`
}

func newSessionView(sess sessions.Session) sessionView {
	v := sessionView{State: sess.State.String(), Authenticated: sess.IsAuthenticated, Email: sess.Email()}
	if sess.User != nil {
		v.Role = sess.User.Role
	}
	return v
}

// productView is a product annotated with the user's local preferences.
type productView struct {
	services.Product
	InWishlist      bool   `json:"inWishlist"`
	InCart          bool   `json:"inCart"`
	WishlistLoading bool   `json:"wishlistLoading"`
	CartLoading     bool   `json:"cartLoading"`
	SellerName      string `json:"sellerName,omitempty"`
}

func (s *Server) productView(p services.Product) productView {
	prefs := s.app.Preferences
	return productView{
		Product:         p,
		InWishlist:      prefs.Contains(preferences.Wishlist, p.ID),
		InCart:          prefs.Contains(preferences.Cart, p.ID),
		WishlistLoading: prefs.Loading(preferences.Wishlist, p.ID),
		CartLoading:     prefs.Loading(preferences.Cart, p.ID),
	}
}

func (s *Server) productViews(products []services.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, s.productView(p))
	}
	return views
}

// LandingHandler is the public home view.
func (s *Server) LandingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"app":     s.app.Config.GetAppName(),
			"session": newSessionView(s.app.Sessions.Session()),
		})
	}
}

func (s *Server) CategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"categories": catalog.Categories})
	}
}

func (s *Server) LoginFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"fields": []string{"email", "password"}})
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds services.Credentials
		if err := decodeBody(w, r, &creds); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.app.Login(r.Context(), creds); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"session": newSessionView(s.app.Sessions.Session())})
	}
}

func (s *Server) RegisterFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"fields": []string{"email", "password", "phone", "role"},
			"roles":  []string{"Buyer", "Seller"},
		})
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.SignupRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.app.Client.Account.Signup(r.Context(), req); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"registered": req.Email})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.app.Sessions.Logout(); err != nil {
			log.Error().Err(err).Msg("logout could not clear stored token")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.app.Catalog.Refresh(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": s.productViews(s.app.Catalog.Products())})
	}
}

func (s *Server) ProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.app.Catalog.Product(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		view := s.productView(*p)
		if p.Seller != "" {
			name, err := s.app.Client.Users.Seller(r.Context(), p.Seller)
			if err != nil {
				log.Warn().Err(err).Str("seller", p.Seller).Msg("seller lookup failed")
			}
			view.SellerName = name
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) CategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := s.app.Catalog.ByCategory(r.Context(), r.PathValue("type"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": s.productViews(products)})
	}
}

// WishlistHandler resolves the product details of every wishlist entry in
// the user's profile.
func (s *Server) WishlistHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.app.Client.Users.Profile(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		products, err := s.app.Catalog.Resolve(r.Context(), profile.WishlistIDs())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": s.productViews(products)})
	}
}

func (s *Server) AddToWishlistHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.app.Preferences.AddToWishlist(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"wishlist": s.app.Preferences.IDs(preferences.Wishlist)})
	}
}

func (s *Server) RemoveFromWishlistHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.app.Preferences.RemoveFromWishlist(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"wishlist": s.app.Preferences.IDs(preferences.Wishlist)})
	}
}

type cartItemRequest struct {
	Amount int `json:"amount"`
}

func (s *Server) AddToCartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := cartItemRequest{Amount: 1}
		if r.ContentLength != 0 {
			if err := decodeBody(w, r, &req); err != nil {
				writeError(w, r, err)
				return
			}
		}
		if err := s.app.Preferences.AddToCart(r.Context(), r.PathValue("id"), req.Amount); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cart": s.app.Preferences.IDs(preferences.Cart)})
	}
}

func (s *Server) RemoveFromCartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.app.Preferences.RemoveFromCart(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cart": s.app.Preferences.IDs(preferences.Cart)})
	}
}

type cartView struct {
	Items []lineItemView `json:"items"`
	Total string         `json:"total"`
}

type lineItemView struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"img"`
	Description string  `json:"desc"`
	Amount      int     `json:"amount"`
}

func newCartView(items []cart.LineItem) cartView {
	v := cartView{Items: make([]lineItemView, 0, len(items)), Total: cart.ComputeTotal(items)}
	for _, item := range items {
		v.Items = append(v.Items, lineItemView{
			ID:          item.Product.ID,
			Name:        item.Product.Name,
			Price:       item.Product.Price,
			Image:       item.Product.Image,
			Description: item.Product.Description,
			Amount:      item.Amount,
		})
	}
	return v
}

func (s *Server) CartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.app.Cart.Refresh(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newCartView(s.app.Cart.Items()))
	}
}

func (s *Server) PlaceOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.app.Cart.Refresh(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
		items := s.app.Cart.Items()
		if err := s.app.Cart.PlaceOrder(r.Context(), items); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"total": cart.ComputeTotal(items),
			"cart":  newCartView(s.app.Cart.Items()),
		})
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.app.Client.Users.Profile(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// SaveProfileHandler creates (POST) or replaces (PUT) the profile.
func (s *Server) SaveProfileHandler(method string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.Profile
		if err := decodeBody(w, r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		save := s.app.Client.Users.UpdateProfile
		status := http.StatusOK
		if method == http.MethodPost {
			save = s.app.Client.Users.CreateProfile
			status = http.StatusCreated
		}
		profile, err := save(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, status, profile)
	}
}

func (s *Server) CreateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p services.Product
		if err := decodeBody(w, r, &p); err != nil {
			writeError(w, r, err)
			return
		}
		if err := catalog.ValidateProduct(p.Name, p.Type, p.Price, p.Stock); err != nil {
			writeError(w, r, err)
			return
		}
		created, err := s.app.Client.Products.Create(r.Context(), p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) UpdateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p services.Product
		if err := decodeBody(w, r, &p); err != nil {
			writeError(w, r, err)
			return
		}
		if err := catalog.ValidateProduct(p.Name, p.Type, p.Price, p.Stock); err != nil {
			writeError(w, r, err)
			return
		}
		updated, err := s.app.Client.Products.Update(r.Context(), r.PathValue("id"), p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) DeleteProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.app.Client.Products.Delete(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
