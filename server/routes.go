package server

import (
	"net/http"

	"github.com/jrsteele09/go-shop-client/guards"
	"github.com/jrsteele09/go-shop-client/token"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteLanding, ChainMiddleware(s.LandingHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteCategories, ChainMiddleware(s.CategoriesHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.CorsMiddleware))

	// Only reachable without a session
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginFormHandler(), s.APIMiddleware(s.guard(guards.Restricted))...))
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware(s.guard(guards.Restricted))...))
	s.RegisterRouteFunc("GET "+RouteRegister, ChainMiddleware(s.RegisterFormHandler(), s.APIMiddleware(s.guard(guards.Restricted))...))
	s.RegisterRouteFunc("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware(s.guard(guards.Restricted))...))

	private := s.APIMiddleware(s.guard(guards.Private))
	s.RegisterRouteFunc("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), private...))

	s.RegisterRouteFunc("GET "+RouteProducts, ChainMiddleware(s.ProductsHandler(), private...))
	s.RegisterRouteFunc("GET "+RouteProduct, ChainMiddleware(s.ProductHandler(), private...))
	s.RegisterRouteFunc("GET "+RouteCategory, ChainMiddleware(s.CategoryHandler(), private...))

	s.RegisterRouteFunc("GET "+RouteWishlist, ChainMiddleware(s.WishlistHandler(), private...))
	s.RegisterRouteFunc("POST "+RouteWishlistItem, ChainMiddleware(s.AddToWishlistHandler(), private...))
	s.RegisterRouteFunc("DELETE "+RouteWishlistItem, ChainMiddleware(s.RemoveFromWishlistHandler(), private...))

	s.RegisterRouteFunc("GET "+RouteCart, ChainMiddleware(s.CartHandler(), private...))
	s.RegisterRouteFunc("POST "+RouteCartOrder, ChainMiddleware(s.PlaceOrderHandler(), private...))
	s.RegisterRouteFunc("POST "+RouteCartItem, ChainMiddleware(s.AddToCartHandler(), private...))
	s.RegisterRouteFunc("DELETE "+RouteCartItem, ChainMiddleware(s.RemoveFromCartHandler(), private...))

	s.RegisterRouteFunc("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), private...))
	s.RegisterRouteFunc("POST "+RouteProfile, ChainMiddleware(s.SaveProfileHandler(http.MethodPost), private...))
	s.RegisterRouteFunc("PUT "+RouteProfile, ChainMiddleware(s.SaveProfileHandler(http.MethodPut), private...))

	// Product management is for sellers only
	seller := s.APIMiddleware(s.guard(guards.Role(token.RoleSeller)))
	s.RegisterRouteFunc("POST "+RouteProducts, ChainMiddleware(s.CreateProductHandler(), seller...))
	s.RegisterRouteFunc("PUT "+RouteProduct, ChainMiddleware(s.UpdateProductHandler(), seller...))
	s.RegisterRouteFunc("DELETE "+RouteProduct, ChainMiddleware(s.DeleteProductHandler(), seller...))
}

// PreflightHandler answers CORS preflight requests without an Origin header.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) guard(g guards.Guard) func(http.HandlerFunc) http.HandlerFunc {
	return guards.Middleware(s.app.Sessions, g, s.landing)
}
