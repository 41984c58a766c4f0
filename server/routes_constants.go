package server

// Route path constants
const (
	RouteLanding  = "/{$}"
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteLogout   = "/logout"

	RouteProducts   = "/products"
	RouteProduct    = "/products/{id}"
	RouteCategory   = "/category/{type}"
	RouteCategories = "/categories"

	RouteWishlist     = "/wishlist"
	RouteWishlistItem = "/wishlist/{id}"

	RouteCart      = "/cart"
	RouteCartItem  = "/cart/{id}"
	RouteCartOrder = "/cart/order"

	RouteProfile = "/profile"
)
