// Package routes maps the HTTP surface onto handlers. Route registration
// lives here so main.go only wires dependencies.
package routes

import (
	"github.com/dukerupert/vanir/internal/handler"
	"github.com/dukerupert/vanir/internal/middleware"
	"github.com/dukerupert/vanir/internal/router"
)

// Deps contains the handlers and middleware the route table needs.
type Deps struct {
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Health   *handler.HealthHandler
	Metrics  *middleware.Metrics
}

// Register wires every route. r should already carry the global chain
// (request id, logging, recovery, metrics, identity).
func Register(r *router.Router, deps Deps) {
	// Public
	r.Get("/health", deps.Health.Health)
	r.Handle("GET", "/metrics", deps.Metrics.Handler())

	r.Post("/auth/register", deps.Auth.Register)
	r.Post("/auth/login", deps.Auth.Login)
	r.Post("/auth/logout", deps.Auth.Logout)

	r.Get("/products", deps.Catalog.ListProducts)
	r.Get("/products/{id}", deps.Catalog.GetProduct)
	r.Get("/products/{id}/reviews", deps.Catalog.ListReviews)

	// Code validation has no per-user state; checkout revalidates anyway.
	r.Post("/discount/apply", deps.Checkout.ApplyDiscount)

	// Authenticated
	auth := r.Group(middleware.RequireAuth)

	auth.Post("/products/{id}/reviews", deps.Catalog.CreateReview)
	auth.Put("/reviews/{id}", deps.Catalog.UpdateReview)
	auth.Delete("/reviews/{id}", deps.Catalog.DeleteReview)

	auth.Get("/cart", deps.Cart.View)
	auth.Post("/cart/add", deps.Cart.Add)
	auth.Delete("/cart/item/{id}", deps.Cart.RemoveItem)

	auth.Get("/wishlist", deps.Catalog.Wishlist)
	auth.Post("/wishlist/add", deps.Catalog.AddToWishlist)
	auth.Delete("/wishlist/item/{id}", deps.Catalog.RemoveFromWishlist)

	auth.Post("/checkout", deps.Checkout.CreateAddress)
	auth.Post("/order/complete", deps.Checkout.CompleteOrder)
	auth.Get("/orders", deps.Checkout.ListOrders)
}
