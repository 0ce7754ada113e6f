package handlers

import (
	"github.com/thebrand/storefront-go/store"
)

// Handler carries the injected services the routes are wired to. All
// database access flows through these; there is no package-level state.
type Handler struct {
	Catalog store.CatalogAdmin
	Users   store.UserStore
	Cart    *store.CartService
	Orders  *store.OrderService
	Reviews *store.ReviewService
}
