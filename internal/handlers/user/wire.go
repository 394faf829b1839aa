package user

import (
	"net/http"

	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/services/cart"
	"oldphonedeals_back_end/internal/services/checkout"
	"oldphonedeals_back_end/internal/services/orders"
	"oldphonedeals_back_end/internal/services/wishlist"

	"github.com/gin-gonic/gin"
)

// Services injectés au démarrage (voir routes.RegisterRoutes)
var (
	Carts     *cart.Service
	Checkouts *checkout.Coordinator
	Wishlists *wishlist.Service
	Orders    *orders.Store
)

func Wire(carts *cart.Service, checkouts *checkout.Coordinator, wishlists *wishlist.Service, orderStore *orders.Store) {
	Carts = carts
	Checkouts = checkouts
	Wishlists = wishlists
	Orders = orderStore
}

// fail traduit une erreur métier en réponse HTTP
func fail(c *gin.Context, err error) {
	if f, ok := faults.As(err); ok {
		payload := gin.H{"error": f.Msg}
		if f.Ref != "" {
			payload["ref"] = f.Ref
		}
		c.JSON(faults.HTTPStatus(err), payload)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
}
