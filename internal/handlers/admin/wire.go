package admin

import (
	"net/http"

	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/realtime"
	"oldphonedeals_back_end/internal/services/catalog"
	"oldphonedeals_back_end/internal/services/orders"

	"github.com/gin-gonic/gin"
)

// Services injectés au démarrage (voir routes.RegisterRoutes)
var (
	Catalog *catalog.Store
	Orders  *orders.Store
	Hub     *realtime.Hub
)

func Wire(store *catalog.Store, orderStore *orders.Store, hub *realtime.Hub) {
	Catalog = store
	Orders = orderStore
	Hub = hub
}

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
