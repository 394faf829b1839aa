package user

import (
	"log"
	"net/http"
	"os"

	"oldphonedeals_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/orders — historique, plus récentes en premier
func GetOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	orders, err := Orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// GET /api/orders/:id — détail, réservé au propriétaire
func GetOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("id")

	order, err := Orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		fail(c, err)
		return
	}
	if order.UserID != userID {
		// on ne révèle pas l'existence d'une commande d'autrui
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// GET /api/orders/:id/qr — QR code de suivi de la commande
func GetOrderQR(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("id")

	order, err := Orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		fail(c, err)
		return
	}
	if order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5173"
	}

	qr, err := utils.GenerateOrderQR(order.ID.String(), baseURL)
	if err != nil {
		log.Printf("❌ Erreur génération QR pour %s: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": order.ID, "qr": qr})
}
