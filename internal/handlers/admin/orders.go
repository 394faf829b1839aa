package admin

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"oldphonedeals_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/orders
func ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))

	orders, err := Orders.ListAll(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// PUT /api/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut requis"})
		return
	}

	order, err := Orders.UpdateStatus(c.Request.Context(), orderID, input.Status)
	if err != nil {
		fail(c, err)
		return
	}

	log.Printf("📦 Commande %s → %s (par %s)", order.ID, order.Status, c.GetString("user_id"))
	c.JSON(http.StatusOK, order)
}

// GET /api/admin/orders/export — export CSV des ventes (une ligne par article vendu)
func ExportSalesCSV(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))

	orders, err := Orders.ListAll(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("ventes_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"order_id", "user_id", "created_at", "status", "payment_method",
		"phone_id", "title", "quantity", "unit_price", "line_total"})

	for _, order := range orders {
		if order.Status == models.OrderStatusCancelled {
			continue
		}
		for _, item := range order.Items {
			w.Write([]string{
				order.ID.String(),
				order.UserID,
				order.CreatedAt.Format(time.RFC3339),
				order.Status,
				order.PaymentMethod,
				item.PhoneID,
				item.Title,
				strconv.Itoa(item.Quantity),
				fmt.Sprintf("%.2f", item.Price),
				fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)),
			})
		}
	}
	w.Flush()

	if err := w.Error(); err != nil {
		log.Printf("❌ Erreur écriture CSV: %v", err)
	}
}
