package user

import (
	"log"
	"net/http"

	"oldphonedeals_back_end/internal/services/checkout"
	"oldphonedeals_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/cart
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")

	view, err := Carts.Get(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/cart/items — ajoute `quantity` unités à la ligne (créée si absente)
func AddCartItem(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		PhoneID  string `json:"phone_id" binding:"required"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	view, err := Carts.AddItem(c.Request.Context(), userID, input.PhoneID, input.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PUT /api/cart/items/:phoneId — fixe la quantité (0 retire la ligne)
func SetCartItemQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	phoneID := c.Param("phoneId")

	var input struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité requise"})
		return
	}

	view, err := Carts.SetItemQuantity(c.Request.Context(), userID, phoneID, *input.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /api/cart/items/:phoneId
func RemoveCartItem(c *gin.Context) {
	userID := c.GetString("user_id")
	phoneID := c.Param("phoneId")

	view, err := Carts.RemoveItem(c.Request.Context(), userID, phoneID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /api/cart
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := Carts.Clear(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}

// POST /api/cart/checkout — achète le contenu courant du panier.
// Le client peut restreindre l'achat à certaines lignes via `items` ;
// sans ce champ, tout le panier part à l'achat.
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Items         []checkout.Item `json:"items"`
		PaymentMethod string          `json:"payment_method"`
		Note          string          `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := input.Items
	if len(items) == 0 {
		view, err := Carts.Get(c.Request.Context(), userID)
		if err != nil {
			fail(c, err)
			return
		}
		for _, line := range view.Items {
			items = append(items, checkout.Item{PhoneID: line.PhoneID, Quantity: line.Quantity})
		}
	}

	order, err := Checkouts.Checkout(c.Request.Context(), checkout.Request{
		UserID:        userID,
		Items:         items,
		PaymentMethod: input.PaymentMethod,
		Note:          input.Note,
	})
	if err != nil {
		fail(c, err)
		return
	}

	if email := c.GetString("email"); email != "" {
		go func() {
			if err := utils.SendEmail(email, "Confirmation de commande", utils.GenerateOrderConfirmationHTML(*order)); err != nil {
				log.Printf("⚠️ Email de confirmation non envoyé pour la commande %s: %v", order.ID, err)
			}
		}()
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Commande créée avec succès",
		"order":   order,
	})
}
