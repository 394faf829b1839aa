package user

import (
	"net/http"

	"oldphonedeals_back_end/internal/cache"

	"github.com/gin-gonic/gin"
)

// GET /api/wishlist
func GetWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	if wl, ok := cache.GetWishlistView(ctx, userID); ok {
		c.JSON(http.StatusOK, wl)
		return
	}

	wl, err := Wishlists.Get(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}
	cache.SetWishlistView(ctx, wl)

	c.JSON(http.StatusOK, wl)
}

// POST /api/wishlist
func AddToWishlist(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		PhoneID string `json:"phone_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := Wishlists.Add(c.Request.Context(), userID, input.PhoneID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Annonce ajoutée à la wishlist"})
}

// DELETE /api/wishlist/:phoneId
func RemoveFromWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	phoneID := c.Param("phoneId")

	if err := Wishlists.Remove(c.Request.Context(), userID, phoneID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Annonce retirée de la wishlist"})
}

// POST /api/wishlist/:phoneId/move-to-cart
func MoveWishlistToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	phoneID := c.Param("phoneId")

	view, err := Wishlists.MoveToCart(c.Request.Context(), userID, phoneID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Annonce déplacée vers le panier",
		"cart":    view,
	})
}
