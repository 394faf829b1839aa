package admin

import (
	"log"
	"net/http"
	"strconv"

	"oldphonedeals_back_end/internal/services/search"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/phones — feed de modération, annonces désactivées comprises
func ListAllPhones(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))

	phones, err := Catalog.ListAll(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phones": phones, "count": len(phones)})
}

// PUT /api/admin/phones/:id/disabled — modération d'une annonce.
// La désactivation retire aussi l'annonce de l'index de recherche.
func SetPhoneDisabled(c *gin.Context) {
	phoneID := c.Param("id")

	var input struct {
		Disabled *bool `json:"disabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ disabled requis"})
		return
	}

	if err := Catalog.SetDisabled(c.Request.Context(), phoneID, *input.Disabled); err != nil {
		fail(c, err)
		return
	}

	if *input.Disabled {
		go search.RemovePhone(phoneID)
	} else if phone, err := Catalog.GetByID(c.Request.Context(), phoneID); err == nil {
		go search.IndexPhone(*phone)
	}

	log.Printf("⚠️ Annonce %s → disabled=%v (par %s)", phoneID, *input.Disabled, c.GetString("user_id"))
	c.JSON(http.StatusOK, gin.H{"message": "Annonce mise à jour", "disabled": *input.Disabled})
}

// PUT /api/admin/phones/:id/stock — correction manuelle de stock
func AdjustPhoneStock(c *gin.Context) {
	phoneID := c.Param("id")

	var input struct {
		Stock *int `json:"stock" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock requis"})
		return
	}

	if err := Catalog.AdjustStock(c.Request.Context(), phoneID, *input.Stock, c.GetString("user_id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock corrigé", "stock": *input.Stock})
}
