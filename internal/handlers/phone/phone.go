package phone

import (
	"log"
	"net/http"
	"strconv"

	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/models"
	"oldphonedeals_back_end/internal/services/catalog"
	"oldphonedeals_back_end/internal/services/search"
	"oldphonedeals_back_end/internal/services/storage"

	"github.com/gin-gonic/gin"
)

// Catalog est injecté au démarrage (voir routes.RegisterRoutes)
var Catalog *catalog.Store

func Wire(store *catalog.Store) {
	Catalog = store
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

// GET /api/phones — feed public, annonces actives uniquement
func ListPhones(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	phones, err := Catalog.ListAll(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}

	live := []models.PhoneSummary{}
	for _, p := range phones {
		if p.Disabled {
			continue
		}
		live = append(live, p.Summary())
	}
	c.JSON(http.StatusOK, gin.H{"phones": live, "count": len(live)})
}

// GET /api/phones/:id — détail public d'une annonce active
func GetPhone(c *gin.Context) {
	phone, err := Catalog.GetLive(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, phone)
}

// POST /api/phones — crée une annonce pour le vendeur connecté
func CreatePhone(c *gin.Context) {
	sellerID := c.GetString("user_id")

	var input struct {
		Title string  `json:"title" binding:"required"`
		Brand string  `json:"brand" binding:"required"`
		Image string  `json:"image"`
		Price float64 `json:"price" binding:"required"`
		Stock int     `json:"stock"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phone, err := Catalog.Create(c.Request.Context(), sellerID, input.Title, input.Brand,
		input.Image, input.Price, input.Stock)
	if err != nil {
		fail(c, err)
		return
	}

	go search.IndexPhone(*phone)

	log.Printf("📦 Annonce créée: %s (%s) par %s", phone.ID, phone.Title, sellerID)
	c.JSON(http.StatusCreated, phone)
}

// PUT /api/phones/:id — réservé au vendeur propriétaire
func UpdatePhone(c *gin.Context) {
	sellerID := c.GetString("user_id")
	phoneID := c.Param("id")

	existing, err := Catalog.GetByID(c.Request.Context(), phoneID)
	if err != nil {
		fail(c, err)
		return
	}
	if existing.SellerID != sellerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cette annonce ne vous appartient pas"})
		return
	}

	var input struct {
		Title string  `json:"title"`
		Brand string  `json:"brand"`
		Image string  `json:"image"`
		Price float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phone, err := Catalog.Update(c.Request.Context(), phoneID, input.Title, input.Brand,
		input.Image, input.Price)
	if err != nil {
		fail(c, err)
		return
	}

	go search.IndexPhone(*phone)

	c.JSON(http.StatusOK, phone)
}

// DELETE /api/phones/:id — désactive l'annonce (jamais de suppression physique :
// les commandes passées la référencent)
func DeletePhone(c *gin.Context) {
	sellerID := c.GetString("user_id")
	phoneID := c.Param("id")

	existing, err := Catalog.GetByID(c.Request.Context(), phoneID)
	if err != nil {
		fail(c, err)
		return
	}
	if existing.SellerID != sellerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cette annonce ne vous appartient pas"})
		return
	}

	if err := Catalog.SetDisabled(c.Request.Context(), phoneID, true); err != nil {
		fail(c, err)
		return
	}

	go search.RemovePhone(phoneID)

	c.JSON(http.StatusOK, gin.H{"message": "Annonce retirée de la vente"})
}

// GET /api/phones/mine — annonces du vendeur connecté, actives ou non
func MyListings(c *gin.Context) {
	sellerID := c.GetString("user_id")

	phones, err := Catalog.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phones": phones, "count": len(phones)})
}

// PUT /api/phones/:id/stock — restock vendeur (valeur absolue)
func RestockPhone(c *gin.Context) {
	sellerID := c.GetString("user_id")
	phoneID := c.Param("id")

	existing, err := Catalog.GetByID(c.Request.Context(), phoneID)
	if err != nil {
		fail(c, err)
		return
	}
	if existing.SellerID != sellerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cette annonce ne vous appartient pas"})
		return
	}

	var input struct {
		Stock *int `json:"stock" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock requis"})
		return
	}

	if err := Catalog.AdjustStock(c.Request.Context(), phoneID, *input.Stock, sellerID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock mis à jour", "stock": *input.Stock})
}

// POST /api/phones/images — upload d'une image d'annonce vers MinIO
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image requis"})
		return
	}

	// 5 Mo max
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image trop volumineuse (max 5 Mo)"})
		return
	}

	url, err := storage.UploadPhoneImage(c.Request.Context(), file)
	if err != nil {
		log.Printf("❌ Erreur upload image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
