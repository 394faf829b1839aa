package admin

import (
	"log"
	"net/http"

	"oldphonedeals_back_end/internal/database"
	"oldphonedeals_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// GET /api/admin/phones/:id/reviews — tous les avis d'une annonce, masqués compris
func ListPhoneReviews(c *gin.Context) {
	phoneID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID annonce invalide"})
		return
	}

	session, err := database.GetPhonesSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`
		SELECT review_id, phone_id, reviewer_id, reviewer_name, rating, comment, hidden, created_at
		FROM reviews_by_phone WHERE phone_id = ?
	`, phoneID).Iter()

	reviews := []models.Review{}
	var r models.Review
	for iter.Scan(&r.ID, &r.PhoneID, &r.ReviewerID, &r.ReviewerName, &r.Rating, &r.Comment, &r.Hidden, &r.CreatedAt) {
		reviews = append(reviews, r)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture avis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

// PUT /api/admin/phones/:id/reviews/:reviewId/hidden — modération d'un avis
func SetReviewHidden(c *gin.Context) {
	phoneID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID annonce invalide"})
		return
	}
	reviewID, err := gocql.ParseUUID(c.Param("reviewId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID avis invalide"})
		return
	}

	var input struct {
		Hidden *bool `json:"hidden" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ hidden requis"})
		return
	}

	session, err := database.GetPhonesSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var reviewerID string
	if err := session.Query(
		"SELECT reviewer_id FROM reviews_by_phone WHERE phone_id = ? AND review_id = ?",
		phoneID, reviewID).Scan(&reviewerID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Avis introuvable"})
		return
	}

	if err := session.Query(
		"UPDATE reviews_by_phone SET hidden = ? WHERE phone_id = ? AND review_id = ?",
		*input.Hidden, phoneID, reviewID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour avis"})
		return
	}

	log.Printf("⚠️ Avis %s → hidden=%v (par %s)", reviewID, *input.Hidden, c.GetString("user_id"))
	c.JSON(http.StatusOK, gin.H{"message": "Avis mis à jour", "hidden": *input.Hidden})
}
