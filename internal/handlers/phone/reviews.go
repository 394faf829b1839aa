package phone

import (
	"log"
	"net/http"
	"strings"
	"time"

	"oldphonedeals_back_end/internal/database"
	"oldphonedeals_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// GET /api/phones/:id/reviews — avis visibles, plus la note moyenne.
// Un avis masqué reste visible pour son auteur.
func ListReviews(c *gin.Context) {
	phoneID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID annonce invalide"})
		return
	}

	viewerID := c.GetString("user_id") // vide pour un visiteur anonyme

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
	totalRating := 0
	visibleCount := 0

	var r models.Review
	for iter.Scan(&r.ID, &r.PhoneID, &r.ReviewerID, &r.ReviewerName, &r.Rating, &r.Comment, &r.Hidden, &r.CreatedAt) {
		if !r.Hidden {
			totalRating += r.Rating
			visibleCount++
		}
		if r.Hidden && r.ReviewerID != viewerID {
			continue
		}
		reviews = append(reviews, r)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture avis"})
		return
	}

	average := 0.0
	if visibleCount > 0 {
		average = float64(totalRating) / float64(visibleCount)
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"count":          len(reviews),
		"average_rating": average,
		"total_reviews":  visibleCount,
	})
}

// POST /api/phones/:id/reviews
func CreateReview(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment" binding:"required,min=10,max=500"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	phone, err := Catalog.GetLive(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	// nom de l'auteur pour l'affichage
	reviewerName := "Utilisateur"
	if uid, err := gocql.ParseUUID(userID); err == nil {
		if usersSession, err := database.GetUsersSession(); err == nil {
			var firstname, lastname string
			if err := usersSession.Query("SELECT firstname, lastname FROM users WHERE user_id = ?", uid).
				Scan(&firstname, &lastname); err == nil {
				reviewerName = strings.TrimSpace(firstname + " " + lastname)
			}
		}
	}

	session, err := database.GetPhonesSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	review := models.Review{
		ID:           gocql.TimeUUID(),
		PhoneID:      phone.ID,
		ReviewerID:   userID,
		ReviewerName: reviewerName,
		Rating:       input.Rating,
		Comment:      input.Comment,
		Hidden:       false,
		CreatedAt:    time.Now(),
	}

	err = session.Query(`
		INSERT INTO reviews_by_phone (phone_id, review_id, reviewer_id, reviewer_name, rating, comment, hidden, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, review.PhoneID, review.ID, review.ReviewerID, review.ReviewerName,
		review.Rating, review.Comment, review.Hidden, review.CreatedAt).Exec()
	if err != nil {
		log.Printf("❌ Erreur création avis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création avis"})
		return
	}

	log.Printf("⭐ Avis créé: %s pour annonce %s (note: %d/5)", review.ID, phone.ID, review.Rating)
	c.JSON(http.StatusCreated, gin.H{"message": "Avis créé avec succès", "review": review})
}

// PUT /api/phones/:id/reviews/:reviewId/visibility — l'auteur masque ou réaffiche son avis
func SetReviewVisibility(c *gin.Context) {
	userID := c.GetString("user_id")

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

	role := c.GetString("role")
	if reviewerID != userID && role != models.RoleAdmin && role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cet avis ne vous appartient pas"})
		return
	}

	if err := session.Query(
		"UPDATE reviews_by_phone SET hidden = ? WHERE phone_id = ? AND review_id = ?",
		*input.Hidden, phoneID, reviewID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour avis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Visibilité de l'avis mise à jour", "hidden": *input.Hidden})
}
