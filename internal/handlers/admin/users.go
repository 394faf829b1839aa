package admin

import (
	"log"
	"net/http"
	"time"

	"oldphonedeals_back_end/internal/cache"
	"oldphonedeals_back_end/internal/database"
	"oldphonedeals_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// GET /api/admin/users
func ListUsers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`
		SELECT user_id, email, firstname, lastname, role, disabled, created_at, last_login
		FROM users
	`).Iter()

	users := []models.User{}
	var uid gocql.UUID
	var u models.User
	var lastLogin time.Time
	for iter.Scan(&uid, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.Disabled, &u.CreatedAt, &lastLogin) {
		u.ID = uid.String()
		if !lastLogin.IsZero() {
			t := lastLogin
			u.LastLogin = &t
		}
		users = append(users, u)
		u = models.User{}
		lastLogin = time.Time{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateurs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// PUT /api/admin/users/:id/disabled — désactive ou réactive un compte.
// Un compte désactivé ne peut plus se connecter ; ses annonces restent en ligne.
func SetUserDisabled(c *gin.Context) {
	uid, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	var input struct {
		Disabled *bool `json:"disabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ disabled requis"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// superAdmin intouchable, même pour un autre admin
	var role string
	if err := session.Query("SELECT role FROM users WHERE user_id = ?", uid).Scan(&role); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if role == models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Impossible de désactiver un superAdmin"})
		return
	}

	if err := session.Query("UPDATE users SET disabled = ? WHERE user_id = ?",
		*input.Disabled, uid).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour utilisateur"})
		return
	}

	cache.InvalidateUserCache(uid.String())

	log.Printf("⚠️ Compte %s → disabled=%v (par %s)", uid, *input.Disabled, c.GetString("user_id"))
	c.JSON(http.StatusOK, gin.H{"message": "Compte mis à jour", "disabled": *input.Disabled})
}

// PUT /api/admin/users/:id/role — réservé au superAdmin
func UpdateUserRole(c *gin.Context) {
	uid, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	var input struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle requis"})
		return
	}

	if input.Role != models.RoleUser && input.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle inconnu: " + input.Role})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var currentRole string
	if err := session.Query("SELECT role FROM users WHERE user_id = ?", uid).Scan(&currentRole); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if currentRole == models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Impossible de modifier le rôle d'un superAdmin"})
		return
	}

	if err := session.Query("UPDATE users SET role = ? WHERE user_id = ?",
		input.Role, uid).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour rôle"})
		return
	}

	cache.InvalidateUserCache(uid.String())

	log.Printf("✅ Rôle de %s → %s (par %s)", uid, input.Role, c.GetString("user_id"))
	c.JSON(http.StatusOK, gin.H{"message": "Rôle mis à jour", "role": input.Role})
}
