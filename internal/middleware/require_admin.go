package middleware

import (
	"net/http"

	"oldphonedeals_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// RequireAdmin vérifie que l'utilisateur a le rôle "admin" ou "superAdmin"
func RequireAdmin(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || (role != models.RoleAdmin && role != models.RoleSuperAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireSuperAdmin réserve la gestion des comptes admin au superAdmin
func RequireSuperAdmin(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé au super administrateur"})
		c.Abort()
		return
	}
	c.Next()
}
