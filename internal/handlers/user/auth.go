package user

import (
	"log"
	"net/http"
	"strings"
	"time"

	"oldphonedeals_back_end/internal/cache"
	"oldphonedeals_back_end/internal/database"
	"oldphonedeals_back_end/internal/models"
	"oldphonedeals_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ================== AUTH LOCALE ==================

func Register(c *gin.Context) {
	var input struct {
		FirstName string `json:"firstname" binding:"required"`
		LastName  string `json:"lastname" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le mot de passe doit contenir au moins 8 caractères"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	session, err := database.GetUsersSession()
	if err != nil {
		log.Printf("❌ Erreur session ScyllaDB: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// email déjà pris ?
	var existingID gocql.UUID
	if err := session.Query("SELECT user_id FROM users_by_email WHERE email = ?", email).
		Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	userID := gocql.TimeUUID()
	now := time.Now()

	if err := session.Query(`
		INSERT INTO users (user_id, email, password, firstname, lastname, role, disabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, email, hashedPassword, input.FirstName, input.LastName, models.RoleUser, false, now).Exec(); err != nil {
		log.Printf("❌ Erreur création utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	if err := session.Query("INSERT INTO users_by_email (email, user_id) VALUES (?, ?)",
		email, userID).Exec(); err != nil {
		// on nettoie pour ne pas laisser un compte sans index de login
		session.Query("DELETE FROM users WHERE user_id = ?", userID).Exec()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	user := models.User{
		ID:        userID.String(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     email,
		Role:      models.RoleUser,
		CreatedAt: now,
	}

	// email de bienvenue, jamais bloquant
	go func() {
		if err := utils.SendEmail(email, "Bienvenue sur OldPhoneDeals", utils.GenerateWelcomeHTML(input.FirstName)); err != nil {
			log.Printf("⚠️ Email de bienvenue non envoyé à %s: %v", email, err)
		}
	}()

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("✅ Utilisateur créé: %s (%s)", userID, email)
	c.JSON(http.StatusCreated, gin.H{
		"token":     token,
		"userId":    user.ID,
		"email":     user.Email,
		"firstname": user.FirstName,
		"lastname":  user.LastName,
		"role":      user.Role,
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	session, err := database.GetUsersSession()
	if err != nil {
		log.Printf("❌ Erreur session ScyllaDB: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var userID gocql.UUID
	if err := session.Query("SELECT user_id FROM users_by_email WHERE email = ?", email).
		Scan(&userID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	var user models.User
	var lastLogin time.Time
	err = session.Query(`
		SELECT email, password, firstname, lastname, role, disabled, created_at, last_login
		FROM users WHERE user_id = ?
	`, userID).Scan(&user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.Role, &user.Disabled, &user.CreatedAt, &lastLogin)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}
	user.ID = userID.String()
	if !lastLogin.IsZero() {
		user.LastLogin = &lastLogin
	}

	valid, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	if user.Disabled {
		c.JSON(http.StatusForbidden, gin.H{"error": "Compte désactivé"})
		return
	}

	now := time.Now()
	if err := session.Query("UPDATE users SET last_login = ? WHERE user_id = ?", now, userID).Exec(); err != nil {
		log.Printf("⚠️ Mise à jour last_login impossible pour %s: %v", userID, err)
	}
	cache.InvalidateUserCache(user.ID)

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"userId":    user.ID,
		"email":     user.Email,
		"firstname": user.FirstName,
		"lastname":  user.LastName,
		"role":      user.Role,
	})
}

// ================== PROFIL ==================

func Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	user, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":     user.ID,
		"email":      user.Email,
		"firstname":  user.FirstName,
		"lastname":   user.LastName,
		"role":       user.Role,
		"created_at": user.CreatedAt,
		"last_login": user.LastLogin,
	})
}

func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		FirstName string `json:"firstname" binding:"required"`
		LastName  string `json:"lastname" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, err := gocql.ParseUUID(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	newEmail := strings.ToLower(strings.TrimSpace(input.Email))

	// email courant, pour maintenir users_by_email si l'email change
	var currentEmail string
	if err := session.Query("SELECT email FROM users WHERE user_id = ?", uid).Scan(&currentEmail); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	if newEmail != currentEmail {
		var takenBy gocql.UUID
		if err := session.Query("SELECT user_id FROM users_by_email WHERE email = ?", newEmail).
			Scan(&takenBy); err == nil && takenBy != uid {
			c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
			return
		}
	}

	if err := session.Query("UPDATE users SET firstname = ?, lastname = ?, email = ? WHERE user_id = ?",
		input.FirstName, input.LastName, newEmail, uid).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	if newEmail != currentEmail {
		session.Query("INSERT INTO users_by_email (email, user_id) VALUES (?, ?)", newEmail, uid).Exec()
		session.Query("DELETE FROM users_by_email WHERE email = ?", currentEmail).Exec()
	}

	cache.InvalidateUserCache(userID)

	c.JSON(http.StatusOK, gin.H{"message": "Profil mis à jour avec succès"})
}
