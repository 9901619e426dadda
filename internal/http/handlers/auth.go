package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	intconfig "busline/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var (
		user         AuthUser
		passwordHash string
	)
	err := intconfig.DB.QueryRow(`
		SELECT id, name, email, COALESCE(phone, ''), password_hash, role
		FROM users
		WHERE email = ?`, strings.TrimSpace(req.Email)).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&passwordHash,
		&user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		} else {
			RespondError(c, http.StatusInternalServerError, "user lookup failed", err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(h.Env.JWTSecret))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "token signing failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

// POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" || len(req.Password) < 8 {
		RespondError(c, http.StatusBadRequest, "name, email and a password of at least 8 characters are required", nil)
		return
	}

	role := strings.TrimSpace(req.Role)
	switch role {
	case "", "passenger":
		role = "passenger"
	case "operator", "conductor":
		// staff roles are allowed through registration for now; an admin
		// approval step fits here later
	default:
		RespondError(c, http.StatusBadRequest, "unknown role", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "password hashing failed", err)
		return
	}

	user := AuthUser{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Phone: strings.TrimSpace(req.Phone),
		Role:  role,
	}
	_, err = intconfig.DB.Exec(`
		INSERT INTO users (id, name, email, phone, password_hash, role)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.Phone, string(hash), user.Role,
	)
	if err != nil {
		RespondError(c, http.StatusConflict, "could not create user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}
