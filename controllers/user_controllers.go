package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register -> daftar user staff baru
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required"` // admin, staff, chef
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid register payload: %v", err))
		return
	}

	req.Role = strings.ToLower(req.Role)
	if !models.IsValidRole(req.Role) {
		utils.RespondWithError(c, utils.NewValidationError("invalid role %q", req.Role))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(c, utils.NewQueryError("hash password", err))
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Role:     req.Role,
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, utils.NewDuplicateError("email %s already registered", user.Email))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("create user", err))
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login -> verifikasi kredensial, balas JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("email and password are required"))
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondWithError(c, utils.NewQueryError("generate token", err))
		return
	}

	utils.InfoLogger.Printf("Login successful: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": user.Role,
	})
}

// Logout -> token masuk blacklist sampai kadaluarsa
func (uc *UserController) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" || token == authHeader {
		utils.RespondWithError(c, utils.NewValidationError("missing bearer token"))
		return
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	expiry := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiry)

	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> data user dari JWT
func (uc *UserController) GetProfile(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	userID, ok := userIDInterface.(uint)
	if !ok {
		utils.RespondWithError(c, utils.NewQueryError("read user id from context", nil))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("user %d not found", userID))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find user", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data", user)
}

// GetAllUsers -> daftar staff (khusus admin, dijaga middleware role)
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Order("name ASC").Find(&users).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("list users", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

// UpdateUserRole -> admin mengubah role staff
func (uc *UserController) UpdateUserRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid user id"))
		return
	}

	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondWithError(c, utils.NewValidationError("role is required"))
		return
	}
	body.Role = strings.ToLower(body.Role)
	if !models.IsValidRole(body.Role) {
		utils.RespondWithError(c, utils.NewValidationError("invalid role %q", body.Role))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("user %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find user", err))
		return
	}

	if err := uc.DB.Model(&user).Updates(map[string]interface{}{
		"role":       body.Role,
		"updated_at": time.Now(),
	}).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("update role", err))
		return
	}
	user.Role = body.Role
	utils.RespondJSON(c, http.StatusOK, "User role updated", user)
}

// DeleteUser -> admin menghapus akun staff
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewValidationError("invalid user id"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, utils.NewNotFoundError("user %d not found", id))
			return
		}
		utils.RespondWithError(c, utils.NewQueryError("find user", err))
		return
	}

	if err := uc.DB.Delete(&user).Error; err != nil {
		utils.RespondWithError(c, utils.NewQueryError("delete user", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User deleted", gin.H{"user_id": user.ID})
}
