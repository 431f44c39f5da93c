package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"user-admin-backend/internal/features/user/mapper"
	"user-admin-backend/internal/features/user/models"
	"user-admin-backend/internal/features/user/service"
)

// AdminHandler exposes the privileged route group. Every operation requires
// the credentials of an admin record; unlike the self-service group, target
// users are addressed by login and no revoked-target guard is applied.
type AdminHandler struct {
	service service.UserService
}

func NewAdminHandler(service service.UserService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin/users")
	{
		admin.POST("", h.createUser)
		admin.PATCH("/name", h.changeName)
		admin.PATCH("/gender", h.changeGender)
		admin.PATCH("/birthday", h.changeBirthday)
		admin.PATCH("/password", h.changePassword)
		admin.PATCH("/login", h.changeLogin)
		admin.GET("", h.listActive)
		admin.GET("/by-login", h.getByLogin)
		admin.GET("/older-than", h.listOlderThan)
		admin.DELETE("/hard", h.deleteHard)
		admin.DELETE("/soft", h.deleteSoft)
		admin.POST("/restore", h.restore)
	}
}

// @Summary Create user (admin)
// @Description Create a user, optionally an administrator.
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Param newUserLogin query string true "New user login"
// @Param newUserPassword query string true "New user password"
// @Param newUserName query string true "New user name"
// @Param newUserGender query int false "New user gender (0 woman, 1 man, 2 unknown)"
// @Param newUserBirthday query string false "New user birthday (YYYY-MM-DD)"
// @Param isAdmin query bool false "Create as administrator"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Duplicate login or invalid characters"
// @Router /admin/users [post]
func (h *AdminHandler) createUser(c *gin.Context) {
	actor, ok := h.authorizeAdmin(c)
	if !ok {
		return
	}

	gender, ok := queryGender(c)
	if !ok {
		return
	}
	birthday, ok := queryDate(c, "newUserBirthday")
	if !ok {
		return
	}

	isAdmin, _ := strconv.ParseBool(c.Query("isAdmin"))

	_, err := h.service.CreateUser(c.Request.Context(), service.CreateUserParams{
		Login:     c.Query("newUserLogin"),
		Password:  c.Query("newUserPassword"),
		Name:      c.Query("newUserName"),
		Gender:    gender,
		Birthday:  birthday,
		CreatedBy: actor.Login,
		IsAdmin:   isAdmin,
	})
	if err != nil {
		respondCreateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User has been successfully created."})
}

// @Summary Change user name (admin)
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Param userLogin query string true "Target user login"
// @Param nameToChange query string true "New name"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Target login absent"
// @Failure 409 {object} models.ErrorResponse "Invalid characters"
// @Router /admin/users/name [patch]
func (h *AdminHandler) changeName(c *gin.Context) {
	actor, ok := h.authorizeAdmin(c)
	if !ok {
		return
	}

	targetLogin := c.Query("userLogin")
	err := h.service.ChangeUserName(c.Request.Context(), targetLogin, c.Query("nameToChange"), actor.Login)
	if err != nil {
		respondAdminError(c, err, targetLogin)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Name has been successfully changed."})
}

// @Summary Change user gender (admin)
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Param userLogin query string true "Target user login"
// @Param gender query int true "New gender (0 woman, 1 man, 2 unknown)"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Target login absent"
// @Router /admin/users/gender [patch]
func (h *AdminHandler) changeGender(c *gin.Context) {
	actor, ok := h.authorizeAdmin(c)
	if !ok {
		return
	}

	gender, ok := queryGender(c)
	if !ok {
		return
	}

	targetLogin := c.Query("userLogin")
	err := h.service.ChangeUserGender(c.Request.Context(), targetLogin, gender, actor.Login)
	if err != nil {
		respondAdminError(c, err, targetLogin)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gender has been successfully changed."})
}

// @Summary Change user birthday (admin)
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Param userLogin query string true "Target user login"
// @Param birthday query string true "New birthday (YYYY-MM-DD)"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Target login absent"
// @Router /admin/users/birthday [patch]
func (h *AdminHandler) changeBirthday(c *gin.Context) {
	actor, ok := h.authorizeAdmin(c)
	if !ok {
		return
	}

	birthday, ok := queryDate(c, "birthday")
	if !ok {
		return
	}

	targetLogin := c.Query("userLogin")
	err := h.service.ChangeUserBirthday(c.Request.Context(), targetLogin, birthday, actor.Login)
	if err != nil {
		respondAdminError(c, err, targetLogin)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Birthday has been successfully changed."})
}

// @Summary Change user password (admin)
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Param userLogin query string true "Target user login"
// @Param newPassword query string true "New password"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Target login absent"
// @Failure 409 {object} models.ErrorResponse "Invalid characters"
// @Router /admin/users/password [patch]
func (h *AdminHandler) changePassword(c *gin.Context) {
	actor, ok := h.authorizeAdmin(c)
	if !ok {
		return
	}

	targetLogin := c.Query("userLogin")
	err := h.service.ChangeUserPassword(c.Request.Context(), targetLogin, c.Query("newPassword"), actor.Login)
	if err != nil {
		respondAdminError(c, err, targetLogin)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been successfully changed."})
}

// @Summary Change user login (admin)
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Param userLogin query string true "Target user login"
// @Param newLogin query string true "New login"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Target login absent"
// @Failure 409 {object} models.ErrorResponse "Duplicate login or invalid characters"
// @Router /admin/users/login [patch]
func (h *AdminHandler) changeLogin(c *gin.Context) {
	actor, ok := h.authorizeAdmin(c)
	if !ok {
		return
	}

	targetLogin := c.Query("userLogin")
	err := h.service.ChangeUserLogin(c.Request.Context(), targetLogin, c.Query("newLogin"), actor.Login)
	if err != nil {
		respondAdminError(c, err, targetLogin)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login has been successfully changed."})
}

// @Summary List active users
// @Description All non-revoked users ordered by creation time.
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Success 200 {array} models.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) listActive(c *gin.Context) {
	if _, ok := h.authorizeAdmin(c); !ok {
		return
	}

	users, err := h.service.ListActiveUsers(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, mapper.ToUserResponses(users))
}

// @Summary Get user by login
// @Description Name, gender, birthday and active status of a user.
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Param loginToSearch query string true "Login to search"
// @Success 200 {object} models.UserInfoResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/by-login [get]
func (h *AdminHandler) getByLogin(c *gin.Context) {
	if _, ok := h.authorizeAdmin(c); !ok {
		return
	}

	user, err := h.service.FindByLogin(c.Request.Context(), c.Query("loginToSearch"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": msgUserNotFound})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, mapper.ToUserInfoResponse(user))
}

// @Summary List users older than N years
// @Description Users, revoked included, whose age in completed years strictly exceeds the parameter.
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Param years query int true "Age threshold in years"
// @Success 200 {array} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/users/older-than [get]
func (h *AdminHandler) listOlderThan(c *gin.Context) {
	if _, ok := h.authorizeAdmin(c); !ok {
		return
	}

	years, err := strconv.Atoi(c.Query("years"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid years format"})
		return
	}

	users, err := h.service.FindOlderThan(c.Request.Context(), years)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, mapper.ToUserResponses(users))
}

// @Summary Hard delete user
// @Description Permanently removes the record.
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Param loginToDelete query string true "Login to delete"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/hard [delete]
func (h *AdminHandler) deleteHard(c *gin.Context) {
	if _, ok := h.authorizeAdmin(c); !ok {
		return
	}

	targetLogin := c.Query("loginToDelete")
	if err := h.service.HardDeleteUser(c.Request.Context(), targetLogin); err != nil {
		respondAdminError(c, err, targetLogin)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User has been successfully deleted."})
}

// @Summary Soft delete user
// @Description Marks the record revoked, keeping it in the table.
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Param loginToDelete query string true "Login to delete"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/soft [delete]
func (h *AdminHandler) deleteSoft(c *gin.Context) {
	actor, ok := h.authorizeAdmin(c)
	if !ok {
		return
	}

	targetLogin := c.Query("loginToDelete")
	if err := h.service.SoftDeleteUser(c.Request.Context(), targetLogin, actor.Login); err != nil {
		respondAdminError(c, err, targetLogin)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User has been successfully deleted."})
}

// @Summary Restore user
// @Description Clears the revocation marks of a soft-deleted record.
// @Tags admin
// @Produce json
// @Param login query string true "Admin login"
// @Param password query string true "Admin password"
// @Param loginToRestore query string true "Login to restore"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/restore [post]
func (h *AdminHandler) restore(c *gin.Context) {
	if _, ok := h.authorizeAdmin(c); !ok {
		return
	}

	targetLogin := c.Query("loginToRestore")
	if err := h.service.RestoreUser(c.Request.Context(), targetLogin); err != nil {
		respondAdminError(c, err, targetLogin)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User has been successfully restored."})
}

func (h *AdminHandler) authorizeAdmin(c *gin.Context) (actor *models.User, ok bool) {
	user, err := h.service.FindAuthorized(c.Request.Context(), c.Query("login"), c.Query("password"), true)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgIncorrectCredentials})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}

	return user, true
}

// respondAdminError maps admin mutate outcomes, naming the target in the
// not-found message.
func respondAdminError(c *gin.Context, err error, targetLogin string) {
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User with login:%s is not found.", targetLogin)})
	case errors.Is(err, service.ErrDuplicateLogin):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": msgDuplicateLogin})
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": validationErr.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
