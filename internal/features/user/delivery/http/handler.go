package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"user-admin-backend/internal/features/user/mapper"
	"user-admin-backend/internal/features/user/models"
	"user-admin-backend/internal/features/user/service"
)

// Response texts shared by both route groups.
const (
	msgIncorrectCredentials = "Incorrect login or password."
	msgAlreadyRevoked       = "This user is already revoked."
	msgDuplicateLogin       = "User with this login is already exists"
	msgUserNotFound         = "User with this login is not found."
	msgValidationCombined   = "All characters except Latin letters and numbers in login, password and name fields are prohibited"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.createUser)
		users.PATCH("/name", h.changeName)
		users.PATCH("/gender", h.changeGender)
		users.PATCH("/birthday", h.changeBirthday)
		users.PATCH("/password", h.changePassword)
		users.PATCH("/login", h.changeLogin)
		users.GET("/me", h.getMe)
	}
}

// @Summary Create user
// @Description Create a new non-admin user. Requires the credentials of any existing user.
// @Tags users
// @Produce json
// @Param login query string true "Your login"
// @Param password query string true "Your password"
// @Param newUserLogin query string true "New user login"
// @Param newUserPassword query string true "New user password"
// @Param newUserName query string true "New user name"
// @Param newUserGender query int false "New user gender (0 woman, 1 man, 2 unknown)"
// @Param newUserBirthday query string false "New user birthday (YYYY-MM-DD)"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse "Incorrect credentials"
// @Failure 409 {object} models.ErrorResponse "Duplicate login or invalid characters"
// @Router /users [post]
func (h *UserHandler) createUser(c *gin.Context) {
	actor, ok := h.authorize(c)
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

	_, err := h.service.CreateUser(c.Request.Context(), service.CreateUserParams{
		Login:     c.Query("newUserLogin"),
		Password:  c.Query("newUserPassword"),
		Name:      c.Query("newUserName"),
		Gender:    gender,
		Birthday:  birthday,
		CreatedBy: actor.Login,
	})
	if err != nil {
		respondCreateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "New user has been successfully created."})
}

// @Summary Change own name
// @Tags users
// @Produce json
// @Param login query string true "Your login"
// @Param password query string true "Your password"
// @Param nameToChange query string true "New name"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Revoked user or invalid characters"
// @Router /users/name [patch]
func (h *UserHandler) changeName(c *gin.Context) {
	actor, ok := h.authorizeActive(c)
	if !ok {
		return
	}

	err := h.service.ChangeUserName(c.Request.Context(), actor.Login, c.Query("nameToChange"), actor.Login)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Name has been successfully changed."})
}

// @Summary Change own gender
// @Tags users
// @Produce json
// @Param login query string true "Your login"
// @Param password query string true "Your password"
// @Param gender query int true "New gender (0 woman, 1 man, 2 unknown)"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Revoked user"
// @Router /users/gender [patch]
func (h *UserHandler) changeGender(c *gin.Context) {
	actor, ok := h.authorizeActive(c)
	if !ok {
		return
	}

	gender, ok := queryGender(c)
	if !ok {
		return
	}

	err := h.service.ChangeUserGender(c.Request.Context(), actor.Login, gender, actor.Login)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gender has been successfully changed."})
}

// @Summary Change own birthday
// @Tags users
// @Produce json
// @Param login query string true "Your login"
// @Param password query string true "Your password"
// @Param birthday query string true "New birthday (YYYY-MM-DD)"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Revoked user"
// @Router /users/birthday [patch]
func (h *UserHandler) changeBirthday(c *gin.Context) {
	actor, ok := h.authorizeActive(c)
	if !ok {
		return
	}

	birthday, ok := queryDate(c, "birthday")
	if !ok {
		return
	}

	err := h.service.ChangeUserBirthday(c.Request.Context(), actor.Login, birthday, actor.Login)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Birthday has been successfully changed."})
}

// @Summary Change own password
// @Tags users
// @Produce json
// @Param login query string true "Your login"
// @Param password query string true "Your password"
// @Param newPassword query string true "New password"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Revoked user or invalid characters"
// @Router /users/password [patch]
func (h *UserHandler) changePassword(c *gin.Context) {
	actor, ok := h.authorizeActive(c)
	if !ok {
		return
	}

	err := h.service.ChangeUserPassword(c.Request.Context(), actor.Login, c.Query("newPassword"), actor.Login)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been successfully changed."})
}

// @Summary Change own login
// @Tags users
// @Produce json
// @Param login query string true "Your login"
// @Param password query string true "Your password"
// @Param newLogin query string true "New login"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Revoked user, duplicate login or invalid characters"
// @Router /users/login [patch]
func (h *UserHandler) changeLogin(c *gin.Context) {
	actor, ok := h.authorizeActive(c)
	if !ok {
		return
	}

	// This endpoint stamps modified_by with the new login, not with the
	// acting one.
	newLogin := c.Query("newLogin")
	err := h.service.ChangeUserLogin(c.Request.Context(), actor.Login, newLogin, newLogin)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login has been successfully changed."})
}

// @Summary Get own record
// @Tags users
// @Produce json
// @Param login query string true "Your login"
// @Param password query string true "Your password"
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Revoked user"
// @Router /users/me [get]
func (h *UserHandler) getMe(c *gin.Context) {
	actor, ok := h.authorizeActive(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, mapper.ToUserResponse(actor))
}

// authorize resolves the acting user from the login and password query
// parameters, revoked or not.
func (h *UserHandler) authorize(c *gin.Context) (actor *models.User, ok bool) {
	user, err := h.service.FindAuthorized(c.Request.Context(), c.Query("login"), c.Query("password"), false)
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

// authorizeActive additionally rejects revoked actors.
func (h *UserHandler) authorizeActive(c *gin.Context) (actor *models.User, ok bool) {
	user, ok := h.authorize(c)
	if !ok {
		return nil, false
	}

	if user.IsRevoked() {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": msgAlreadyRevoked})
		return nil, false
	}

	return user, true
}

// respondCreateError collapses create failures the way the original create
// endpoints do: one combined charset message regardless of the field.
func respondCreateError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrDuplicateLogin):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": msgDuplicateLogin})
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": msgValidationCombined})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// respondServiceError maps change-operation outcomes to status codes.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrDuplicateLogin):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": msgDuplicateLogin})
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": validationErr.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": msgUserNotFound})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func queryGender(c *gin.Context) (int, bool) {
	raw := c.Query("gender")
	if raw == "" {
		raw = c.Query("newUserGender")
	}
	if raw == "" {
		return 2, true
	}

	gender, err := strconv.Atoi(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid gender format"})
		return 0, false
	}

	return gender, true
}

// queryDate parses a date parameter as YYYY-MM-DD or RFC 3339. An absent
// parameter yields the zero time, which the service stores as the absent
// sentinel.
func queryDate(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
	return time.Time{}, false
}
