package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"user-crud-service/internal/adapter/gin/response"
	"user-crud-service/internal/domain/user"
	pkgerrors "user-crud-service/pkg/errors"
	"user-crud-service/pkg/logger"
)

// Client-facing messages
const (
	MsgUserNotFound    = "user not found"
	MsgEmailExists     = "email already exists"
	MsgInvalidID       = "user id must be a valid integer"
	MsgUserDeleted     = "user deleted"
	MsgListFailed      = "failed to list users"
	MsgGetFailed       = "failed to get user"
	MsgCreateFailed    = "failed to create user"
	MsgUpdateFailed    = "failed to update user"
	MsgDeleteFailed    = "failed to delete user"
	MsgInvalidBodyJSON = "request body must be a JSON object with name and email"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	repo user.Repository
	log  *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(repo user.Repository, log *zap.Logger) *UserHandler {
	return &UserHandler{
		repo: repo,
		log:  log,
	}
}

// UserRequest is the body of create and update requests. Update replaces
// both fields, so both are required in either case.
type UserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DeleteUserResponse confirms a deletion
type DeleteUserResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	users, err := h.repo.ListUsers(c.Request.Context())
	if err != nil {
		log.Error("list users failed", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, MsgListFailed)
		return
	}

	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}

	response.Success(c, http.StatusOK, out)
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	log := logger.WithContext(c.Request.Context(), h.log).With(zap.Int64("id", id))

	u, found, err := h.repo.GetUser(c.Request.Context(), id)
	if err != nil {
		log.Error("get user failed", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, MsgGetFailed)
		return
	}
	if !found {
		response.Fail(c, http.StatusNotFound, MsgUserNotFound)
		return
	}

	response.Success(c, http.StatusOK, toUserResponse(u))
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid create user request", zap.Error(err))
		response.Fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	u, err := h.repo.CreateUser(c.Request.Context(), user.Input{Name: req.Name, Email: req.Email})
	if err != nil {
		if pkgerrors.IsConstraintViolation(err) {
			log.Info("create user rejected", zap.String("email", req.Email), zap.Error(err))
			response.Fail(c, http.StatusBadRequest, MsgEmailExists)
			return
		}
		log.Error("create user failed", zap.Error(err))
		response.Fail(c, http.StatusBadRequest, MsgCreateFailed)
		return
	}

	log.Info("user created", zap.Int64("id", u.ID))
	response.Success(c, http.StatusCreated, toUserResponse(u))
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	log := logger.WithContext(c.Request.Context(), h.log).With(zap.Int64("id", id))

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid update user request", zap.Error(err))
		response.Fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	u, found, err := h.repo.UpdateUser(c.Request.Context(), id, user.Input{Name: req.Name, Email: req.Email})
	if err != nil {
		if pkgerrors.IsConstraintViolation(err) {
			log.Info("update user rejected", zap.String("email", req.Email), zap.Error(err))
			response.Fail(c, http.StatusBadRequest, MsgEmailExists)
			return
		}
		log.Error("update user failed", zap.Error(err))
		response.Fail(c, http.StatusBadRequest, MsgUpdateFailed)
		return
	}
	if !found {
		response.Fail(c, http.StatusNotFound, MsgUserNotFound)
		return
	}

	log.Info("user updated")
	response.Success(c, http.StatusOK, toUserResponse(u))
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	log := logger.WithContext(c.Request.Context(), h.log).With(zap.Int64("id", id))

	removed, err := h.repo.DeleteUser(c.Request.Context(), id)
	if err != nil {
		log.Error("delete user failed", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, MsgDeleteFailed)
		return
	}
	if !removed {
		response.Fail(c, http.StatusNotFound, MsgUserNotFound)
		return
	}

	log.Info("user deleted")
	response.Success(c, http.StatusOK, DeleteUserResponse{ID: id, Message: MsgUserDeleted})
}

// parseID reads the :id path parameter, answering 400 when it is not an integer.
func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid user id", zap.String("id", raw))
		response.Fail(c, http.StatusBadRequest, MsgInvalidID)
		return 0, false
	}
	return id, true
}

// bindingMessage turns a binding error into a message safe to show the client.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	}
	return MsgInvalidBodyJSON
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
