package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/userhub/internal/cache"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/observability"
)

// UserStore is the slice of the record store the v1 handlers consume.
type UserStore interface {
	Get(id string) (user.Record, error)
	List() []user.Record
	Insert(in user.CreateInput) (user.Record, error)
	FindByContact(contact string) (user.Record, error)
	Len() int
}

// UserResponse is the v1 wire projection of a record. The contact
// field ships as "gmail" here; v2 ships it as "email". The drift is
// the fixture.
type UserResponse struct {
	ID        string `json:"id"`
	Gmail     string `json:"gmail"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type CreateUserRequest struct {
	Gmail    string `json:"gmail" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

func toUserResponse(rec user.Record) UserResponse {
	return UserResponse{
		ID:        rec.ID,
		Gmail:     rec.Contact,
		Name:      rec.Name,
		Phone:     rec.Phone,
		CreatedAt: rec.CreatedAt,
	}
}

const listCacheKey = "users:list:v1"

type UsersHandler struct {
	store   UserStore
	cache   *cache.Cache
	metrics *observability.Prom
}

func NewUsersHandler(store UserStore) *UsersHandler {
	return &UsersHandler{store: store}
}

func NewUsersHandlerWithCache(store UserStore, c *cache.Cache, metrics *observability.Prom) *UsersHandler {
	return &UsersHandler{store: store, cache: c, metrics: metrics}
}

func (h *UsersHandler) GetUserById(ctx *gin.Context) {
	id := ctx.Param("id")

	rec, err := h.store.Get(id)

	if err != nil {
		handlers.RespondNotFound(ctx, "User not found")
		return
	}

	handlers.RespondJSONWithETag(ctx, http.StatusOK, toUserResponse(rec))
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	if h.cache != nil {
		if cached, ok := h.cache.Get(listCacheKey); ok {
			if out, ok := cached.([]UserResponse); ok {
				handlers.RespondJSONWithETag(ctx, http.StatusOK, out)
				return
			}
		}
	}

	recs := h.store.List()
	out := make([]UserResponse, 0, len(recs))

	for _, rec := range recs {
		out = append(out, toUserResponse(rec))
	}

	if h.cache != nil {
		h.cache.Set(listCacheKey, out)
	}

	handlers.RespondJSONWithETag(ctx, http.StatusOK, out)
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req CreateUserRequest

	if !handlers.BindJSON(ctx, &req) {
		return
	}

	rec, err := h.store.Insert(user.CreateInput{
		Contact:  req.Gmail,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})

	if err != nil {
		handlers.RespondInternal(ctx, "Could not create user")
		return
	}

	if h.cache != nil {
		h.cache.Delete(listCacheKey)
	}

	if h.metrics != nil {
		h.metrics.StoredUsers.Set(float64(h.store.Len()))
	}

	ctx.JSON(http.StatusCreated, toUserResponse(rec))
}
