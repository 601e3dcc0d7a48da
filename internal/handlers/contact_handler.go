package handlers

import (
	"net/http"

	"phonebook_backend/internal/services"
	"phonebook_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

// RegisterProtectedRoutes mounts the contact CRUD behind the auth
// middleware. Ownership is re-checked per record inside the service.
func (h *ContactHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	contacts := rg.Group("/contacts")
	{
		contacts.GET("", h.List)
		contacts.POST("", h.Create)
		contacts.GET("/:id", h.Get)
		contacts.PATCH("/:id", h.Update)
		contacts.PATCH("/:id/favorite", h.UpdateFavorite)
		contacts.DELETE("/:id", h.Delete)
	}
}

func (h *ContactHandler) List(c *gin.Context) {
	user, ok := h.RequireCurrentUser(c)
	if !ok {
		return
	}

	var query dto.ListContactsQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	db := h.GetDB(c)

	contacts, err := h.contactService.List(db, user.ID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) Get(c *gin.Context) {
	user, ok := h.RequireCurrentUser(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	contact, err := h.contactService.Get(db, user.ID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Create(c *gin.Context) {
	user, ok := h.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateContactRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	contact, err := h.contactService.Create(db, user.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	user, ok := h.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateContactRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	contact, err := h.contactService.Update(db, user.ID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) UpdateFavorite(c *gin.Context) {
	user, ok := h.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateFavoriteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	contact, err := h.contactService.UpdateFavorite(db, user.ID, c.Param("id"), *req.Favorite)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	user, ok := h.RequireCurrentUser(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	contact, err := h.contactService.Delete(db, user.ID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}
