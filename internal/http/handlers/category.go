package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	"github.com/yungbote/bookshelf-backend/internal/http/response"
	"github.com/yungbote/bookshelf-backend/internal/services"
)

type CategoryHandler struct {
	catalog services.CatalogService
}

func NewCategoryHandler(catalog services.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

func (ch *CategoryHandler) Create(c *gin.Context) {
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	category, err := ch.catalog.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, category)
}

func (ch *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	category, err := ch.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, category)
}

func (ch *CategoryHandler) List(c *gin.Context) {
	limit, offset := parsePaging(c)
	filter := catalogrepo.CategoryFilter{
		Name:       c.Query("name"),
		Descending: c.Query("order") == "desc",
		Limit:      limit,
		Offset:     offset,
	}
	rows, total, err := ch.catalog.ListCategories(c.Request.Context(), filter)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": rows, "total": total, "limit": limit, "offset": offset})
}

func (ch *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	category, err := ch.catalog.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, category)
}

func (ch *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	out, err := ch.catalog.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, out)
}
