package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	"github.com/yungbote/bookshelf-backend/internal/http/response"
	"github.com/yungbote/bookshelf-backend/internal/services"
)

type AuthorHandler struct {
	catalog services.CatalogService
}

func NewAuthorHandler(catalog services.CatalogService) *AuthorHandler {
	return &AuthorHandler{catalog: catalog}
}

func (ah *AuthorHandler) Create(c *gin.Context) {
	var req services.AuthorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	author, err := ah.catalog.CreateAuthor(c.Request.Context(), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, author)
}

func (ah *AuthorHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	author, err := ah.catalog.GetAuthor(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, author)
}

func (ah *AuthorHandler) List(c *gin.Context) {
	limit, offset := parsePaging(c)
	filter := catalogrepo.AuthorFilter{
		Name:       c.Query("name"),
		OrderBy:    c.Query("order_by"),
		Descending: c.Query("order") == "desc",
		Limit:      limit,
		Offset:     offset,
	}
	rows, total, err := ah.catalog.ListAuthors(c.Request.Context(), filter)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"authors": rows, "total": total, "limit": limit, "offset": offset})
}

func (ah *AuthorHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.AuthorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	author, err := ah.catalog.UpdateAuthor(c.Request.Context(), id, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, author)
}

func (ah *AuthorHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	out, err := ah.catalog.DeleteAuthor(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, out)
}
