package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	domainagg "github.com/yungbote/bookshelf-backend/internal/domain/aggregates"
	"github.com/yungbote/bookshelf-backend/internal/http/response"
	"github.com/yungbote/bookshelf-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookshelf-backend/internal/services"
)

type BookHandler struct {
	catalog services.CatalogService
}

func NewBookHandler(catalog services.CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func parsePaging(c *gin.Context) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

func (bh *BookHandler) Create(c *gin.Context) {
	var req services.BookInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	book, err := bh.catalog.CreateBook(c.Request.Context(), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, book)
}

func (bh *BookHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := bh.catalog.GetBook(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

func (bh *BookHandler) List(c *gin.Context) {
	limit, offset := parsePaging(c)
	filter := catalogrepo.BookFilter{
		Title:      c.Query("title"),
		OrderBy:    c.Query("order_by"),
		Descending: c.Query("order") == "desc",
		Limit:      limit,
		Offset:     offset,
	}
	if v := c.Query("published_after"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.PublishedAfter = &t
		}
	}
	if v := c.Query("published_before"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.PublishedBefore = &t
		}
	}
	rows, total, err := bh.catalog.ListBooks(c.Request.Context(), filter)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"books": rows, "total": total, "limit": limit, "offset": offset})
}

func (bh *BookHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.BookInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	book, err := bh.catalog.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, book)
}

func (bh *BookHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	out, err := bh.catalog.DeleteBook(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (bh *BookHandler) SubmitRating(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("no authenticated user"))
		return
	}
	var req struct {
		Value int `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := bh.catalog.SubmitRating(c.Request.Context(), id, rd.UserID, req.Value)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (bh *BookHandler) ListRatings(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rows, err := bh.catalog.ListRatings(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ratings": rows})
}

// ---- relation endpoints ----

func (bh *BookHandler) AddAuthor(c *gin.Context) {
	bh.addRelation(c, domainagg.RelationBookAuthor, "authorID")
}

func (bh *BookHandler) RemoveAuthor(c *gin.Context) {
	bh.removeRelation(c, domainagg.RelationBookAuthor, "authorID")
}

func (bh *BookHandler) ReplaceAuthors(c *gin.Context) {
	bh.replaceRelations(c, domainagg.RelationBookAuthor, "author_ids")
}

func (bh *BookHandler) AddCategory(c *gin.Context) {
	bh.addRelation(c, domainagg.RelationBookCategory, "categoryID")
}

func (bh *BookHandler) RemoveCategory(c *gin.Context) {
	bh.removeRelation(c, domainagg.RelationBookCategory, "categoryID")
}

func (bh *BookHandler) ReplaceCategories(c *gin.Context) {
	bh.replaceRelations(c, domainagg.RelationBookCategory, "category_ids")
}

func (bh *BookHandler) addRelation(c *gin.Context, kind domainagg.RelationKind, param string) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rightID, ok := parseIDParam(c, param)
	if !ok {
		return
	}
	if err := bh.catalog.AddRelation(c.Request.Context(), kind, bookID, rightID); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"ok": true})
}

func (bh *BookHandler) removeRelation(c *gin.Context, kind domainagg.RelationKind, param string) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rightID, ok := parseIDParam(c, param)
	if !ok {
		return
	}
	out, err := bh.catalog.RemoveRelation(c.Request.Context(), kind, bookID, rightID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (bh *BookHandler) replaceRelations(c *gin.Context, kind domainagg.RelationKind, field string) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req map[string][]uuid.UUID
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ids, found := req[field]
	if !found {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("missing %s", field))
		return
	}
	if err := bh.catalog.ReplaceRelations(c.Request.Context(), kind, bookID, ids); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
