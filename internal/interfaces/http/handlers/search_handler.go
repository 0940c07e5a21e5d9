package handlers

import (
	"github.com/gin-gonic/gin"

	appsearch "github.com/praxisip/molscope/internal/application/search"
	domainsearch "github.com/praxisip/molscope/internal/domain/search"
	apperrors "github.com/praxisip/molscope/pkg/errors"
)

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

// SearchHandler serves molecule searches.
type SearchHandler struct {
	service *appsearch.Service
}

func NewSearchHandler(service *appsearch.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles POST /search.
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.InvalidQuery("request body is not valid JSON").WithCause(err))
		return
	}

	query, err := domainsearch.NewSearchQuery(req.Query, req.SearchType, req.Page, req.PageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, resp)
}
