package handlers

import (
	"github.com/gin-gonic/gin"

	appsearch "github.com/praxisip/molscope/internal/application/search"
)

// PatentHandler serves single-patent detail lookups.
type PatentHandler struct {
	service *appsearch.Service
}

func NewPatentHandler(service *appsearch.Service) *PatentHandler {
	return &PatentHandler{service: service}
}

// GetDetail handles GET /patent/:patentID.
func (h *PatentHandler) GetDetail(c *gin.Context) {
	resp, err := h.service.GetDetail(c.Request.Context(), c.Param("patentID"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, resp)
}
