package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-field-api/internal/response"
	"project-field-api/internal/service"
)

type SchemaHandler struct {
	exportService service.SchemaExportService
}

func NewSchemaHandler(exportService service.SchemaExportService) *SchemaHandler {
	return &SchemaHandler{
		exportService: exportService,
	}
}

// ExportSchema godoc
// @Summary      스키마 스냅샷 내보내기
// @Description  필드 타입, 필드, 규칙을 JSON 으로 직렬화해 S3 에 업로드하고 presigned URL 을 반환합니다
// @Tags         schema
// @Produce      json
// @Success      201 {object} response.SuccessResponse{data=dto.SchemaExportResponse}
// @Failure      503 {object} response.ErrorResponse "S3 미설정"
// @Router       /schema/export [post]
func (h *SchemaHandler) ExportSchema(c *gin.Context) {
	result, err := h.exportService.ExportSchema(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, result)
}
