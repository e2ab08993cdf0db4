package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-field-api/internal/dto"
	"project-field-api/internal/response"
	"project-field-api/internal/service"
)

type FieldHandler struct {
	fieldService service.FieldService
}

func NewFieldHandler(fieldService service.FieldService) *FieldHandler {
	return &FieldHandler{
		fieldService: fieldService,
	}
}

// ListFields godoc
// @Summary      필드 목록 조회
// @Tags         fields
// @Produce      json
// @Param        status query string false "Status" Enums(Active, Inactive, Archived)
// @Param        type   query string false "Field type name"
// @Param        parent query string false "Parent field name"
// @Param        search query string false "Name/description search"
// @Param        page   query int    false "Page (1-based)"
// @Param        limit  query int    false "Page size"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldListResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /fields [get]
func (h *FieldHandler) ListFields(c *gin.Context) {
	var query dto.FieldListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	page, err := h.fieldService.ListFields(c.Request.Context(), &query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// CreateField godoc
// @Summary      필드 생성
// @Tags         fields
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateFieldRequest true "필드 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.FieldResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "중복된 이름"
// @Router       /fields [post]
func (h *FieldHandler) CreateField(c *gin.Context) {
	var req dto.CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	field, err := h.fieldService.CreateField(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, field)
}

// GetField godoc
// @Summary      필드 조회
// @Tags         fields
// @Produce      json
// @Param        fieldId path string true "Field ID"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /fields/{fieldId} [get]
func (h *FieldHandler) GetField(c *gin.Context) {
	fieldID, ok := parseUUIDParam(c, "fieldId")
	if !ok {
		return
	}

	field, err := h.fieldService.GetField(c.Request.Context(), fieldID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, field)
}

// UpdateField godoc
// @Summary      필드 수정
// @Description  parent 를 빈 문자열로 보내면 최상위로 이동합니다
// @Tags         fields
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID"
// @Param        request body dto.UpdateFieldRequest true "필드 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /fields/{fieldId} [patch]
func (h *FieldHandler) UpdateField(c *gin.Context) {
	fieldID, ok := parseUUIDParam(c, "fieldId")
	if !ok {
		return
	}

	var req dto.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	field, err := h.fieldService.UpdateField(c.Request.Context(), fieldID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, field)
}

// DeleteField godoc
// @Summary      필드 보관(soft delete)
// @Description  필드를 Archived 상태로 전환합니다. 활성 하위 필드가 있으면 409 를 반환합니다
// @Tags         fields
// @Param        fieldId path string true "Field ID"
// @Success      204
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /fields/{fieldId} [delete]
func (h *FieldHandler) DeleteField(c *gin.Context) {
	fieldID, ok := parseUUIDParam(c, "fieldId")
	if !ok {
		return
	}

	if err := h.fieldService.DeleteField(c.Request.Context(), fieldID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetHierarchy godoc
// @Summary      필드 계층 조회
// @Description  보관되지 않은 필드를 parent 이름별로 묶습니다. 최상위 필드는 "root" 아래에 있습니다
// @Tags         fields
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.FieldHierarchyResponse}
// @Router       /fields/hierarchy [get]
func (h *FieldHandler) GetHierarchy(c *gin.Context) {
	hierarchy, err := h.fieldService.GetHierarchy(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, hierarchy)
}

// GetChildren godoc
// @Summary      하위 필드 조회
// @Tags         fields
// @Produce      json
// @Param        name path string true "Parent field name"
// @Success      200 {object} response.SuccessResponse{data=[]dto.FieldResponse}
// @Router       /fields/by-name/{name}/children [get]
func (h *FieldHandler) GetChildren(c *gin.Context) {
	children, err := h.fieldService.GetChildren(c.Request.Context(), c.Param("name"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, children)
}
