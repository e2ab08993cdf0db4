package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-field-api/internal/dto"
	"project-field-api/internal/response"
	"project-field-api/internal/service"
)

type FieldTypeHandler struct {
	fieldTypeService service.FieldTypeService
}

func NewFieldTypeHandler(fieldTypeService service.FieldTypeService) *FieldTypeHandler {
	return &FieldTypeHandler{
		fieldTypeService: fieldTypeService,
	}
}

// ListFieldTypes godoc
// @Summary      필드 타입 목록 조회
// @Description  시스템 타입을 먼저, 나머지는 이름순으로 반환합니다
// @Tags         field-types
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.FieldTypeResponse}
// @Failure      500 {object} response.ErrorResponse
// @Router       /field-types [get]
func (h *FieldTypeHandler) ListFieldTypes(c *gin.Context) {
	types, err := h.fieldTypeService.ListFieldTypes(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, types)
}

// CreateFieldType godoc
// @Summary      필드 타입 생성
// @Tags         field-types
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateFieldTypeRequest true "필드 타입 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.FieldTypeResponse}
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      409 {object} response.ErrorResponse "중복된 이름"
// @Router       /field-types [post]
func (h *FieldTypeHandler) CreateFieldType(c *gin.Context) {
	var req dto.CreateFieldTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	fieldType, err := h.fieldTypeService.CreateFieldType(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, fieldType)
}

// GetFieldType godoc
// @Summary      필드 타입 조회
// @Tags         field-types
// @Produce      json
// @Param        typeId path string true "Field Type ID"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldTypeResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /field-types/{typeId} [get]
func (h *FieldTypeHandler) GetFieldType(c *gin.Context) {
	typeID, ok := parseUUIDParam(c, "typeId")
	if !ok {
		return
	}

	fieldType, err := h.fieldTypeService.GetFieldType(c.Request.Context(), typeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, fieldType)
}

// UpdateFieldType godoc
// @Summary      필드 타입 수정
// @Description  사용 중인 타입의 검증 규칙을 바꾸면 warnings 에 재검증 안내가 포함됩니다
// @Tags         field-types
// @Accept       json
// @Produce      json
// @Param        typeId path string true "Field Type ID"
// @Param        request body dto.UpdateFieldTypeRequest true "필드 타입 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.UpdateFieldTypeResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /field-types/{typeId} [patch]
func (h *FieldTypeHandler) UpdateFieldType(c *gin.Context) {
	typeID, ok := parseUUIDParam(c, "typeId")
	if !ok {
		return
	}

	var req dto.UpdateFieldTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.fieldTypeService.UpdateFieldType(c.Request.Context(), typeID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// DeleteFieldType godoc
// @Summary      필드 타입 삭제
// @Description  시스템 타입이나 필드가 사용 중인 타입은 삭제할 수 없습니다
// @Tags         field-types
// @Param        typeId path string true "Field Type ID"
// @Success      204
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /field-types/{typeId} [delete]
func (h *FieldTypeHandler) DeleteFieldType(c *gin.Context) {
	typeID, ok := parseUUIDParam(c, "typeId")
	if !ok {
		return
	}

	if err := h.fieldTypeService.DeleteFieldType(c.Request.Context(), typeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
