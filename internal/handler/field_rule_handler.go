package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-field-api/internal/dto"
	"project-field-api/internal/response"
	"project-field-api/internal/service"
)

type FieldRuleHandler struct {
	ruleService service.FieldRuleService
}

func NewFieldRuleHandler(ruleService service.FieldRuleService) *FieldRuleHandler {
	return &FieldRuleHandler{
		ruleService: ruleService,
	}
}

// ListFieldRules godoc
// @Summary      필드 규칙 목록 조회
// @Description  priority 내림차순, 생성 시각 오름차순으로 정렬됩니다
// @Tags         field-rules
// @Produce      json
// @Param        projectId       query string false "Project ID"
// @Param        includeInactive query bool   false "비활성 규칙 포함"
// @Success      200 {object} response.SuccessResponse{data=[]dto.FieldRuleResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /field-rules [get]
func (h *FieldRuleHandler) ListFieldRules(c *gin.Context) {
	var query dto.FieldRuleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	rules, err := h.ruleService.ListFieldRules(c.Request.Context(), &query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, rules)
}

// CreateFieldRule godoc
// @Summary      필드 규칙 생성
// @Tags         field-rules
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateFieldRuleRequest true "필드 규칙 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.FieldRuleResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /field-rules [post]
func (h *FieldRuleHandler) CreateFieldRule(c *gin.Context) {
	var req dto.CreateFieldRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rule, err := h.ruleService.CreateFieldRule(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, rule)
}

// GetFieldRule godoc
// @Summary      필드 규칙 조회
// @Tags         field-rules
// @Produce      json
// @Param        ruleId path string true "Rule ID"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldRuleResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /field-rules/{ruleId} [get]
func (h *FieldRuleHandler) GetFieldRule(c *gin.Context) {
	ruleID, ok := parseUUIDParam(c, "ruleId")
	if !ok {
		return
	}

	rule, err := h.ruleService.GetFieldRule(c.Request.Context(), ruleID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, rule)
}

// UpdateFieldRule godoc
// @Summary      필드 규칙 수정
// @Tags         field-rules
// @Accept       json
// @Produce      json
// @Param        ruleId path string true "Rule ID"
// @Param        request body dto.UpdateFieldRuleRequest true "필드 규칙 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldRuleResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /field-rules/{ruleId} [patch]
func (h *FieldRuleHandler) UpdateFieldRule(c *gin.Context) {
	ruleID, ok := parseUUIDParam(c, "ruleId")
	if !ok {
		return
	}

	var req dto.UpdateFieldRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rule, err := h.ruleService.UpdateFieldRule(c.Request.Context(), ruleID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, rule)
}

// DeleteFieldRule godoc
// @Summary      필드 규칙 삭제
// @Tags         field-rules
// @Param        ruleId path string true "Rule ID"
// @Success      204
// @Failure      404 {object} response.ErrorResponse
// @Router       /field-rules/{ruleId} [delete]
func (h *FieldRuleHandler) DeleteFieldRule(c *gin.Context) {
	ruleID, ok := parseUUIDParam(c, "ruleId")
	if !ok {
		return
	}

	if err := h.ruleService.DeleteFieldRule(c.Request.Context(), ruleID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
