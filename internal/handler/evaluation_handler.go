package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-field-api/internal/dto"
	"project-field-api/internal/response"
	"project-field-api/internal/service"
)

type EvaluationHandler struct {
	evaluationService service.EvaluationService
}

func NewEvaluationHandler(evaluationService service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: evaluationService,
	}
}

// Evaluate godoc
// @Summary      규칙 평가
// @Description  현재 폼 값으로 활성 규칙을 한 번 평가해 필드별 표시/활성/필수 상태를 반환합니다
// @Tags         evaluation
// @Accept       json
// @Produce      json
// @Param        request body dto.EvaluateRequest true "필드 이름별 값"
// @Success      200 {object} response.SuccessResponse{data=dto.EvaluateResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /evaluate [post]
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.evaluationService.Evaluate(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// ValidateRecord godoc
// @Summary      레코드 검증
// @Description  규칙 평가 후 보이는 값마다 타입 검증 규칙과 유효 필수 여부를 확인합니다. 검증 실패도 200 으로 반환됩니다
// @Tags         evaluation
// @Accept       json
// @Produce      json
// @Param        request body dto.EvaluateRequest true "필드 이름별 값"
// @Success      200 {object} response.SuccessResponse{data=dto.ValidateRecordResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /validate [post]
func (h *EvaluationHandler) ValidateRecord(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.evaluationService.ValidateRecord(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}
