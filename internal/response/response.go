package response

import (
	"github.com/gin-gonic/gin"
)

// SuccessResponse is the envelope for successful responses
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the envelope for failed responses
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   interface{} `json:"error"`
}

// SendSuccess writes a success envelope
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Success: true, Data: data})
}

// SendError writes an error envelope
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error: gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// SendAppError writes an error envelope carrying the offending field when present
func SendAppError(c *gin.Context, status int, appErr *AppError) {
	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	if appErr.Details != "" && appErr.Code == ErrCodeValidation {
		body["details"] = appErr.Details
	}
	c.JSON(status, ErrorResponse{Success: false, Error: body})
}
