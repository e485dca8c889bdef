package utils

import (
	"errors"

	httpError "ride-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

type BaseResponse struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Response writes a success envelope with the given status code.
func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(BaseResponse{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ResponseError maps a CommonError to its status code; anything else is a
// generic server failure (the detailed cause stays in the logs).
func ResponseError(err error, ctx *fiber.Ctx) error {
	var commonErr *httpError.CommonError
	if errors.As(err, &commonErr) {
		return ctx.Status(commonErr.Code).JSON(BaseResponse{
			Success: false,
			Code:    commonErr.Code,
			Message: commonErr.Message,
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(BaseResponse{
		Success: false,
		Code:    fiber.StatusInternalServerError,
		Message: "internal server error",
	})
}
