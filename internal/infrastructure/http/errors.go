package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/acquirer"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/payment"
)

// statusFor maps a use case error to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	if ae, ok := acquirer.AsError(err); ok {
		switch ae.Kind {
		case acquirer.FailureClient:
			return http.StatusUnprocessableEntity, "ACQUIRER_DECLINED"
		case acquirer.FailureConnectivity:
			return http.StatusGatewayTimeout, "ACQUIRER_UNREACHABLE"
		default:
			return http.StatusBadGateway, "ACQUIRER_ERROR"
		}
	}

	switch {
	case errors.Is(err, payment.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, payment.ErrConfiguration):
		return http.StatusInternalServerError, "CONFIGURATION_ERROR"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func (h *Handler) abort(c *gin.Context, err error) {
	status, code := statusFor(err)

	msg := err.Error()
	if code == "INTERNAL_ERROR" {
		msg = "internal error"
	}

	fields := map[string]any{
		"status":     status,
		"error":      err,
		"request_id": requestID(c),
	}
	if status >= http.StatusInternalServerError {
		h.logger().Error("request failed", fields)
	} else {
		h.logger().Warn("request rejected", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     code,
		Message:   msg,
		RequestID: requestID(c),
	})
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:     "VALIDATION_ERROR",
		Message:   msg,
		RequestID: requestID(c),
	})
}
