package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
)

func NewRouter(handler *Handler, logger logging.Logger) *gin.Engine {
	if logger == nil {
		logger = logging.Nop{}
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", handler.MetricsSnapshot)

	api := router.Group("/api/v1")
	{
		api.POST("/payments", handler.CreatePayment)
		api.GET("/payments", handler.ListPayments)
	}

	return router
}
