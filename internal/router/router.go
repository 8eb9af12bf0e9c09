package router

import (
	"net/http"

	_ "questionboard/docs"
	"questionboard/internal/app/board"
	"questionboard/internal/app/health"
	"questionboard/internal/app/question"
	"questionboard/internal/gateways/websocket"
	"questionboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

const (
	metricsPath = "/metrics"
	docPath     = "/swagger-doc.json"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(logger *zap.Logger, allowedOrigins []string, httpMetrics *middleware.Metrics) *Router {
	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORSMiddleware(allowedOrigins))
	if httpMetrics != nil {
		engine.Use(middleware.HTTPMetricsMiddleware(httpMetrics, metricsPath, "/api/health"))
	}
	return &Router{Engine: engine}
}

func (r *Router) RegisterQuestionRoutes(handler question.Handler, writeGuards ...gin.HandlerFunc) {
	question.RegisterRoutes(r.Engine.Group("/api"), handler, writeGuards...)
}

func (r *Router) RegisterBoardRoutes(handler board.Handler) {
	board.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterWebSocketRoutes(hub *websocket.Hub) {
	websocket.RegisterRoutes(r.Engine, hub)
}

func (r *Router) RegisterMetricsRoute(gatherer prometheus.Gatherer) {
	r.Engine.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

func (r *Router) RegisterSwaggerRoutes() {
	r.Engine.GET(docPath, func(c *gin.Context) {
		doc, err := swag.ReadDoc()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	})
	r.Engine.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/swagger/index.html")
	})
	r.Engine.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL(docPath),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

func (r *Router) Serve(addr string) error {
	return r.Engine.Run(addr)
}
