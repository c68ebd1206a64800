package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shift-forge/config"
	"shift-forge/internal/api/handler"
	"shift-forge/internal/api/middleware"
	"shift-forge/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 站点模块
		sites := v1.Group("/sites")
		{
			sites.GET("", h.Site.ListSites)
			sites.GET("/:code", h.Site.GetSite)
			sites.POST("", h.Site.CreateSite)
			sites.PUT("/:code", h.Site.UpdateSite)
			sites.DELETE("/:code", h.Site.DeleteSite)
		}

		// 班次类型模块
		shiftTypes := v1.Group("/shift-types")
		{
			shiftTypes.GET("", h.ShiftType.ListShiftTypes)
			shiftTypes.GET("/:code", h.ShiftType.GetShiftType)
			shiftTypes.POST("", h.ShiftType.CreateShiftType)
			shiftTypes.PUT("/:code", h.ShiftType.UpdateShiftType)
			shiftTypes.DELETE("/:code", h.ShiftType.DeleteShiftType)
		}

		// 人员模块
		operators := v1.Group("/operators")
		{
			operators.GET("", h.Operator.ListOperators)
			operators.GET("/:id", h.Operator.GetOperator)
			operators.POST("", h.Operator.CreateOperator)
			operators.PUT("/:id", h.Operator.UpdateOperator)
			operators.DELETE("/:id", h.Operator.DeleteOperator)
			operators.POST("/:id/rules", h.Operator.AddRule)
			operators.DELETE("/:id/rules/:ruleId", h.Operator.DeleteRule)
		}

		// 排班需求规则模块
		coverageRules := v1.Group("/coverage-rules")
		{
			coverageRules.GET("", h.CoverageRule.ListRules)
			coverageRules.GET("/:id", h.CoverageRule.GetRule)
			coverageRules.POST("", h.CoverageRule.CreateRule)
			coverageRules.PUT("/:id", h.CoverageRule.UpdateRule)
			coverageRules.DELETE("/:id", h.CoverageRule.DeleteRule)
		}
		v1.GET("/coverage/check", h.CoverageRule.CheckMonth)

		// 花名册模块
		roster := v1.Group("/roster")
		{
			roster.GET("", h.Roster.GetMonth)
			roster.PUT("", h.Roster.UpsertEntry)
			roster.DELETE("/:entryId", h.Roster.DeleteEntry)
			roster.GET("/workload", h.Roster.WorkloadSummary)
			roster.POST("/absences/import", h.Roster.ImportAbsences)
		}

		// 草稿模块（生成接口限流，防止重复触发重算）
		drafts := v1.Group("/drafts")
		{
			drafts.POST("/generate", middleware.RateLimit(rdb, 10, time.Minute), h.Draft.Generate)
			drafts.GET("/current", h.Draft.GetCurrent)
			drafts.GET("/:id", h.Draft.GetByID)
			drafts.POST("/:id/apply", h.Draft.Apply)
			drafts.POST("/:id/discard", h.Draft.Discard)
		}
	}

	return r
}
