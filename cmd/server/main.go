package main

import (
	"context"
	"log"

	"go-approval/internal/api/handler"
	"go-approval/internal/config"
	"go-approval/internal/consumer"
	"go-approval/internal/core/postgres/repository"
	coreredis "go-approval/internal/core/redis"
	"go-approval/internal/database"
	"go-approval/internal/logger"
	"go-approval/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 1. Configuration + logging
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	zapLogger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zapLogger.Sync()

	// 2. Set up database connection and schema
	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// 3. Initialize repositories and the event bus
	workflowRepo := repository.NewWorkflowRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	hierarchy := repository.NewHierarchyDirectory(db)

	redisClient := coreredis.NewRedisClient(cfg.RedisAddr)
	eventBus := coreredis.NewApprovalEventBus(redisClient)

	// 4. Initialize services
	resolver := service.NewApproverResolver(hierarchy)
	workflowSvc := service.NewWorkflowService(workflowRepo, zapLogger)
	approvalSvc := service.NewApprovalService(workflowRepo, requestRepo, resolver, eventBus, zapLogger)

	// 5. Start the decision consumer in the background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	decisionConsumer := consumer.NewDecisionConsumer(eventBus, zapLogger)
	go decisionConsumer.Start(ctx)

	// 6. Initialize handlers and routes
	workflowHandler := handler.NewWorkflowHandler(workflowSvc)
	approvalHandler := handler.NewApprovalHandler(approvalSvc)

	router := gin.Default()

	api := router.Group("/api/v1")
	{
		api.POST("/workflows", workflowHandler.CreateWorkflow)
		api.PATCH("/workflows/:id", workflowHandler.UpdateWorkflow)
		api.GET("/workflows", workflowHandler.ListWorkflows)
		api.GET("/workflows/:id", workflowHandler.GetWorkflow)
		api.GET("/workflows/code/:code", workflowHandler.GetWorkflowByCode)

		api.POST("/requests", approvalHandler.SubmitRequest)
		api.GET("/requests/:id", approvalHandler.GetRequest)
		api.GET("/requests/entity/:entityType/:entityId", approvalHandler.GetRequestByEntity)
		api.POST("/executions/:id/decision", approvalHandler.ProcessDecision)
		api.GET("/approvals/pending/:userId", approvalHandler.ListPendingForApprover)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7. Start server
	zapLogger.Info("Server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
