package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/nutridry/storefront-backend/internal/auth"
	"github.com/nutridry/storefront-backend/internal/awsapi"
	"github.com/nutridry/storefront-backend/internal/catalog"
	"github.com/nutridry/storefront-backend/internal/config"
	"github.com/nutridry/storefront-backend/internal/credentials"
	"github.com/nutridry/storefront-backend/internal/handlers"
	"github.com/nutridry/storefront-backend/internal/metrics"
	"github.com/nutridry/storefront-backend/internal/objectstore"
	"github.com/nutridry/storefront-backend/internal/orphan"
	"github.com/nutridry/storefront-backend/internal/recordstore"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	// optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	clients, err := awsapi.NewClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	broker := credentials.NewBroker(
		clients.CognitoIdentity,
		cfg.Cognito.Region,
		cfg.Cognito.UserPoolID,
		cfg.Cognito.IdentityPoolID,
	)

	svc := catalog.NewService(catalog.Deps{
		Broker:          broker,
		Objects:         objectstore.New(cfg.S3.Bucket, cfg.S3.Region),
		Records:         recordstore.New(cfg.DynamoDB.Region),
		Orphans:         orphan.NewPublisher(clients.SQS, cfg.OrphanQueueURL),
		Metrics:         metrics.NewPublisher(clients.CloudWatch),
		Bucket:          cfg.S3.Bucket,
		CategoriesTable: cfg.DynamoDB.CategoriesTable,
		ProductsTable:   cfg.DynamoDB.ProductsTable,
	})

	hcfg := handlers.HandlerConfig{
		Catalog:               svc,
		Auth:                  auth.NewService(clients.CognitoUser, cfg.Cognito.ClientID, cfg.ProfileCacheTTL),
		MaxCategoryImageBytes: cfg.MaxCategoryImageBytes,
		MaxProductImageBytes:  cfg.MaxProductImageBytes,
		GalleryLimit:          catalog.DefaultGalleryLimit,
	}

	r := setupRouter(hcfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
