package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"github.com/impuestosrd/impuestosrd-api/internal/app"
	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
)

var ginLambda *ginadapter.GinLambda

// setup wires the application once per cold start.
func setup() {
	cfg := config.Load()
	cfg.Server.Mode = "release"
	cfg.Storage.UploadDir = lambdaUploadDir(os.Getenv("UPLOAD_DIR"))

	if err := logging.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}

	// The consumer is never started here; Lambda invocations are short lived.
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		logging.NewLogger("lambda").Fatal("Failed to initialise application", logging.Fields{"error": err.Error()})
	}

	ginLambda = ginadapter.New(a.Server.Router())
}

// Handler proxies API Gateway requests to the gin router.
func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logging.NewLogger("lambda").Debug("Received Lambda request", logging.Fields{
		"path":   req.Path,
		"method": req.HTTPMethod,
	})

	return ginLambda.ProxyWithContext(ctx, req)
}

// lambdaUploadDir keeps uploads off the read-only task root unless a
// directory was configured explicitly.
func lambdaUploadDir(configured string) string {
	if configured != "" {
		return configured
	}
	return filepath.Join(os.TempDir(), "uploads")
}

func main() {
	setup()
	defer logging.Sync()
	lambda.Start(Handler)
}
