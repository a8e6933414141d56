package internal

import (
	"net/http"

	"kudosd/internal/controllers"
	"kudosd/internal/providers"
	"kudosd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/activities", http.HandlerFunc(apiController.ReceiveActivity))
	routers.Post("/evaluate", http.HandlerFunc(apiController.EvaluateActivity))
	routers.Get("/rules", http.HandlerFunc(apiController.GetRules))
	routers.Post("/notify", http.HandlerFunc(apiController.Notify))
	routers.Get("/settings", http.HandlerFunc(apiController.GetSettings))
	routers.Patch("/settings", http.HandlerFunc(apiController.UpdateSettings))
	routers.Get("/review-queue", http.HandlerFunc(apiController.GetReviewQueue))
	routers.Post("/review-queue/mark", http.HandlerFunc(apiController.MarkReviewItem))
	routers.Post("/review-queue/clear", http.HandlerFunc(apiController.ClearReviewed))
	routers.Get("/review-queue/count", http.HandlerFunc(apiController.GetReviewQueueCount))
	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	return routers
}
