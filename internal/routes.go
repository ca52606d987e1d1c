package internal

import (
	"net/http"

	"hobbyd/internal/controllers"
	"hobbyd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/users", http.HandlerFunc(apiController.CreateUser))
	routers.Get("/users", http.HandlerFunc(apiController.GetUser))

	routers.Get("/hobbies", http.HandlerFunc(apiController.ListHobbies))
	routers.Post("/hobbies", http.HandlerFunc(apiController.CreateHobby))
	routers.Delete("/hobbies", http.HandlerFunc(apiController.DeleteHobby))
	routers.Get("/hobbies/stats", http.HandlerFunc(apiController.HobbyStats))
	routers.Get("/hobbies/overview", http.HandlerFunc(apiController.HobbiesOverview))

	routers.Post("/sessions", http.HandlerFunc(apiController.CreateSession))
	routers.Delete("/sessions", http.HandlerFunc(apiController.DeleteSession))
	routers.Get("/sessions/recent", http.HandlerFunc(apiController.RecentSessions))

	routers.Get("/stats", http.HandlerFunc(apiController.Summary))
	return routers
}
