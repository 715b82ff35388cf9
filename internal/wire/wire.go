package wire

import (
	"net/http"

	"field-booking/internal/adaptor"
	"field-booking/internal/data/repository"
	"field-booking/internal/notify"
	"field-booking/internal/usecase"
	"field-booking/pkg/middleware"
	"field-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring assembles services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, hub *notify.Hub, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, hub, logger)
	handler := adaptor.NewHandler(service, hub, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))

	wireSlots(r, handler.Slot, logger)
	wireCart(r, handler.Cart, repo, logger)
	wireEvents(r, handler.Events, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
