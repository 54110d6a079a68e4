package controllers

import (
	"net/http"

	"github.com/angelmondragon/grocerfront/api/responses"
	"github.com/angelmondragon/grocerfront/pkg/config"
)

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}
