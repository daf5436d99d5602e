package controllers

import (
	"net/http"

	"github.com/santelink/provider-portal/api/responses"
	"github.com/santelink/provider-portal/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SanteLink-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}
