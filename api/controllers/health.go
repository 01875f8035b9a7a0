package controllers

import (
	"context"
	"net/http"

	"github.com/celebrelabs/celebre-backend/api/responses"
	"github.com/celebrelabs/celebre-backend/pkg/config"
	pkgerrors "github.com/celebrelabs/celebre-backend/pkg/errors"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Celebre-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, store, cache pinger) http.HandlerFunc {
	deps := []struct {
		name string
		dep  pinger
	}{
		{"firestore", store},
		{"redis", cache},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Celebre-Env", cfg.App.Env)

		for _, entry := range deps {
			name, dep := entry.name, entry.dep
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				if logg != nil {
					ctx := logg.WithField(r.Context(), "dependency", name)
					logg.Error(ctx, "health.dependency.unavailable", err)
				}
				responses.WriteError(r.Context(), nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
