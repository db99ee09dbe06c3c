package app

import (
	"strings"

	"github.com/onsitehq/salespulse-backend/internal/pkg/envutil"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
)

type Config struct {
	Port         string
	AllowOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	port := envutil.GetEnv("PORT", "8080", log)

	var origins []string
	for _, o := range strings.Split(envutil.GetEnv("CORS_ALLOW_ORIGINS", "", log), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		Port:         port,
		AllowOrigins: origins,
	}
}
