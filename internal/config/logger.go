package config

import (
	"log/slog"
	"os"
)

// NewLogger monta o logger do serviço conforme o ambiente: JSON em produção
// (nível info), texto com source em desenvolvimento (nível debug).
func NewLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}))
}
