package main

import (
	"net/http"
	"os"
	"time"

	_ "gestion-muestras/docs"
	"gestion-muestras/internal/platform/logger"
	"gestion-muestras/internal/router"
)

// @title Sistema de Gestión de Muestras
// @version 1.0
// @description Inventario single-user de muestras físicas: registro, ciclo de estatus con historial, etiquetas QR e importación/exportación Excel.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{Log: log})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // la exportación de Excel puede tardar
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
