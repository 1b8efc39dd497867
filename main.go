package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "xcargo/internal/config"
	router "xcargo/internal/http"
	"xcargo/internal/ocr"
	"xcargo/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB()
	defer intconfig.CloseDB()

	ocrClient, err := ocr.NewClient(env.OCRBaseURL, env.OCRAPIKey)
	if err != nil {
		log.Printf("advertencia: gateway OCR no configurado: %v (solo captura manual)", err)
	}

	store := services.NewStagingStore(0)
	defer store.Close()

	// Router (Gin engine)
	r := router.NewRouter(env, store, ocrClient)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Servidor escuchando en http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("No se pudo iniciar el servidor: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Apagando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Fallo al apagar el servidor: %v", err)
	}

	log.Println("Servidor detenido correctamente.")
}
