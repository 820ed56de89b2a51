package service

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/dhruv304c2/gemini-gateway/service/config"
	llmApi "github.com/dhruv304c2/gemini-gateway/service/llm_api"
	"github.com/dhruv304c2/gemini-gateway/service/metrics"
	"github.com/dhruv304c2/gemini-gateway/service/middleware"
	"github.com/dhruv304c2/gemini-gateway/service/version"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "gemini-gateway"

const (
	EndPointHealth          = "/health"
	EndPointMetrics         = "/metrics"
	EndPointGenerateText    = "/generate-text"
	EndPointGenerateImage   = "/generate-from-image"
	EndPointGenerateDoc     = "/generate-from-document"
	EndPointGenerateAudio   = "/generate-from-audio"
	EndPointChat            = "/api/chat"
	EndPointChatSuggestions = "/api/chat/suggestions"
)

// NewRouter wires every route against provider. The provider is built once
// by the caller and shared by all requests.
func NewRouter(cfg *config.Config, provider llmApi.Provider) *gin.Engine {
	metrics.Register()

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(middleware.Logger(), middleware.Recovery(llmApi.WriteError), middleware.CORS(cfg.AllowedOrigins))

	router.GET(EndPointHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version.Get(serviceName),
		})
	})
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))

	//Handlers
	h := llmApi.NewHandler(provider, cfg.ProviderTimeout, cfg.MaxUploadBytes)
	router.POST(EndPointGenerateText, llmApi.Handle(h.GenerateText))
	router.POST(EndPointGenerateImage, llmApi.Handle(h.GenerateFromAttachment(llmApi.ImageAttachment)))
	router.POST(EndPointGenerateDoc, llmApi.Handle(h.GenerateFromAttachment(llmApi.DocumentAttachment)))
	router.POST(EndPointGenerateAudio, llmApi.Handle(h.GenerateFromAttachment(llmApi.AudioAttachment)))
	router.POST(EndPointChat, llmApi.Handle(h.Chat))
	router.POST(EndPointChatSuggestions, llmApi.Handle(h.SuggestPrompts))

	// Browser chat client
	files := http.FileServer(http.Dir(cfg.StaticDir))
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, llmApi.JsonErr{Error: "not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})

	return router
}

// Start builds the Gemini client, serves until SIGINT/SIGTERM, then drains
// in-flight requests.
func Start(cfg *config.Config) error {
	if cfg.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := llmApi.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SystemInstruction)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewRouter(cfg, provider),
		ReadTimeout:  120 * time.Second,
		WriteTimeout: cfg.ProviderTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP service listening on %s (model %s)", server.Addr, cfg.GeminiModel)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ProviderTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
