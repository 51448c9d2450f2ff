package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "crediflow-backend/internal/adapter/http"
	"crediflow-backend/internal/adapter/middleware"
	"crediflow-backend/internal/adapter/repository/mysql"
	"crediflow-backend/internal/config"
	"crediflow-backend/internal/infrastructure/bureau"
	"crediflow-backend/internal/infrastructure/cache"
	"crediflow-backend/internal/infrastructure/db"
	"crediflow-backend/internal/infrastructure/ocr"
	"crediflow-backend/internal/infrastructure/pdftext"
	"crediflow-backend/internal/infrastructure/storage"
	"crediflow-backend/internal/infrastructure/verifier"
	appUC "crediflow-backend/internal/usecase/application"
	docUC "crediflow-backend/internal/usecase/document"
	"crediflow-backend/internal/usecase/scoring"
	verifUC "crediflow-backend/internal/usecase/verification"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	// infrastructure clients
	store := storage.NewClient(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)
	var recognizer pdftext.Recognizer
	if cfg.OCRServiceURL != "" {
		recognizer = ocr.NewClient(cfg.OCRServiceURL, cfg.OCRLang, cfg.OCRTimeout)
	}
	extractor := pdftext.NewExtractor(recognizer)
	provider := verifier.NewClient(cfg.VerifierURL, cfg.VerifierAPIKey, cfg.VerifierTimeout)
	signer := verifier.NewSigner(cfg.VerifierWebhookSecret)
	deudas := bureau.NewClient(cfg.BureauURL, cfg.BureauTimeout, cfg.Production())

	// usecases share one unit of work over the same DB handle
	txm := mysql.NewGormUoW(gdb)
	recomputer := scoring.NewRecomputer(txm)
	verifUsecase := verifUC.NewUsecase(txm, provider, signer, recomputer)
	docUsecase := docUC.NewUsecase(txm, store, extractor, verifUsecase, recomputer)
	appUsecase := appUC.NewUsecase(txm, deudas, recomputer)

	h := httpadp.NewHandler()
	appHandler := httpadp.NewApplicationHandler(appUsecase, recomputer)
	docHandler := httpadp.NewDocumentHandler(docUsecase)
	webhookHandler := httpadp.NewWebhookHandler(verifUsecase)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idem := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)

	e.POST("/solicitudes", appHandler.Create, idem)
	e.GET("/solicitudes/:solicitud_id", appHandler.Get)
	e.GET("/solicitudes/:solicitud_id/historial", appHandler.History)
	e.GET("/solicitudes/:solicitud_id/scoring", appHandler.Scoring)
	e.POST("/solicitudes/:solicitud_id/enviar", appHandler.Submit, idem)
	e.POST("/solicitudes/:solicitud_id/revision", appHandler.OpenReview, idem)
	e.POST("/solicitudes/:solicitud_id/solicitar-info", appHandler.RequestInfo, idem)
	e.POST("/solicitudes/:solicitud_id/reanudar", appHandler.ResumeReview, idem)
	e.POST("/solicitudes/:solicitud_id/aprobar", appHandler.Approve, idem)
	e.POST("/solicitudes/:solicitud_id/rechazar", appHandler.Reject, idem)

	// multipart upload skips the idempotency layer: it hashes JSON bodies
	e.POST("/solicitudes/:solicitud_id/documentos", docHandler.Upload)
	e.GET("/solicitudes/:solicitud_id/documentos", docHandler.List)
	e.POST("/documentos/:documento_id/validar", docHandler.Validate, idem)
	e.POST("/documentos/:documento_id/evaluar", docHandler.Evaluate, idem)
	e.DELETE("/documentos/:documento_id", docHandler.Delete)

	// provider callback authenticates by HMAC signature, not by headers
	e.POST("/webhooks/verificacion", webhookHandler.VerificationCallback)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
