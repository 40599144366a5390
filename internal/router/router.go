package router

import (
	"database/sql"
	"net/http"
	"os"

	"gestion-muestras/internal/adapters/excel"
	"gestion-muestras/internal/adapters/storage/jsonfile"
	mem "gestion-muestras/internal/adapters/storage/memory"
	pg "gestion-muestras/internal/adapters/storage/postgres"
	"gestion-muestras/internal/domain/importer"
	"gestion-muestras/internal/domain/labels"
	"gestion-muestras/internal/domain/samples"
	"gestion-muestras/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// defaultDeleteSecret es el secreto compartido de confirmación de
// borrado cuando DELETE_SECRET no está en el entorno.
const defaultDeleteSecret = "Normalitec"

type Options struct {
	// Secreto de confirmación de borrado. Vacío = DELETE_SECRET del
	// entorno, o el default.
	DeleteSecret string

	// Opcional: si viene, usa Postgres. Si no, archivo JSON local
	// (DATA_FILE), y en memoria como último recurso.
	DB *sql.DB

	// Opcional: ruta del archivo de datos (para tests). Vacío = env.
	DataFile string

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	secret := opts.DeleteSecret
	if secret == "" {
		secret = os.Getenv("DELETE_SECRET")
	}
	if secret == "" {
		secret = defaultDeleteSecret
	}

	repo := resolveRepo(opts, log)

	samplesSvc := samples.NewService(repo, secret)
	importSvc := importer.NewService(repo)

	samples.RegisterRoutes(r, samplesSvc)
	importer.RegisterRoutes(r, importSvc, excel.New(), log)
	labels.RegisterRoutes(r, samplesSvc)

	return r
}

// resolveRepo elige el backend: Postgres si hay DB (explícita o por
// DB_DSN), si no archivo JSON, y memoria solo si el archivo no se pudo
// preparar (p.ej. tests sin filesystem).
func resolveRepo(opts Options, log logger.Logger) samples.Repository {
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				log.Warn("postgres no disponible, usando archivo local", map[string]any{"error": err.Error()})
			} else {
				db = opened
			}
		}
	}
	if db != nil {
		log.Info("storage backend", map[string]any{"backend": "postgres"})
		return pg.NewSamplesRepo(db)
	}

	path := opts.DataFile
	if path == "" {
		resolved, err := jsonfile.ResolvePath()
		if err != nil {
			log.Warn("sin ruta de datos, usando memoria", map[string]any{"error": err.Error()})
			return mem.NewSamplesRepo()
		}
		path = resolved
	}

	store, err := jsonfile.New(path)
	if err != nil {
		log.Warn("archivo de datos inaccesible, usando memoria", map[string]any{"error": err.Error()})
		return mem.NewSamplesRepo()
	}

	log.Info("storage backend", map[string]any{"backend": "jsonfile", "path": path})
	return store
}
