package router

import (
	"database/sql"
	"net/http"
	"time"

	_ "huellitas/docs"
	"huellitas/internal/adapters/auth/chain"
	jwtauth "huellitas/internal/adapters/auth/jwt"
	"huellitas/internal/adapters/auth/password"
	"huellitas/internal/adapters/objectstore/bucket"
	"huellitas/internal/adapters/ratelimit"
	mem "huellitas/internal/adapters/storage/memory"
	mdb "huellitas/internal/adapters/storage/mongodb"
	pg "huellitas/internal/adapters/storage/postgres"
	"huellitas/internal/domain/accounts"
	"huellitas/internal/domain/carerecords"
	"huellitas/internal/domain/images"
	"huellitas/internal/domain/memorials"
	"huellitas/internal/domain/pets"
	"huellitas/internal/domain/profiles"
	"huellitas/internal/middleware"
	"huellitas/internal/platform/logger"
	"huellitas/internal/ports/auth"
	"huellitas/internal/ports/storage"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"gocloud.dev/blob/memblob"
)

const (
	devAuthSecret         = "dev-secret-key"
	defaultMaxUploadBytes = 5 << 20
	defaultLoginAttempts  = 5
	defaultLoginWindow    = 15 * time.Minute
)

// Options arma el grafo de dependencias. Todo backend es opcional: si falta, se usa el adapter in-memory.
type Options struct {
	Logger logger.Logger

	// AuthSecret firma los tokens propios. Vacío => secreto de dev.
	AuthSecret string
	TokenTTL   time.Duration
	// ExternalVerifier (p.ej. Firebase) se prueba después de los tokens propios.
	ExternalVerifier auth.AuthVerifier
	BcryptCost       int

	DB    *sql.DB         // accounts, profiles, pets, care records
	Mongo *mongo.Database // memorials
	Redis *redis.Client   // intentos de login

	LoginMaxAttempts int
	LoginWindow      time.Duration

	// Objects guarda imágenes de mascotas; nil => bucket en memoria servido en /files.
	Objects *bucket.Store
	// ImageHost atiende POST /images; nil => Objects.
	ImageHost storage.ObjectStore

	DevMode        bool
	CORSOrigins    []string
	MaxUploadBytes int64
}

func NewRouter(opts Options) http.Handler {
	opts = withDefaults(opts)
	log := opts.Logger

	tokens, err := jwtauth.NewManager(opts.AuthSecret, opts.TokenTTL)
	if err != nil {
		// withDefaults garantiza secreto no vacío
		panic(err)
	}
	verifier := chain.New(tokens, opts.ExternalVerifier)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Debug-User-ID", "X-Debug-User-Name"},
		AllowCredentials: true,
	}).Handler)

	r.Use(middleware.AuthContext(verifier, opts.DevMode))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		accountRepo  accounts.Repository
		profileRepo  profiles.Repository
		petRepo      pets.Repository
		recordRepo   carerecords.Repository
		memorialRepo memorials.Repository
		limiter      accounts.AttemptLimiter
	)

	if opts.DB != nil {
		accountRepo = pg.NewAccountsRepo(opts.DB)
		profileRepo = pg.NewProfilesRepo(opts.DB)
		petRepo = pg.NewPetsRepo(opts.DB)
		recordRepo = pg.NewCareRecordsRepo(opts.DB)
	} else {
		accountRepo = mem.NewAccountRepo()
		profileRepo = mem.NewProfileRepo()
		petRepo = mem.NewPetRepo()
		recordRepo = mem.NewCareRecordRepo()
	}

	if opts.Mongo != nil {
		memorialRepo = mdb.NewMemorialsRepo(opts.Mongo)
	} else {
		memorialRepo = mem.NewMemorialRepo()
	}

	if opts.Redis != nil {
		limiter = ratelimit.NewRedis(opts.Redis, opts.LoginMaxAttempts, opts.LoginWindow)
	} else {
		limiter = ratelimit.NewMemory(opts.LoginMaxAttempts, opts.LoginWindow)
	}

	log.Info("router wired", map[string]any{
		"postgres":   opts.DB != nil,
		"mongo":      opts.Mongo != nil,
		"redis":      opts.Redis != nil,
		"dev_mode":   opts.DevMode,
		"image_host": opts.ImageHost != storage.ObjectStore(opts.Objects),
	})

	// Services por módulo
	profilesSvc := profiles.NewService(profileRepo)
	accountsSvc := accounts.NewService(accounts.Deps{
		Repo:     accountRepo,
		Hasher:   password.NewHasher(opts.BcryptCost),
		Tokens:   tokens,
		Limiter:  limiter,
		Profiles: profilesSvc,
	})
	profilesSvc.SetIdentity(accountsSvc)

	petsSvc := pets.NewService(petRepo, opts.Objects)
	recordsSvc := carerecords.NewService(recordRepo)
	memorialsSvc := memorials.NewService(memorialRepo)
	imagesSvc := images.NewService(opts.ImageHost)

	// Rutas por módulo
	accounts.RegisterRoutes(r, accountsSvc)
	profiles.RegisterRoutes(r, profilesSvc)
	pets.RegisterRoutes(r, petsSvc, opts.MaxUploadBytes)
	carerecords.RegisterRoutes(r, recordsSvc, petsSvc)
	memorials.RegisterRoutes(r, memorialsSvc, petsSvc, profilesSvc)
	images.RegisterRoutes(r, imagesSvc, opts.MaxUploadBytes)
	r.Get(bucket.DefaultPublicPath+"/*", bucket.FileServer(opts.Objects))

	return r
}

func withDefaults(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.AuthSecret == "" {
		opts.AuthSecret = devAuthSecret
	}
	if opts.LoginMaxAttempts <= 0 {
		opts.LoginMaxAttempts = defaultLoginAttempts
	}
	if opts.LoginWindow <= 0 {
		opts.LoginWindow = defaultLoginWindow
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.Objects == nil {
		opts.Objects = bucket.New(memblob.OpenBucket(nil), "")
	}
	if opts.ImageHost == nil {
		opts.ImageHost = opts.Objects
	}
	return opts
}
