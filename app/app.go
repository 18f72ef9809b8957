package app

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/elibrary/backend/db"
	"github.com/elibrary/backend/logger"
	"github.com/elibrary/backend/payment"
	"github.com/elibrary/backend/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Aliases so handlers stay short.
type Ctx = gin.Context
type H = gin.H

// App aggregates the service dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Log    *zap.Logger
	Snap   *payment.SnapClient
	Config Config

	otp    *session.OTPStore
	mailer session.Mailer
}

// Config is read from environment variables.
type Config struct {
	Env       string
	Port      string
	WebOrigin string

	RedisAddr string
	RedisPwd  string

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
	OTPTTL    time.Duration

	LoanPeriod time.Duration // how long a borrow may stay open
	FinePerDay int64         // fine amount per overdue day

	UploadsDir string

	SnapServerKey string
	SnapClientKey string
	SnapSandbox   bool

	LogLevel  string
	LogFormat string
}

func (a *App) OTP() *session.OTPStore { return a.otp }
func (a *App) Mailer() session.Mailer { return a.mailer }

func MustNew() *App {
	cfg := loadConfig()

	zl := logger.New(cfg.LogLevel, cfg.LogFormat)

	dbConn := db.ConnectDB()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	snap, err := payment.NewSnapClient(&payment.SnapConfig{
		ServerKey: cfg.SnapServerKey,
		ClientKey: cfg.SnapClientKey,
		IsSandbox: cfg.SnapSandbox,
	})
	if err != nil {
		log.Fatalf("snap: %v", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.GinMiddleware(zl), logger.Recovery(zl))
	useCORS(r, cfg.WebOrigin)

	a := &App{
		Router: r, DB: dbConn, RDB: rdb, Log: zl, Snap: snap, Config: cfg,
		otp:    session.NewOTPStore(rdb, cfg.OTPTTL),
		mailer: &session.LogMailer{Log: zl},
	}
	return a
}

func (a *App) Close() {
	_ = a.RDB.Close()
	_ = a.Log.Sync()
}

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	getInt := func(k string, def int) int {
		if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
			return n
		}
		return def
	}

	loanDays := getInt("LOAN_PERIOD_DAYS", 7)
	otpMinutes := getInt("OTP_TTL_MINUTES", 5)
	tokenHours := getInt("TOKEN_TTL_HOURS", 24)

	return Config{
		Env:       get("APP_ENV", "development"),
		Port:      get("PORT", "3001"),
		WebOrigin: get("WEB_ORIGIN", "http://localhost:3000"),

		RedisAddr: get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),

		JWTSecret: get("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer: get("JWT_ISSUER", "elibrary"),
		TokenTTL:  time.Duration(tokenHours) * time.Hour,
		OTPTTL:    time.Duration(otpMinutes) * time.Minute,

		LoanPeriod: time.Duration(loanDays) * 24 * time.Hour,
		FinePerDay: int64(getInt("FINE_PER_DAY", 5000)),

		UploadsDir: get("UPLOADS_DIR", "./uploads"),

		SnapServerKey: get("MIDTRANS_SERVER_KEY", "SB-Mid-server-dev"),
		SnapClientKey: get("MIDTRANS_CLIENT_KEY", "SB-Mid-client-dev"),
		SnapSandbox:   !strings.EqualFold(get("MIDTRANS_ENV", "sandbox"), "production"),

		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "console"),
	}
}
