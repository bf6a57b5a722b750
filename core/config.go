package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf holds the app-wide configuration. It is loaded once at startup from
// defaults, an optional config/.env.<env> file and environment variables.
var Conf *Config

type Config struct {
	Debug     bool
	TestMode  bool
	Env       string
	AppName   string
	Build     string
	SecretKey string

	API struct {
		BaseURL string
		Timeout time.Duration
	}

	SessionFile  string
	RollbarToken string

	Server struct {
		Addr                      string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}
}

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Ukaguzi")
	v.SetDefault("secretKey", "w3l7-kqx)dashi$+91=rb&ukag4(h!x)#*a7(#yg2h^$shule9pmy")
	v.SetDefault("apiBaseURL", "http://localhost:8000")
	v.SetDefault("apiTimeout", 30*time.Second)
	v.SetDefault("sessionFile", filepath.Join(Getwd(), ".ukaguzi-session.json"))
	v.SetDefault("rollbarToken", "")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("jwtExpirationDelta", 10*time.Minute)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Env:          env,
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		SecretKey:    v.GetString("secretKey"),
		SessionFile:  v.GetString("sessionFile"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	Conf.API.BaseURL = v.GetString("apiBaseURL")
	Conf.API.Timeout = v.GetDuration("apiTimeout")
	Conf.Server.Addr = v.GetString("serverAddr")
	Conf.Server.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")
	Conf.Server.JWTRefreshExpirationDelta = v.GetDuration("jwtRefreshExpirationDelta")
}
