package server

import (
	"github.com/lestrrat-go/jwx/v2/jwk"

	"serium/internal/cache"
	"serium/internal/client"
	"serium/internal/database"
	"serium/internal/history"
)

type Server struct {
	DB            database.Database
	Cache         cache.Cache
	Client        client.Client
	History       history.Log
	Logger        logger
	AuthSecretKey jwk.Key
}

type logger interface {
	Trace(v ...any)
	Debug(v ...any)
	Info(v ...any)
	Warn(v ...any)
	Error(v ...any)
	Tracef(format string, v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}
