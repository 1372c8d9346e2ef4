package config

import "time"

type Config struct {
	Web     Web
	DB      DB
	Cors    Cors
	Session Session
	Login   Login
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User       string `conf:"default:postgres"`
	Password   string `conf:"default:postgres,mask"`
	Host       string `conf:"default:localhost"`
	Name       string `conf:"default:salon"`
	DisableTLS bool   `conf:"default:true"`
}

type Cors struct {
	Origin string
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}

// Login throttles authentication attempts per client address.
type Login struct {
	Burst       int     `conf:"default:5"`
	ExpiryMins  int     `conf:"default:15"`
	AttemptsRPS float64 `conf:"default:0.2"`
}
