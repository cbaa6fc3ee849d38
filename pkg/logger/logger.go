package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger.
type Config struct {
	Env     string // development: consola legible; cualquier otro valor: JSON
	Level   string // trace, debug, info, warn, error (sin distinguir mayúsculas)
	Service string // se agrega como campo "service" si no está vacío
}

// Logger envuelve un zerolog.Logger para inyectarlo en casos de uso y adaptadores.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger de la aplicación sobre stdout y redirige el logger global de zerolog
// (lo usa la capa HTTP para los errores internos).
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	l := NewWithWriter(cfg, w)
	log.Logger = l.zl
	return l
}

// NewWithWriter crea un logger JSON sobre w sin tocar el global.
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	return &Logger{zl: ctx.Logger()}
}

// Nop descarta todo.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// parseLevel: vacío o desconocido cae en info.
func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Named sublogger con el campo "component" (sale, delivery, request...).
func (l *Logger) Named(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// Zerolog expone el logger interno.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
