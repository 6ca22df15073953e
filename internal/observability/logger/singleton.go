package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu       sync.RWMutex
	instance *zap.Logger
	level    = zap.NewAtomicLevel()
)

// Init inicializa el logger singleton con la configuración dada.
// Llamadas posteriores reemplazan la instancia (útil para el CLI, que
// reconfigura después de leer el archivo de config).
func Init(cfg Config) {
	level.SetLevel(parseLevel(cfg.Level))
	l := build(cfg, level)

	mu.Lock()
	instance = l
	mu.Unlock()
}

// Replace instala un logger arbitrario (ej: zap.NewNop() o zaptest en tests).
func Replace(l *zap.Logger) {
	mu.Lock()
	instance = l
	mu.Unlock()
}

// SetLevel cambia el nivel mínimo sin reconstruir el logger.
func SetLevel(lvl string) {
	level.SetLevel(parseLevel(lvl))
}

// L retorna el logger singleton.
// Si Init() no fue llamado, crea un logger por defecto (dev, info).
func L() *zap.Logger {
	mu.RLock()
	l := instance
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(Config{Env: "dev", Level: "info"})
	return L()
}

// Named retorna un logger con un nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync flushea cualquier buffer pendiente.
// Debe llamarse con defer en main.go.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
