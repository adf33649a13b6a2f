// Package backend selects and constructs a persistence store from
// configuration.
package backend

import (
	"gamebank/internal/config"
)

// StoreType represents the configured persistence backend.
type StoreType string

const (
	MemoryStore StoreType = "memory"
	FileStore   StoreType = "file"
	SQLiteStore StoreType = "sqlite"
	RedisStore  StoreType = "redis"
)

// String implements fmt.Stringer
func (st StoreType) String() string {
	return string(st)
}

// IsValid returns true if the store type is valid
func (st StoreType) IsValid() bool {
	switch st {
	case MemoryStore, FileStore, SQLiteStore, RedisStore:
		return true
	default:
		return false
	}
}

// StoreTypes returns all valid store types.
func StoreTypes() []StoreType {
	return []StoreType{MemoryStore, FileStore, SQLiteStore, RedisStore}
}

// Config holds what the factory needs to build a store.
type Config struct {
	Type StoreType

	// File backend
	FilePath string

	// SQLite backend
	SQLiteDBPath string

	// Redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// FromAppConfig converts the application config to a backend config.
func FromAppConfig(appConfig *config.Config) Config {
	return Config{
		Type:          StoreType(appConfig.StoreBackend),
		FilePath:      appConfig.StoreFilePath,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	}
}
