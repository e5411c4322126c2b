package infra

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"formgate/submission/domain"
)

const (
	BackendTinyDB  = "tinydb"
	BackendMongoDB = "mongodb"
)

var ErrUnsupportedBackend = errors.New("unsupported DB implementation, use 'tinydb' or 'mongodb'")

type StorageConfig struct {
	Backend string

	FilePath  string
	FileTable string

	MongoURL        string
	MongoDatabase   string
	MongoCollection string
	ConnectTimeout  time.Duration
}

// ParseBackend normaliza o seletor de backend.
func ParseBackend(s string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(s)); b {
	case BackendTinyDB, BackendMongoDB:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBackend, s)
	}
}

// OpenStorage abre o backend escolhido. A escolha vale para a vida do processo.
func OpenStorage(ctx context.Context, cfg StorageConfig) (domain.Storage, error) {
	backend, err := ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendMongoDB:
		return OpenMongoStore(ctx, cfg.MongoURL, cfg.MongoDatabase, cfg.MongoCollection, cfg.ConnectTimeout)
	default:
		return OpenFileStore(cfg.FilePath, cfg.FileTable)
	}
}
