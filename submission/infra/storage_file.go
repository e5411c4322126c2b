package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"formgate/submission/domain"
)

// FileStore grava registros num arquivo JSON compatível com o TinyDB:
//
//	{"mytable": {"1": {...}, "2": {...}}}
//
// Cada Insert reescreve o arquivo inteiro (temp + rename). O mutex serializa
// as gravações deste processo; dois processos no mesmo arquivo não são
// suportados.
type FileStore struct {
	mu    sync.Mutex
	path  string
	table string
}

// Row é um documento lido de volta com o id atribuído na gravação.
type Row struct {
	ID     int
	Record domain.Record
}

// tabela -> id -> documento; RawMessage preserva tabelas de terceiros intactas
type fileDB map[string]map[string]json.RawMessage

// OpenFileStore cria o arquivo (e o diretório) se preciso, para que um
// caminho sem permissão falhe já na inicialização.
func OpenFileStore(path, table string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store: path is required")
	}
	if table == "" {
		return nil, errors.New("file store: table is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}

	s := &FileStore{path: path, table: table}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Path() string  { return s.path }
func (s *FileStore) Table() string { return s.table }

func (s *FileStore) Insert(_ context.Context, rec domain.Record) (string, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("file store: encode record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return "", err
	}
	tbl := db[s.table]
	if tbl == nil {
		tbl = make(map[string]json.RawMessage)
		db[s.table] = tbl
	}

	id := strconv.Itoa(nextID(tbl))
	tbl[id] = doc

	if err := s.write(db); err != nil {
		return "", err
	}
	return id, nil
}

// All lê a tabela em ordem de id.
func (s *FileStore) All() ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(db[s.table]))
	for k, raw := range db[s.table] {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		var rec domain.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("file store: decode document %s: %w", k, err)
		}
		rows = append(rows, Row{ID: id, Record: rec})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (s *FileStore) Close(context.Context) error { return nil }

func (s *FileStore) load() (fileDB, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	db := fileDB{}
	if len(bytes.TrimSpace(b)) == 0 {
		return db, nil
	}
	if err := json.Unmarshal(b, &db); err != nil {
		return nil, fmt.Errorf("file store: corrupt database %s: %w", s.path, err)
	}
	return db, nil
}

func (s *FileStore) write(db fileDB) error {
	b, err := json.Marshal(db)
	if err != nil {
		return fmt.Errorf("file store: encode database: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	return nil
}

// nextID segue o TinyDB: maior id numérico da tabela + 1.
func nextID(tbl map[string]json.RawMessage) int {
	highest := 0
	for k := range tbl {
		if id, err := strconv.Atoi(k); err == nil && id > highest {
			highest = id
		}
	}
	return highest + 1
}
