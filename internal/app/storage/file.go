package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ilya-burinskiy/clipgate/internal/app/models"
)

// File storage. Holds records as JSON lines written by an external process
type FileStorage struct {
	filePath string
}

// New file storage
func NewFileStorage(filePath string) *FileStorage {
	return &FileStorage{filePath: filePath}
}

// Get records from file. Malformed lines and records without ID are skipped,
// a missing file is an empty snapshot
func (fs *FileStorage) Snapshot() ([]models.Record, error) {
	file, err := os.Open(fs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not load data from file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	result := make([]models.Record, 0)
	for scanner.Scan() {
		var r models.Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		if r.ID == "" {
			continue
		}
		result = append(result, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read records: %w", err)
	}

	return result, nil
}

// Load file snapshot into ms
func (fs *FileStorage) Load(ms *MapStorage) error {
	records, err := fs.Snapshot()
	if err != nil {
		return err
	}
	ms.Restore(records)

	return nil
}
