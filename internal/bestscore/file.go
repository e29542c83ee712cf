package bestscore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileStore keeps best scores as a JSON object of key to score.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) read() (map[string]int, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]int{}, nil
		}
		return nil, fmt.Errorf("failed to read best score file: %w", err)
	}

	scores := map[string]int{}
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal best scores: %w", err)
	}
	return scores, nil
}

func (fs *FileStore) LoadBest(_ context.Context, key string) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	scores, err := fs.read()
	if err != nil {
		return 0, err
	}
	score, ok := scores[key]
	if !ok {
		return 0, ErrNotFound
	}
	return score, nil
}

func (fs *FileStore) SaveBest(_ context.Context, key string, score int) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	scores, err := fs.read()
	if err != nil {
		// Start over rather than refuse to record a new best.
		scores = map[string]int{}
	}
	scores[key] = score

	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal best scores: %w", err)
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to save best scores: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("failed to save best scores: %w", err)
	}
	return nil
}
