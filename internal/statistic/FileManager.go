package statistic

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"hobbyd/internal/models"
	"hobbyd/internal/providers"
	"hobbyd/internal/repositories"
	"hobbyd/internal/statistic/interfaces"
)

// FileManager writes the in-memory store to a compressed JSON snapshot and
// reads it back on startup. Stores that persist on their own have no
// snapshot side and make both operations no-ops.
type FileManager struct {
	store      repositories.Snapshotter
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	// loadErr keeps a snapshot that failed to load from being overwritten
	loadErr error
}

var ErrSnapshotLocked = errors.New("snapshot could not be loaded, refusing to overwrite it")

func NewFileManager(compressor interfaces.CompressorInterface, repo repositories.Repository, logger providers.Logger) *FileManager {
	return &FileManager{
		store:      repositories.SnapshotterOf(repo),
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) Enabled() bool {
	return f.store != nil
}

func (f *FileManager) SaveToFile(fileName string) error {
	if f.store == nil {
		return nil
	}
	if f.loadErr != nil {
		return fmt.Errorf("%w: %s", ErrSnapshotLocked, f.loadErr)
	}
	storage := f.store.Snapshot()

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the store from fileName. A missing file is a fresh
// start, not an error. Any other failure locks the file against SaveToFile.
func (f *FileManager) LoadFromFile(fileName string) error {
	if f.store == nil {
		return nil
	}
	err := f.load(fileName)
	f.loadErr = err
	return err
}

func (f *FileManager) load(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Infof(providers.TypeStore, "No snapshot at %s, starting empty", fileName)
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressedData, &storage); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if storage.Version == 0 {
		f.logger.Warnf(providers.TypeStore, "Snapshot %s has no version, assuming %d", fileName, models.StorageVersion)
		storage.Version = models.StorageVersion
	}

	if err := f.store.Restore(&storage); err != nil {
		return err
	}
	f.logger.Infof(providers.TypeStore, "Restored %d users, %d hobbies, %d sessions from %s",
		len(storage.Users), len(storage.Hobbies), len(storage.Sessions), fileName)
	return nil
}
