package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type HistoryManager struct {
	db          *gorm.DB
	versionPath string
}

// HistoryEntry is one launched command. ExitCode stays NULL when the
// image could not be started; a signaled child records 128+signal.
type HistoryEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Command   string
	Directory string
	ExitCode  sql.NullInt32
}

const (
	historySchemaVersion = 1
)

func NewHistoryManager(dbFilePath string) (*HistoryManager, error) {
	dbFileExists := true
	if _, err := os.Stat(dbFilePath); errors.Is(err, os.ErrNotExist) {
		dbFileExists = false
	} else if err != nil {
		return nil, fmt.Errorf("error checking history db: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening history db: %w", err)
	}

	historyManager := &HistoryManager{
		db:          db,
		versionPath: filepath.Join(filepath.Dir(dbFilePath), "history_schema_version"),
	}

	if historyManager.needsMigration(dbFileExists) {
		if err := db.AutoMigrate(&HistoryEntry{}); err != nil {
			return nil, fmt.Errorf("error auto-migrating history schema: %w", err)
		}
		if err := historyManager.writeSchemaVersion(historySchemaVersion); err != nil {
			return nil, fmt.Errorf("error writing history schema version: %w", err)
		}
	}

	return historyManager, nil
}

func (historyManager *HistoryManager) needsMigration(dbFileExists bool) bool {
	if !dbFileExists {
		return true
	}

	versionMatches, err := historyManager.schemaVersionMatches()
	if err != nil || !versionMatches {
		return true
	}

	// If the version marker is present but the table is missing (corruption or manual deletion),
	// re-run migrations to restore the schema.
	return !historyManager.db.Migrator().HasTable(&HistoryEntry{})
}

func (historyManager *HistoryManager) writeSchemaVersion(version int) error {
	return os.WriteFile(historyManager.versionPath, []byte(strconv.Itoa(version)), 0644)
}

func (historyManager *HistoryManager) schemaVersionMatches() (bool, error) {
	data, err := os.ReadFile(historyManager.versionPath)
	if err != nil {
		return false, err
	}
	trimmed := strings.TrimSpace(string(data))
	version, err := strconv.Atoi(trimmed)
	if err != nil {
		return false, err
	}
	if version != historySchemaVersion {
		return false, fmt.Errorf("history schema version mismatch: got %d, want %d", version, historySchemaVersion)
	}
	return true, nil
}

func (historyManager *HistoryManager) StartCommand(command string, directory string) (*HistoryEntry, error) {
	entry := HistoryEntry{
		Command:   command,
		Directory: directory,
	}

	result := historyManager.db.Create(&entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return &entry, nil
}

func (historyManager *HistoryManager) FinishCommand(entry *HistoryEntry, exitCode int) (*HistoryEntry, error) {
	entry.ExitCode = sql.NullInt32{Int32: int32(exitCode), Valid: true}

	result := historyManager.db.Save(entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return entry, nil
}

// GetRecentEntries returns up to limit entries, oldest first. An empty
// directory matches every directory.
func (historyManager *HistoryManager) GetRecentEntries(directory string, limit int) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	var db = historyManager.db
	if directory != "" {
		db = db.Where("directory = ?", directory)
	}
	result := db.Order("created_at desc").Order("id desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	slices.Reverse(entries)
	return entries, nil
}

func (historyManager *HistoryManager) ResetHistory() error {
	result := historyManager.db.Exec("DELETE FROM history_entries")
	if result.Error != nil {
		return result.Error
	}

	return nil
}

func (historyManager *HistoryManager) Close() error {
	sqlDB, err := historyManager.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
