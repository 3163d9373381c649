// Package archive writes dispatched plans, prescription maps and mission
// audit records to disk.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/agromw/missiond/infra/logger"
)

// Config holds the archive location.
type Config struct {
	Dir       string `json:"dir"`
	ExportCSV bool   `json:"export_csv"`
}

// SetDefaults fills unset fields with working defaults.
func (c *Config) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "archive"
	}
}

// Validate checks the config for consistency.
func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("archive config: dir is required")
	}
	return nil
}

// FileArchiver stores every dispatched document as its own file. File names
// carry the timestamp, request, mission and vehicle so operators can grep
// the archive without opening files.
type FileArchiver struct {
	dir string
	log logger.Logger
}

// NewFileArchiver creates the archive directory if needed.
func NewFileArchiver(cfg Config) (*FileArchiver, error) {
	cfg.SetDefaults()
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	return &FileArchiver{dir: cfg.Dir, log: logger.New("archive")}, nil
}

// ArchivePlan stores one serialized vehicle plan.
func (a *FileArchiver) ArchivePlan(requestID, missionID, vehicleID int, payload []byte) error {
	return a.write("plan", requestID, missionID, vehicleID, "json", payload)
}

// ArchiveMap stores one serialized prescription map.
func (a *FileArchiver) ArchiveMap(requestID, missionID, vehicleID int, payload []byte) error {
	return a.write("pmap", requestID, missionID, vehicleID, "json", payload)
}

func (a *FileArchiver) write(prefix string, requestID, missionID, vehicleID int, ext string, payload []byte) error {
	name := fmt.Sprintf("%s-%s-req%d-m%d-v%d-%s.%s",
		prefix, time.Now().Format("20060102T150405"),
		requestID, missionID, vehicleID, uuid.NewString()[:8], ext)
	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	a.log.Debugf("archived %s", path)
	return nil
}
