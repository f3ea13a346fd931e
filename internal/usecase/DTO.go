package usecase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/plastinin/srtmexport/internal/domain"
	"github.com/plastinin/srtmexport/pkg/eexpr"
)

// Форматы и ограничения экспорта
const (
	FileFormatGeoTIFF = "GEO_TIFF"
	DefaultMaxPixels  = 1e13
)

// Виды места назначения
const (
	DestinationDrive = "drive"
	DestinationGCS   = "gcs"
)

// Destination место назначения файла экспорта
type Destination struct {
	// drive или gcs
	Kind   string
	Folder string
	Bucket string
}

// ErrInvalidDestination неизвестное место назначения экспорта
var ErrInvalidDestination = errors.New("invalid export destination")

// Validate проверяет вид места назначения и наличие бакета для gcs
func (d Destination) Validate() error {
	switch d.Kind {
	case DestinationDrive, "":
		return nil
	case DestinationGCS:
		if d.Bucket == "" {
			return fmt.Errorf("%w: cloud storage destination requires a bucket", ErrInvalidDestination)
		}
		return nil
	}
	return fmt.Errorf("%w: %q, expected %q or %q", ErrInvalidDestination, d.Kind, DestinationDrive, DestinationGCS)
}

// ImageExport запрос на экспорт изображения в хранилище
type ImageExport struct {
	RequestID   uuid.UUID
	Image       eexpr.Image
	Description string
	FilePrefix  string
	FileFormat  string
	CRS         string
	MaxPixels   float64
	Destination Destination
}

// ExportResult итог экспорта
type ExportResult struct {
	TaskIDs   []string          `json:"task_ids"`
	Finished  bool              `json:"finished"`
	Artifacts []domain.Artifact `json:"artifacts,omitempty"`
}

// SubmitExportInput входные данные для постановки экспорта в очередь
type SubmitExportInput struct {
	AOI             domain.AOI
	Resolution      int
	Product         string
	CRS             string
	NoData          *float64
	ElevationNoData *float64
}
