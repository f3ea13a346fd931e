package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidResolution = errors.New("SRTM resolution is only available in 30m or 90m resolution, please use resolution=30 or resolution=90")
)

// Resolution пространственное разрешение в метрах
type Resolution int

const (
	Resolution30 Resolution = 30
	Resolution90 Resolution = 90
)

// Каталожные идентификаторы SRTM для каждого разрешения
var datasets = map[Resolution]string{
	Resolution30: "USGS/SRTMGL1_003",
	Resolution90: "CGIAR/SRTM90_V4",
}

// ElevationBand канал высот в наборах SRTM
const ElevationBand = "elevation"

// Validate проверяет, что разрешение поддерживается
func (r Resolution) Validate() error {
	if _, ok := datasets[r]; !ok {
		return fmt.Errorf("%w: got %d", ErrInvalidResolution, int(r))
	}
	return nil
}

// Dataset возвращает идентификатор набора данных для разрешения
func (r Resolution) Dataset() (string, error) {
	id, ok := datasets[r]
	if !ok {
		return "", fmt.Errorf("%w: got %d", ErrInvalidResolution, int(r))
	}
	return id, nil
}

// Meters возвращает разрешение как масштаб экспорта
func (r Resolution) Meters() float64 {
	return float64(r)
}
