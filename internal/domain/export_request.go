package domain

import (
	"fmt"
)

// Значения по умолчанию для запроса экспорта
const (
	DefaultCRS             = "EPSG:4326"
	DefaultNoData          = 0
	DefaultElevationNoData = 32767
)

// ExportRequest параметры экспорта производного растра
type ExportRequest struct {
	AOI             AOI        `json:"aoi"`
	Resolution      Resolution `json:"resolution"`
	Product         Product    `json:"product"`
	CRS             string     `json:"crs"`
	NoData          float64    `json:"no_data"`
	ElevationNoData float64    `json:"elevation_no_data"`
}

// NewExportRequest создаёт запрос с параметрами по умолчанию
func NewExportRequest(aoi AOI) ExportRequest {
	return ExportRequest{
		AOI:             aoi,
		Resolution:      Resolution30,
		Product:         ProductElevation,
		CRS:             DefaultCRS,
		NoData:          DefaultNoData,
		ElevationNoData: DefaultElevationNoData,
	}
}

// Validate проверяет разрешение и продукт
func (r ExportRequest) Validate() error {
	if err := r.Resolution.Validate(); err != nil {
		return err
	}
	if err := r.Product.Validate(); err != nil {
		return err
	}
	return nil
}

// Name детерминированное имя выходного файла: {product}_{resolution}
func (r ExportRequest) Name() string {
	return fmt.Sprintf("%s_%d", r.Product, int(r.Resolution))
}

// Description описание задачи экспорта
func (r ExportRequest) Description() string {
	return "export_" + r.Name()
}

// NoDataValue значение для заполнения пустых пикселей
func (r ExportRequest) NoDataValue() float64 {
	return r.Product.NoData(r.NoData, r.ElevationNoData)
}
