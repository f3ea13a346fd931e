package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plastinin/srtmexport/pkg/eexpr"
)

var (
	ErrInvalidProduct = errors.New("invalid export choice, valid export options are 'elevation', 'slope', 'aspect', 'hillshade'")
)

// Product вид производного растра
type Product string

const (
	ProductElevation Product = "elevation"
	ProductSlope     Product = "slope"
	ProductAspect    Product = "aspect"
	ProductHillshade Product = "hillshade"
)

// Параметры освещения отмывки фиксированы
const (
	HillshadeAzimuth   = 315.0
	HillshadeElevation = 45.0
)

// productKind описывает вывод продукта из DEM
type productKind struct {
	derive func(elevation eexpr.Image, aoi eexpr.Geometry) eexpr.Image
	// Высота 0 допустима, поэтому для высот отдельное значение nodata
	elevationNoData bool
}

var products = map[Product]productKind{
	ProductElevation: {
		derive: func(elevation eexpr.Image, _ eexpr.Geometry) eexpr.Image {
			return elevation
		},
		elevationNoData: true,
	},
	ProductSlope: {
		derive: func(elevation eexpr.Image, aoi eexpr.Geometry) eexpr.Image {
			return eexpr.Slope(elevation).Clip(aoi)
		},
	},
	ProductAspect: {
		derive: func(elevation eexpr.Image, aoi eexpr.Geometry) eexpr.Image {
			return eexpr.Aspect(elevation).Clip(aoi)
		},
	},
	ProductHillshade: {
		derive: func(elevation eexpr.Image, aoi eexpr.Geometry) eexpr.Image {
			return eexpr.Hillshade(elevation, HillshadeAzimuth, HillshadeElevation).Clip(aoi)
		},
	},
}

// AllProducts возвращает все продукты в фиксированном порядке
func AllProducts() []Product {
	return []Product{ProductElevation, ProductSlope, ProductAspect, ProductHillshade}
}

// ParseProduct разбирает и проверяет продукт
func ParseProduct(s string) (Product, error) {
	p := Product(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate проверяет, что продукт поддерживается
func (p Product) Validate() error {
	if _, ok := products[p]; !ok {
		return fmt.Errorf("%w: got %q", ErrInvalidProduct, string(p))
	}
	return nil
}

// Derive строит продукт из набора SRTM, обрезанного по области интереса
func (p Product) Derive(srtm eexpr.Image, aoi eexpr.Geometry) (eexpr.Image, error) {
	kind, ok := products[p]
	if !ok {
		return eexpr.Image{}, fmt.Errorf("%w: got %q", ErrInvalidProduct, string(p))
	}
	elevation := srtm.Select(ElevationBand).Clip(aoi)
	return kind.derive(elevation, aoi), nil
}

// NoData выбирает значение nodata для продукта
func (p Product) NoData(general, elevation float64) float64 {
	if products[p].elevationNoData {
		return elevation
	}
	return general
}

func (p Product) String() string {
	return string(p)
}
