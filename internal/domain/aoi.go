package domain

// AOI область интереса: кольца полигона из пар [lon, lat].
// Геометрия локально не проверяется и передаётся сервису как есть.
type AOI struct {
	Coordinates [][][2]float64 `json:"coordinates"`
}

// NewPolygonAOI создаёт область интереса из колец полигона
func NewPolygonAOI(rings ...[][2]float64) AOI {
	return AOI{Coordinates: rings}
}

// Artifact экспортированный объект в облачном хранилище
type Artifact struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url,omitempty"`
}
