package eexpr

// Image ссылка на изображение в графе вычислений.
// Методы не обращаются к сервису, а только наращивают граф.
type Image struct {
	node *Node
}

// Geometry ссылка на геометрию в графе вычислений
type Geometry struct {
	node *Node
}

// LoadImage загружает изображение из каталога по идентификатору
func LoadImage(id string) Image {
	return Image{node: Invoke("Image.load", map[string]*Node{
		"id": Constant(id),
	})}
}

// Polygon создаёт полигон из колец координат [lon, lat]
func Polygon(rings [][][2]float64) Geometry {
	return Geometry{node: Invoke("GeometryConstructors.Polygon", map[string]*Node{
		"coordinates": Constant(rings),
	})}
}

// Node возвращает вершину изображения
func (i Image) Node() *Node {
	return i.node
}

// Node возвращает вершину геометрии
func (g Geometry) Node() *Node {
	return g.node
}

// Expression собирает выражение с изображением в качестве результата
func (i Image) Expression() Expression {
	return NewExpression(i.node)
}

// Select выбирает каналы изображения
func (i Image) Select(bands ...string) Image {
	selectors := make([]*Node, len(bands))
	for idx, band := range bands {
		selectors[idx] = Constant(band)
	}
	return Image{node: Invoke("Image.select", map[string]*Node{
		"input":         i.node,
		"bandSelectors": {Array: selectors},
	})}
}

// Clip обрезает изображение по геометрии
func (i Image) Clip(g Geometry) Image {
	return Image{node: Invoke("Image.clip", map[string]*Node{
		"input":    i.node,
		"geometry": g.node,
	})}
}

// Unmask заполняет замаскированные пиксели значением
func (i Image) Unmask(value float64) Image {
	return Image{node: Invoke("Image.unmask", map[string]*Node{
		"input": i.node,
		"value": Constant(value),
	})}
}

// ClipToBoundsAndScale обрезает по границам геометрии и задаёт масштаб в метрах
func (i Image) ClipToBoundsAndScale(g Geometry, scale float64) Image {
	return Image{node: Invoke("Image.clipToBoundsAndScale", map[string]*Node{
		"input":    i.node,
		"geometry": g.node,
		"scale":    Constant(scale),
	})}
}

// Slope уклон поверхности в градусах
func Slope(dem Image) Image {
	return Image{node: Invoke("Terrain.slope", map[string]*Node{
		"input": dem.node,
	})}
}

// Aspect экспозиция склона в градусах
func Aspect(dem Image) Image {
	return Image{node: Invoke("Terrain.aspect", map[string]*Node{
		"input": dem.node,
	})}
}

// Hillshade отмывка рельефа при заданном положении источника света
func Hillshade(dem Image, azimuth, elevation float64) Image {
	return Image{node: Invoke("Terrain.hillshade", map[string]*Node{
		"input":     dem.node,
		"azimuth":   Constant(azimuth),
		"elevation": Constant(elevation),
	})}
}
