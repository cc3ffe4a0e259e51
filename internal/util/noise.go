package util

import (
	"github.com/aquilax/go-perlin"
)

// NoiseGenerator — детерминированный источник шума Перлина для генерации
// и декорации ландшафта. В отличие от глобального генератора, отдельные
// экземпляры позволяют держать независимые миры с разными сидами.
type NoiseGenerator struct {
	p *perlin.Perlin
}

// NewNoiseGenerator создает генератор шума с указанным сидом
func NewNoiseGenerator(seed int64) *NoiseGenerator {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &NoiseGenerator{p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Noise2D возвращает значение шума для координат, нормированное в [0,1]
func (ng *NoiseGenerator) Noise2D(x, y float64) float64 {
	return (ng.p.Noise2D(x, y) + 1.0) / 2.0
}

// Noise3D возвращает значение трехмерного шума, нормированное в [0,1]
func (ng *NoiseGenerator) Noise3D(x, y, z float64) float64 {
	return (ng.p.Noise3D(x, y, z) + 1.0) / 2.0
}
