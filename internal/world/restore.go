package world

import (
	"github.com/annel0/voxel-world/internal/vec"
)

// NewRestoredChunk создает чанк из сохраненных данных: флаги декорации
// переносятся дословно, а отметки "секция декорирована" восстанавливаются
// из них. Блоки секций заполняет вызывающий (хранилище).
//
// Хранилище не интерпретирует 9-битный набор — оно обязано лишь вернуть
// его таким же, каким сохранило.
func NewRestoredChunk(coords vec.Vec3, flags DecorationLevel, generated bool) *Chunk {
	c := NewChunk(coords)
	if generated {
		c.markGenerated()
	}
	c.decoration.Store(uint32(flags))

	if flags.Has(DecorCenter) {
		for _, local := range innerSections() {
			c.Section(local).decorated = true
		}
	}
	for _, corner := range Corners() {
		if !flags.Has(CornerFlag(corner)) {
			continue
		}
		// Октант секций чанка, прилегающий к вершине угла, без вершинной
		// секции (та принадлежит внутреннему блоку центральной декорации).
		for _, local := range cornerOctantSections(corner) {
			s := c.Section(local)
			if !s.decorated {
				s.decorated = true
			}
		}
	}
	return c
}

// innerSections возвращает локальные координаты внутренних секций 2x2x2
func innerSections() []vec.Vec3 {
	out := make([]vec.Vec3, 0, 8)
	for x := 1; x <= 2; x++ {
		for y := 1; y <= 2; y++ {
			for z := 1; z <= 2; z++ {
				out = append(out, vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// cornerOctantSections возвращает локальные координаты секций чанка,
// покрываемых угловым проходом для угла corner, без вершинной секции
func cornerOctantSections(corner vec.Vec3) []vec.Vec3 {
	axis := func(cv int) [2]int {
		if cv == 1 {
			return [2]int{2, 3}
		}
		return [2]int{0, 1}
	}
	xs, ys, zs := axis(corner.X), axis(corner.Y), axis(corner.Z)

	inner := func(v vec.Vec3) bool {
		return v.X >= 1 && v.X <= 2 && v.Y >= 1 && v.Y <= 2 && v.Z >= 1 && v.Z <= 2
	}

	out := make([]vec.Vec3, 0, 7)
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				v := vec.Vec3{X: x, Y: y, Z: z}
				if inner(v) {
					continue // вершинная секция куба, зона центральной декорации
				}
				out = append(out, v)
			}
		}
	}
	return out
}
