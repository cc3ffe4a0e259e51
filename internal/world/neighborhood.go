package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
)

// Neighborhood — куб значений фиксированного размера, адресуемый знаковыми
// смещениями относительно центра (смещение (0,0,0) — центральный элемент).
// Чистая структура передачи данных: владение содержимым не подразумевается.
// Размер проверяется один раз при создании, доступ по смещению не выделяет
// память.
type Neighborhood[T any] struct {
	lo, hi int // Диапазон смещений по каждой оси, включительно
	width  int
	items  []T
}

// NewNeighborhood создает окрестность со смещениями от lo до hi
// включительно по каждой оси. Для окрестности 3x3x3 — NewNeighborhood(-1, 1),
// для окна углового декорирования 4x4x4 — NewNeighborhood(-2, 1).
func NewNeighborhood[T any](lo, hi int) *Neighborhood[T] {
	if lo > 0 || hi < 0 {
		panic(fmt.Sprintf("окрестность [%d..%d] не содержит центра", lo, hi))
	}
	width := hi - lo + 1
	return &Neighborhood[T]{
		lo:    lo,
		hi:    hi,
		width: width,
		items: make([]T, width*width*width),
	}
}

// index переводит смещение в плоский индекс с проверкой границ
func (n *Neighborhood[T]) index(d vec.Vec3) int {
	if d.X < n.lo || d.X > n.hi || d.Y < n.lo || d.Y > n.hi || d.Z < n.lo || d.Z > n.hi {
		panic(fmt.Sprintf("смещение %s вне окрестности [%d..%d]", d, n.lo, n.hi))
	}
	return (d.X - n.lo) + (d.Y-n.lo)*n.width + (d.Z-n.lo)*n.width*n.width
}

// Get возвращает элемент по смещению от центра
func (n *Neighborhood[T]) Get(d vec.Vec3) T {
	return n.items[n.index(d)]
}

// Set записывает элемент по смещению от центра
func (n *Neighborhood[T]) Set(d vec.Vec3, v T) {
	n.items[n.index(d)] = v
}

// Center возвращает центральный элемент
func (n *Neighborhood[T]) Center() T {
	return n.Get(vec.Vec3{})
}

// Bounds возвращает диапазон смещений окрестности
func (n *Neighborhood[T]) Bounds() (lo, hi int) {
	return n.lo, n.hi
}

// ForEach вызывает fn для каждого смещения окрестности в фиксированном
// порядке (X быстрее всего, затем Y, затем Z)
func (n *Neighborhood[T]) ForEach(fn func(d vec.Vec3, v T)) {
	for z := n.lo; z <= n.hi; z++ {
		for y := n.lo; y <= n.hi; y++ {
			for x := n.lo; x <= n.hi; x++ {
				d := vec.Vec3{X: x, Y: y, Z: z}
				fn(d, n.items[n.index(d)])
			}
		}
	}
}
