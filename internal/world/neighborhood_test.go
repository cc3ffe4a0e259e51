package world

import (
	"testing"

	"github.com/annel0/voxel-world/internal/vec"
)

func TestNeighborhoodIndexing(t *testing.T) {
	n := NewNeighborhood[int](-1, 1)

	// Каждое смещение хранится независимо
	i := 0
	n.ForEach(func(d vec.Vec3, _ int) {
		i++
		n.Set(d, i)
	})
	if i != 27 {
		t.Fatalf("Окрестность 3x3x3 должна содержать 27 ячеек, обошли %d", i)
	}

	seen := make(map[int]bool)
	n.ForEach(func(d vec.Vec3, v int) {
		if v == 0 {
			t.Errorf("Ячейка %s не была записана", d)
		}
		if seen[v] {
			t.Errorf("Значение %d встретилось дважды — индексация не биективна", v)
		}
		seen[v] = true
	})
}

func TestNeighborhoodCenter(t *testing.T) {
	n := NewNeighborhood[string](-2, 1)
	n.Set(vec.Vec3{}, "center")
	if n.Center() != "center" {
		t.Error("Center должен возвращать элемент со смещением (0,0,0)")
	}

	lo, hi := n.Bounds()
	if lo != -2 || hi != 1 {
		t.Errorf("Ожидались границы [-2..1], получено [%d..%d]", lo, hi)
	}
}

func TestNeighborhoodOutOfBoundsPanics(t *testing.T) {
	n := NewNeighborhood[int](-1, 1)

	defer func() {
		if recover() == nil {
			t.Error("Доступ вне границ должен вызывать панику")
		}
	}()
	n.Get(vec.Vec3{X: 2})
}

func TestNeighborhoodWithoutCenterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Окрестность без центра должна вызывать панику при создании")
		}
	}()
	NewNeighborhood[int](1, 2)
}
