package decor

import (
	"testing"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
)

// grassNeighborhood строит окрестность 3x3x3: в центральной секции плоский
// травяной слой на заданной высоте, соседи пустые
func grassNeighborhood(base vec.Vec3, surfaceY int) *world.Neighborhood[*world.Section] {
	n := world.NewNeighborhood[*world.Section](-1, 1)
	n.ForEach(func(d vec.Vec3, _ *world.Section) {
		n.Set(d, world.NewSection(base.Add(d)))
	})

	center := n.Center()
	for x := 0; x < world.SectionSize; x++ {
		for z := 0; z < world.SectionSize; z++ {
			for y := 0; y < surfaceY; y++ {
				center.Set(x, y, z, block.StoneBlockID)
			}
			center.Set(x, surfaceY, z, block.GrassBlockID)
		}
	}
	return n
}

func TestDecoratorMutatesOnlyCenter(t *testing.T) {
	n := grassNeighborhood(vec.Vec3{X: 5, Y: 1, Z: 5}, 7)

	var before [27][world.SectionSize][world.SectionSize][world.SectionSize]block.BlockID
	i := 0
	n.ForEach(func(_ vec.Vec3, s *world.Section) {
		before[i] = s.Blocks
		i++
	})

	NewDecorator(1).DecorateSection(n)

	i = 0
	n.ForEach(func(d vec.Vec3, s *world.Section) {
		if !d.Equals(vec.Vec3{}) && s.Blocks != before[i] {
			t.Errorf("Декоратор мутировал соседнюю секцию %s", d)
		}
		i++
	})
}

func TestDecoratorDeterministic(t *testing.T) {
	n1 := grassNeighborhood(vec.Vec3{X: 2, Y: 1, Z: 3}, 9)
	n2 := grassNeighborhood(vec.Vec3{X: 2, Y: 1, Z: 3}, 9)

	d := NewDecorator(42)
	d.DecorateSection(n1)
	NewDecorator(42).DecorateSection(n2)

	if n1.Center().Blocks != n2.Center().Blocks {
		t.Error("Одинаковые сид и координаты должны давать идентичную декорацию")
	}

	// Другой сид меняет результат
	n3 := grassNeighborhood(vec.Vec3{X: 2, Y: 1, Z: 3}, 9)
	NewDecorator(1042).DecorateSection(n3)
	if n1.Center().Blocks == n3.Center().Blocks {
		t.Error("Разные сиды должны давать разную декорацию")
	}
}

func TestDecoratorVegetationNeedsAir(t *testing.T) {
	// Секция целиком из камня: поверхности нет, растительность невозможна
	n := world.NewNeighborhood[*world.Section](-1, 1)
	n.ForEach(func(d vec.Vec3, _ *world.Section) {
		n.Set(d, world.NewSection(d))
	})
	center := n.Center()
	for x := 0; x < world.SectionSize; x++ {
		for y := 0; y < world.SectionSize; y++ {
			for z := 0; z < world.SectionSize; z++ {
				center.Set(x, y, z, block.StoneBlockID)
			}
		}
	}

	NewDecorator(1).DecorateSection(n)

	for x := 0; x < world.SectionSize; x++ {
		for y := 0; y < world.SectionSize; y++ {
			for z := 0; z < world.SectionSize; z++ {
				switch id := center.Get(x, y, z); id {
				case block.StoneBlockID, block.CoalOreBlockID, block.IronOreBlockID, block.CopperOreBlockID:
					// Камень остается камнем либо рудой
				default:
					t.Fatalf("В сплошном камне появился неожиданный блок %d в (%d,%d,%d)",
						id, x, y, z)
				}
			}
		}
	}
}

func TestDecoratorOresOnlyInStone(t *testing.T) {
	n := grassNeighborhood(vec.Vec3{}, 10)
	NewDecorator(7).DecorateSection(n)

	center := n.Center()
	for x := 0; x < world.SectionSize; x++ {
		for z := 0; z < world.SectionSize; z++ {
			// Поверхностный слой не превращается в руду
			for y := 10; y < world.SectionSize; y++ {
				switch center.Get(x, y, z) {
				case block.CoalOreBlockID, block.IronOreBlockID, block.CopperOreBlockID:
					t.Fatalf("Руда выше каменных страт в (%d,%d,%d)", x, y, z)
				}
			}
		}
	}
}
