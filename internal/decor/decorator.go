package decor

import (
	"math/rand"

	"github.com/annel0/voxel-world/internal/util"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Параметры декорации
const (
	TreeChance   = 0.02 // Шанс дерева на травяном блоке
	FlowerChance = 0.05 // Шанс цветка или высокой травы
	CactusChance = 0.01 // Шанс кактуса на песке
	OreAttempts  = 6    // Попыток заложить рудную жилу на секцию
	OreVeinMax   = 8    // Максимальный размер жилы
)

// Decorator — стандартная реализация декоратора секций: растительность на
// поверхности и рудные жилы в камне. Детерминирован: все решения
// принимаются ГПСЧ, засеянным от сида мира и координат секции.
//
// По контракту декорации мутирует только центральную секцию окрестности;
// соседние секции используются только для чтения контекста.
type Decorator struct {
	seed int64
	ores *util.NoiseGenerator
}

// NewDecorator создает декоратор с указанным сидом мира
func NewDecorator(seed int64) *Decorator {
	return &Decorator{
		seed: seed,
		ores: util.NewNoiseGenerator(seed + 1337),
	}
}

// DecorateSection декорирует центральную секцию окрестности
func (d *Decorator) DecorateSection(n *world.Neighborhood[*world.Section]) {
	center := n.Center()
	rng := rand.New(rand.NewSource(d.sectionSeed(center.Pos)))

	d.placeVegetation(n, rng)
	d.placeOres(center, rng)
}

// sectionSeed выводит детерминированный сид из координат секции
func (d *Decorator) sectionSeed(pos vec.Vec3) int64 {
	h := d.seed
	h = h*31 + int64(pos.X)*73856093
	h = h*31 + int64(pos.Y)*19349663
	h = h*31 + int64(pos.Z)*83492791
	return h
}

// blockAbove читает блок над локальной позицией, заглядывая при
// необходимости в соседнюю секцию сверху (только чтение)
func blockAbove(n *world.Neighborhood[*world.Section], x, y, z int) block.BlockID {
	if y+1 < world.SectionSize {
		return n.Center().Get(x, y+1, z)
	}
	return n.Get(vec.Vec3{Y: 1}).Get(x, 0, z)
}

// placeVegetation кладет растительность на поверхностные блоки центральной
// секции
func (d *Decorator) placeVegetation(n *world.Neighborhood[*world.Section], rng *rand.Rand) {
	center := n.Center()
	for x := 0; x < world.SectionSize; x++ {
		for z := 0; z < world.SectionSize; z++ {
			for y := 0; y < world.SectionSize; y++ {
				ground := center.Get(x, y, z)
				if !block.IsSolid(ground) || !block.IsAir(blockAbove(n, x, y, z)) {
					continue
				}
				switch ground {
				case block.GrassBlockID:
					roll := rng.Float64()
					switch {
					case roll < TreeChance:
						d.placeTree(center, rng, x, y, z)
					case roll < TreeChance+FlowerChance:
						if y+1 < world.SectionSize {
							if rng.Float64() < 0.5 {
								center.Set(x, y+1, z, block.FlowerBlockID)
							} else {
								center.Set(x, y+1, z, block.TallGrassBlockID)
							}
						}
					}
				case block.SandBlockID:
					if rng.Float64() < CactusChance {
						d.placeCactus(center, rng, x, y, z)
					}
				}
			}
		}
	}
}

// placeTree ставит дерево: ствол и крону целиком внутри секции.
// У края секции дерево просто не помещается и не ставится — граничные
// области покрываются угловыми проходами соседних секций.
func (d *Decorator) placeTree(s *world.Section, rng *rand.Rand, x, y, z int) {
	trunk := 3 + rng.Intn(2)
	top := y + trunk + 2
	if top >= world.SectionSize || x < 2 || x > world.SectionSize-3 || z < 2 || z > world.SectionSize-3 {
		return
	}

	for h := 1; h <= trunk; h++ {
		s.Set(x, y+h, z, block.WoodBlockID)
	}
	// Крона: куб 3x3x2 над стволом
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			for dy := 0; dy <= 1; dy++ {
				lx, ly, lz := x+dx, y+trunk+dy, z+dz
				if dx == 0 && dz == 0 && dy == 0 {
					continue // здесь верх ствола
				}
				if block.IsReplaceable(s.Get(lx, ly, lz)) {
					s.Set(lx, ly, lz, block.LeavesBlockID)
				}
			}
		}
	}
	s.Set(x, y+trunk+1, z, block.LeavesBlockID)
}

// placeCactus ставит кактус высотой 1-3 блока
func (d *Decorator) placeCactus(s *world.Section, rng *rand.Rand, x, y, z int) {
	height := 1 + rng.Intn(3)
	for h := 1; h <= height; h++ {
		if y+h >= world.SectionSize {
			return
		}
		if !block.IsAir(s.Get(x, y+h, z)) {
			return
		}
		s.Set(x, y+h, z, block.CactusBlockID)
	}
}

// placeOres закладывает рудные жилы в камне секции. Тип руды выбирается
// по трехмерному шуму, размер жилы — случайным блужданием.
func (d *Decorator) placeOres(s *world.Section, rng *rand.Rand) {
	for attempt := 0; attempt < OreAttempts; attempt++ {
		x := rng.Intn(world.SectionSize)
		y := rng.Intn(world.SectionSize)
		z := rng.Intn(world.SectionSize)
		if !block.IsOreHost(s.Get(x, y, z)) {
			continue
		}

		ore := d.oreType(s.Pos, x, y, z)
		size := 2 + rng.Intn(OreVeinMax-1)
		for i := 0; i < size; i++ {
			if block.IsOreHost(s.Get(x, y, z)) {
				s.Set(x, y, z, ore)
			}
			// Случайное блуждание внутри секции
			switch rng.Intn(3) {
			case 0:
				x = clamp(x+rng.Intn(3)-1)
			case 1:
				y = clamp(y+rng.Intn(3)-1)
			case 2:
				z = clamp(z+rng.Intn(3)-1)
			}
		}
	}
}

// oreType выбирает тип руды по шуму от мировых координат блока
func (d *Decorator) oreType(sectionPos vec.Vec3, x, y, z int) block.BlockID {
	gx := float64(sectionPos.X*world.SectionSize+x) * 0.05
	gy := float64(sectionPos.Y*world.SectionSize+y) * 0.05
	gz := float64(sectionPos.Z*world.SectionSize+z) * 0.05
	switch v := d.ores.Noise3D(gx, gy, gz); {
	case v < 0.4:
		return block.CoalOreBlockID
	case v < 0.7:
		return block.IronOreBlockID
	default:
		return block.CopperOreBlockID
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v >= world.SectionSize {
		return world.SectionSize - 1
	}
	return v
}
