package world

import (
	"github.com/annel0/voxel-world/internal/util"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Константы рельефа (в блоках, мировая ось Y)
const (
	SeaLevel   = 12  // Уровень воды
	BaseHeight = 16  // Средняя высота поверхности
	HeightAmp  = 24  // Амплитуда перепада высот
	SnowLine   = 34  // Выше — снег вместо травы
	BeachBand  = 2   // Полоса песка вокруг уровня воды
)

// WorldGenerator генерирует сырой ландшафт чанков: столбчатую карту высот
// по шуму Перлина и страты камень/земля/поверхность плюс воду до уровня
// моря. Детали (растительность, руды) кладет не он, а декоратор.
type WorldGenerator struct {
	Seed       int64
	NoiseScale float64 // Масштаб основного шума (высота)
	BiomeScale float64 // Масштаб шума биомов

	height *util.NoiseGenerator
	biome  *util.NoiseGenerator
}

// NewWorldGenerator создает генератор мира с указанным сидом
func NewWorldGenerator(seed int64) *WorldGenerator {
	return &WorldGenerator{
		Seed:       seed,
		NoiseScale: 0.01,
		BiomeScale: 0.003,
		height:     util.NewNoiseGenerator(seed),
		biome:      util.NewNoiseGenerator(seed + 42),
	}
}

// GenerateChunk генерирует чанк по его координатам. Результат
// детерминирован: одинаковые сид и координаты дают одинаковые блоки.
// По завершении у чанка выставляется флаг сгенерированности содержимого.
func (wg *WorldGenerator) GenerateChunk(coords vec.Vec3) *Chunk {
	chunk := NewChunk(coords)

	baseX := coords.X * ChunkSize
	baseY := coords.Y * ChunkSize
	baseZ := coords.Z * ChunkSize

	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			gx, gz := baseX+x, baseZ+z
			surface := wg.surfaceHeight(gx, gz)
			sandy := wg.isSandy(gx, gz)

			for y := 0; y < ChunkSize; y++ {
				gy := baseY + y
				id := wg.blockAt(gy, surface, sandy)
				if id == block.AirBlockID {
					continue
				}
				local := vec.Vec3{X: x, Y: y, Z: z}.DivFloor(SectionSize)
				in := vec.Vec3{X: x, Y: y, Z: z}.ModFloor(SectionSize)
				chunk.Section(local).Set(in.X, in.Y, in.Z, id)
			}
		}
	}

	chunk.markGenerated()
	return chunk
}

// surfaceHeight возвращает высоту поверхности для мирового столбца (x,z)
func (wg *WorldGenerator) surfaceHeight(x, z int) int {
	n := wg.height.Noise2D(float64(x)*wg.NoiseScale, float64(z)*wg.NoiseScale)
	return BaseHeight + int(n*HeightAmp)
}

// isSandy определяет по шуму биомов, песчаная ли поверхность столбца
func (wg *WorldGenerator) isSandy(x, z int) bool {
	return wg.biome.Noise2D(float64(x)*wg.BiomeScale, float64(z)*wg.BiomeScale) > 0.62
}

// blockAt возвращает блок для мировой высоты gy при высоте поверхности
// surface
func (wg *WorldGenerator) blockAt(gy, surface int, sandy bool) block.BlockID {
	switch {
	case gy > surface:
		if gy <= SeaLevel {
			return block.WaterBlockID
		}
		return block.AirBlockID
	case gy == surface:
		switch {
		case sandy || (surface >= SeaLevel-BeachBand && surface <= SeaLevel+BeachBand):
			return block.SandBlockID
		case surface >= SnowLine:
			return block.SnowBlockID
		case surface < SeaLevel:
			return block.DirtBlockID // Дно водоемов
		default:
			return block.GrassBlockID
		}
	case gy >= surface-3:
		if sandy {
			return block.SandBlockID
		}
		return block.DirtBlockID
	default:
		return block.StoneBlockID
	}
}
