package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
)

// decorateCenter выполняет центральную декорацию чанка: внутренние 2x2x2
// секции, чьи окрестности 3x3x3 целиком лежат в этом же чанке. Соседние
// чанки не нужны; выполняется один раз сразу после генерации содержимого,
// под Write на core.
//
// Флаг Center выставляется до работы, а не после: упавшая декорация —
// фатальный баг генерации контента, а не повод для бесконечных повторов.
func (wm *WorldManager) decorateCenter(c *Chunk, g *Guard) {
	if !c.ContentGenerated() {
		panic(fmt.Sprintf("чанк %s: центральная декорация до генерации содержимого", c.Coords))
	}
	if c.DecorationFlags().Has(DecorCenter) {
		panic(fmt.Sprintf("чанк %s: повторная центральная декорация", c.Coords))
	}

	c.setDecorationFlag(DecorCenter, g)

	// Внутренние секции — все, кроме внешней оболочки, касающейся границ
	// чанка. При 4 секциях на ось это локальные индексы 1 и 2.
	for x := 1; x <= 2; x++ {
		for y := 1; y <= 2; y++ {
			for z := 1; z <= 2; z++ {
				local := vec.Vec3{X: x, Y: y, Z: z}
				n := NewNeighborhood[*Section](-1, 1)
				n.ForEach(func(d vec.Vec3, _ *Section) {
					n.Set(d, c.Section(local.Add(d)))
				})
				n.Center().markDecorated()
				wm.decorator.DecorateSection(n)
				sectionsDecorated.Inc()
			}
		}
	}
}
