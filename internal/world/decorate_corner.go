package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
)

// RunCornerDecoration выполняет угловую декорацию для всех готовых углов
// из ReadySet. Возвращает число фактически декорированных углов.
// Недоступность ресурсов какого-либо участника — не ошибка: угол просто
// пропускается до следующего прохода планировщика.
func (wm *WorldManager) RunCornerDecoration(rs *ReadySet) int {
	done := 0
	for _, corner := range rs.Corners {
		if wm.decorateCorner(rs, corner) {
			done++
		}
	}
	return done
}

// decorateCorner декорирует один угол: захватывает Write на core всех
// восьми участников, декорирует общий куб секций 4x4x4 без восьми
// вершинных секций (те уже декорированы центральными проходами) и
// атомарно относительно этого угла выставляет флаг на всех участниках.
//
// Установка флагов — точка фиксации: она происходит только после полной
// обработки всех 56 секций.
func (wm *WorldManager) decorateCorner(rs *ReadySet, corner vec.Vec3) bool {
	one := vec.Vec3{X: 1, Y: 1, Z: 1}
	base := corner.Sub(one)

	// Участники в фиксированном лексикографическом порядке смещений d.
	// Порядок захвата для корректности не важен (все операции try-style),
	// но детерминированный порядок избавляет от разнобоя.
	var participants [8]*Chunk
	for i, d := range Corners() {
		participants[i] = rs.Chunks.Get(base.Add(d))
	}

	var guards [8]*Guard
	acquired := 0
	defer func() {
		for i := 0; i < acquired; i++ {
			guards[i].Release()
		}
	}()

	for i, p := range participants {
		g, ok := p.tryAcquireCoreWrite()
		if !ok {
			// Состояние изменилось после предиката — конкуренция,
			// повторим на следующем проходе.
			decorationContention.Inc()
			return false
		}
		guards[i] = g
		acquired++
	}

	// Сверка флагов всех восьми участников. Флаг угла выставляется на всех
	// участниках в одном проходе, поэтому либо он есть у всех, либо ни у
	// кого; расхождение означает поврежденный инвариант.
	have := 0
	for i, d := range Corners() {
		if participants[i].DecorationFlags().Has(participantCornerFlag(d)) {
			have++
		}
	}
	switch have {
	case 8:
		// Угол уже декорирован другим проходом (адресованным от другого
		// якоря) между предикатом и захватом.
		return false
	case 0:
		// Декорируем ниже.
	default:
		panic(fmt.Sprintf("угол %s чанка %s: флаг выставлен у %d из 8 участников",
			corner, rs.Anchor.Coords, have))
	}

	byPos := make(map[vec.Vec3]*Chunk, 8)
	for _, p := range participants {
		byPos[p.Coords] = p
	}

	// Куб секций 4x4x4 вокруг общей вершины: по две секции с каждой
	// стороны по каждой оси. Восемь вершинных секций куба имеют локальные
	// координаты из {1,2}^3 в своих чанках и уже декорированы.
	vertex := rs.Anchor.Coords.Add(corner)
	cubeBase := vertex.Mul(SectionsPerChunk).Sub(vec.Vec3{X: 2, Y: 2, Z: 2})

	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			for z := 0; z < 4; z++ {
				if (x == 0 || x == 3) && (y == 0 || y == 3) && (z == 0 || z == 3) {
					continue
				}
				spos := cubeBase.Add(vec.Vec3{X: x, Y: y, Z: z})
				n := cornerSectionNeighborhood(byPos, spos)
				n.Center().markDecorated()
				wm.decorator.DecorateSection(n)
				sectionsDecorated.Inc()
			}
		}
	}

	for i, d := range Corners() {
		participants[i].setDecorationFlag(participantCornerFlag(d), guards[i])
	}
	cornersDecorated.Inc()

	wm.publishCornerDecorated(rs.Anchor, corner)
	for _, p := range participants {
		if p.IsFullyDecorated() {
			wm.publishChunkDecorated(p)
		}
	}
	return true
}

// cornerSectionNeighborhood собирает окрестность 3x3x3 секций вокруг
// глобальной секции spos. Все нужные секции лежат в чанках-участниках
// угла; отсутствие владельца в карте — нарушение геометрии окна.
func cornerSectionNeighborhood(byPos map[vec.Vec3]*Chunk, spos vec.Vec3) *Neighborhood[*Section] {
	n := NewNeighborhood[*Section](-1, 1)
	n.ForEach(func(d vec.Vec3, _ *Section) {
		q := spos.Add(d)
		owner, ok := byPos[q.DivFloor(SectionsPerChunk)]
		if !ok {
			panic(fmt.Sprintf("секция %s вне чанков-участников угла", q))
		}
		n.Set(d, owner.Section(q.ModFloor(SectionsPerChunk)))
	})
	return n
}
