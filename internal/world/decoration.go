package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
)

// DecorationLevel — 9-битный монотонный набор флагов декорации чанка:
// бит 0 — "центр декорирован", биты 1..8 — "угол (cx,cy,cz) декорирован".
// Биты только выставляются и никогда не сбрасываются: результат декорации
// не отменяется.
type DecorationLevel uint16

// DecorCenter — флаг завершенной центральной декорации
const DecorCenter DecorationLevel = 1

// decorComplete — все 9 бит выставлены
const decorComplete DecorationLevel = (1 << 9) - 1

// CornerFlag возвращает флаг угла (cx,cy,cz), где каждая компонента 0 или 1
func CornerFlag(corner vec.Vec3) DecorationLevel {
	if corner.X|corner.Y|corner.Z < 0 || corner.X > 1 || corner.Y > 1 || corner.Z > 1 {
		panic(fmt.Sprintf("недопустимый угол %s", corner))
	}
	return DecorationLevel(1 << (1 + corner.X + 2*corner.Y + 4*corner.Z))
}

// Has сообщает, выставлены ли все биты flag
func (d DecorationLevel) Has(flag DecorationLevel) bool {
	return d&flag == flag
}

// IsComplete сообщает, выставлены ли все 9 бит
func (d DecorationLevel) IsComplete() bool {
	return d == decorComplete
}

// Corners перечисляет все 8 углов в фиксированном лексикографическом
// порядке (X быстрее всего)
func Corners() [8]vec.Vec3 {
	var out [8]vec.Vec3
	for i := 0; i < 8; i++ {
		out[i] = vec.Vec3{X: i & 1, Y: (i >> 1) & 1, Z: (i >> 2) & 1}
	}
	return out
}

// Угол corner чанка A — это вершина решетки A+corner, общая для восьми
// чанков. Участники угла: A + corner - (1,1,1) + d для d из {0,1}^3.
// Участник со смещением d описывает ту же вершину как свой собственный
// угол (1,1,1)-d, поэтому при декорировании получает именно этот флаг.
// Перепутать знаки здесь — значит получить пропущенную или двойную
// декорацию на границе.

// CornerParticipants возвращает позиции восьми чанков, разделяющих угол
// corner чанка anchor, в фиксированном лексикографическом порядке
func CornerParticipants(anchor, corner vec.Vec3) [8]vec.Vec3 {
	base := anchor.Add(corner).Sub(vec.Vec3{X: 1, Y: 1, Z: 1})
	var out [8]vec.Vec3
	for i, d := range Corners() {
		out[i] = base.Add(d)
	}
	return out
}

// participantCornerFlag возвращает флаг, который получает участник со
// смещением d внутри блока 2x2x2 участников
func participantCornerFlag(d vec.Vec3) DecorationLevel {
	return CornerFlag(vec.Vec3{X: 1 - d.X, Y: 1 - d.Y, Z: 1 - d.Z})
}

// ReadySet — результат предиката готовности: якорный чанк, окрестность
// 3x3x3 с чанками, нужными хотя бы одному готовому углу, и список самих
// готовых углов. Состояние Ready транзиентно и пересчитывается каждым
// проходом планировщика, а не хранится.
type ReadySet struct {
	Anchor  *Chunk
	Chunks  *Neighborhood[*Chunk]
	Corners []vec.Vec3
}

// DecideWhetherToDecorate — предикат готовности: дешево и без удержания
// блокировок решает, есть ли у чанка недекорированный угол, все участники
// которого загружены, сгенерированы и доступны для захвата.
//
// Возвращает nil, если чанк уже полностью декорирован или ни один угол
// сейчас не готов. Отсутствующий сосед — нормальный исход (край мира,
// еще не загружен), а не ошибка: угол просто не попадает в готовые.
func (wm *WorldManager) DecideWhetherToDecorate(c *Chunk) *ReadySet {
	if c == nil || !c.ContentGenerated() || c.IsFullyDecorated() {
		return nil
	}
	if !c.coreWriteAvailable() {
		return nil
	}

	// Доступная окрестность 3x3x3: слот заполняется, только если сосед
	// существует, сгенерирован и прямо сейчас допускает Write (обычный
	// или через кражу). CanAcquire — моментальный снимок, сам захват
	// произойдет позже и может не удаться; это учитывает RunCornerDecoration.
	available := NewNeighborhood[*Chunk](-1, 1)
	available.Set(vec.Vec3{}, c)
	for _, d := range neighborOffsets() {
		n := wm.LookupChunk(c.Coords.Add(d))
		if n == nil || !n.ContentGenerated() || !n.coreWriteAvailable() {
			continue
		}
		available.Set(d, n)
	}

	flags := c.DecorationFlags()
	one := vec.Vec3{X: 1, Y: 1, Z: 1}

	var corners []vec.Vec3
	needed := NewNeighborhood[*Chunk](-1, 1)
	for _, corner := range Corners() {
		if flags.Has(CornerFlag(corner)) {
			continue
		}
		// Угол готов, если доступен весь его блок участников 2x2x2.
		ready := true
		base := corner.Sub(one)
		for _, d := range Corners() {
			if available.Get(base.Add(d)) == nil {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}
		corners = append(corners, corner)
		for _, d := range Corners() {
			off := base.Add(d)
			needed.Set(off, available.Get(off))
		}
	}

	if len(corners) == 0 {
		return nil
	}
	return &ReadySet{Anchor: c, Chunks: needed, Corners: corners}
}

// neighborOffsets возвращает 26 ненулевых смещений окрестности 3x3x3
func neighborOffsets() []vec.Vec3 {
	out := make([]vec.Vec3, 0, 26)
	for z := -1; z <= 1; z++ {
		for y := -1; y <= 1; y++ {
			for x := -1; x <= 1; x++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				out = append(out, vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}
