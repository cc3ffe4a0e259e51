package world

import (
	"fmt"
	"sync/atomic"

	"github.com/annel0/voxel-world/internal/vec"
)

// Chunk представляет кубический участок мира из 4x4x4 секций.
// Единица загрузки/выгрузки. Координаты неизменны после создания.
//
// У каждого чанка два независимых ресурса:
//   - Core — секции с блоками и флаги декорации;
//   - Extended — производные данные (меши и т.п.), данной подсистемой
//     не используются, но участвуют в краже доступа и выгрузке.
type Chunk struct {
	Coords vec.Vec3 // Координаты чанка в чанковой сетке

	sections [SectionsPerChunk][SectionsPerChunk][SectionsPerChunk]*Section

	core      *Resource
	extended  *Resource
	lifecycle ChunkLifecycle

	// generated и decoration читаются предикатом готовности без захвата
	// ресурсов, поэтому атомарны. Мутация decoration сериализована
	// Write-доступом к core.
	generated  atomic.Bool
	decoration atomic.Uint32
}

// NewChunk создает чанк с пустыми секциями в указанных координатах
func NewChunk(coords vec.Vec3) *Chunk {
	c := &Chunk{
		Coords:   coords,
		core:     NewResource(fmt.Sprintf("core%s", coords)),
		extended: NewResource(fmt.Sprintf("extended%s", coords)),
	}
	base := coords.Mul(SectionsPerChunk)
	for x := 0; x < SectionsPerChunk; x++ {
		for y := 0; y < SectionsPerChunk; y++ {
			for z := 0; z < SectionsPerChunk; z++ {
				c.sections[x][y][z] = NewSection(base.Add(vec.Vec3{X: x, Y: y, Z: z}))
			}
		}
	}
	c.lifecycle.kind = LifecycleActive
	return c
}

// Core возвращает ресурс секционных данных чанка
func (c *Chunk) Core() *Resource {
	return c.core
}

// Extended возвращает ресурс производных данных чанка
func (c *Chunk) Extended() *Resource {
	return c.extended
}

// Section возвращает секцию по локальным координатам (0..3 по каждой оси)
func (c *Chunk) Section(local vec.Vec3) *Section {
	return c.sections[local.X][local.Y][local.Z]
}

// ContentGenerated сообщает, сгенерирован ли сырой ландшафт чанка.
// И центральная декорация, и участие в угловой возможны только после этого.
func (c *Chunk) ContentGenerated() bool {
	return c.generated.Load()
}

// markGenerated выставляет флаг завершения генерации содержимого
func (c *Chunk) markGenerated() {
	c.generated.Store(true)
}

// DecorationFlags возвращает текущий 9-битный набор флагов декорации
func (c *Chunk) DecorationFlags() DecorationLevel {
	return DecorationLevel(c.decoration.Load())
}

// IsFullyDecorated сообщает, выставлены ли все 9 флагов декорации.
// Используется планировщиком, чтобы перестать назначать чанк, и
// предикатами готовности соседей.
func (c *Chunk) IsFullyDecorated() bool {
	return c.DecorationFlags().IsComplete()
}

// setDecorationFlag выставляет флаг декорации. Флаги монотонны: однажды
// выставленный бит не сбрасывается никогда. Вызывающий обязан держать
// Write на core; повторная установка бита — нарушение инварианта.
func (c *Chunk) setDecorationFlag(flag DecorationLevel, g *Guard) {
	if !c.core.IsHeldBy(g, AccessWrite) {
		panic(fmt.Sprintf("чанк %s: установка флага декорации без Write на core", c.Coords))
	}
	cur := DecorationLevel(c.decoration.Load())
	if cur.Has(flag) {
		panic(fmt.Sprintf("чанк %s: флаг декорации %09b уже выставлен", c.Coords, flag))
	}
	// Писатели сериализованы Write-guard'ом, поэтому load+store достаточно.
	c.decoration.Store(uint32(cur | flag))
}

// coreWriteAvailable сообщает, доступен ли Write на core прямо сейчас —
// обычным захватом либо кражей у транзитного состояния жизненного цикла
func (c *Chunk) coreWriteAvailable() bool {
	return c.core.CanAcquire(AccessWrite) || c.lifecycle.Reclaimable()
}

// tryAcquireCoreWrite захватывает Write на core: сначала обычным путем,
// затем через кражу у транзитного состояния. Украденный Write на extended
// для угловой декорации не нужен и сразу возвращается.
func (c *Chunk) tryAcquireCoreWrite() (*Guard, bool) {
	if g, ok := c.core.TryAcquire(AccessWrite); ok {
		return g, true
	}
	if core, extended, ok := c.lifecycle.TryReclaim(); ok {
		extended.Release()
		return core, true
	}
	return nil, false
}
