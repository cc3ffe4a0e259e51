package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Размеры мира: чанк состоит из SectionsPerChunk^3 секций,
// секция — из SectionSize^3 блоков.
const (
	SectionSize      = 16
	SectionsPerChunk = 4
	ChunkSize        = SectionSize * SectionsPerChunk
)

// Section — наименьшая единица работы декорации: куб блоков 16x16x16.
// Секция монопольно принадлежит родительскому чанку; доступ к ней
// регулируется ресурсом Core этого чанка.
type Section struct {
	Pos    vec.Vec3 // Глобальные координаты секции (в секционной сетке)
	Blocks [SectionSize][SectionSize][SectionSize]block.BlockID

	decorated bool // Выставляется ровно один раз за все время жизни мира
}

// NewSection создает пустую секцию с указанными глобальными координатами
func NewSection(pos vec.Vec3) *Section {
	return &Section{Pos: pos}
}

// Get возвращает блок по локальным координатам секции
func (s *Section) Get(x, y, z int) block.BlockID {
	return s.Blocks[x][y][z]
}

// Set устанавливает блок по локальным координатам секции
func (s *Section) Set(x, y, z int, id block.BlockID) {
	s.Blocks[x][y][z] = id
}

// IsDecorated сообщает, была ли секция уже декорирована
func (s *Section) IsDecorated() bool {
	return s.decorated
}

// markDecorated помечает секцию декорированной. Повторная декорация
// одной секции — нарушение инварианта "не более одного раза".
// Вызывается только под Write на Core родительского чанка.
func (s *Section) markDecorated() {
	if s.decorated {
		panic(fmt.Sprintf("секция %s декорируется повторно", s.Pos))
	}
	s.decorated = true
}
