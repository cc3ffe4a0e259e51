package world

import (
	"fmt"
	"sync"
)

// Access описывает уровень доступа к ресурсу чанка.
// Решетка из трех значений: None < Read < Write.
type Access int

const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
)

// String возвращает строковое представление уровня доступа
func (a Access) String() string {
	switch a {
	case AccessNone:
		return "None"
	case AccessRead:
		return "Read"
	case AccessWrite:
		return "Write"
	default:
		return "Unknown"
	}
}

// Resource — примитив взаимного исключения для одного логического ресурса
// чанка (Core или Extended). Несколько читателей могут сосуществовать,
// писатель эксклюзивен. Все операции неблокирующие: недоступность —
// ожидаемый исход, а не ошибка.
type Resource struct {
	name string // для сообщений об ошибках, например "core(1,2,3)"

	mu      sync.Mutex
	readers int
	writer  bool
	guards  map[*Guard]Access
}

// Guard — токен владения, возвращаемый успешным захватом ресурса.
// Действителен от захвата до единственного Release; повторное
// освобождение или использование после освобождения — ошибка программиста
// и приводит к панике.
type Guard struct {
	res      *Resource
	access   Access
	released bool
}

// NewResource создает свободный ресурс с указанным именем
func NewResource(name string) *Resource {
	return &Resource{
		name:   name,
		guards: make(map[*Guard]Access),
	}
}

// compatible проверяет совместимость запрошенного доступа с текущими
// владельцами. Вызывается только под r.mu.
func (r *Resource) compatible(access Access) bool {
	switch access {
	case AccessNone:
		return true
	case AccessRead:
		return !r.writer
	case AccessWrite:
		return !r.writer && r.readers == 0
	default:
		return false
	}
}

// CanAcquire проверяет, совместим ли запрошенный доступ с текущими
// владельцами, без побочных эффектов. Используется предикатом готовности
// декорации, чтобы не захватывать ресурс впустую.
func (r *Resource) CanAcquire(access Access) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.compatible(access)
}

// TryAcquire пытается захватить ресурс с указанным доступом.
// Возвращает (guard, true) при успехе и (nil, false), если ресурс занят.
// Никогда не блокируется; повторить попытку позже решает вызывающий.
func (r *Resource) TryAcquire(access Access) (*Guard, bool) {
	if access == AccessNone {
		panic(fmt.Sprintf("ресурс %s: запрос доступа None не имеет смысла", r.name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.compatible(access) {
		return nil, false
	}

	g := &Guard{res: r, access: access}
	switch access {
	case AccessRead:
		r.readers++
	case AccessWrite:
		r.writer = true
	}
	r.guards[g] = access
	return g, true
}

// IsHeldBy проверяет, что конкретный еще не освобожденный guard дает
// как минимум указанный доступ. Только для внутренних проверок
// инвариантов, не для управления потоком выполнения.
func (r *Resource) IsHeldBy(g *Guard, access Access) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	held, ok := r.guards[g]
	return ok && held >= access
}

// Release освобождает guard и возвращает емкость ресурсу.
// Двойное освобождение — фатальное нарушение инварианта.
func (g *Guard) Release() {
	r := g.res
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.released {
		panic(fmt.Sprintf("ресурс %s: повторное освобождение guard (%s)", r.name, g.access))
	}
	if _, ok := r.guards[g]; !ok {
		panic(fmt.Sprintf("ресурс %s: освобождение чужого guard", r.name))
	}

	g.released = true
	delete(r.guards, g)
	switch g.access {
	case AccessRead:
		r.readers--
	case AccessWrite:
		r.writer = false
	}
}

// Access возвращает уровень доступа, с которым guard был захвачен
func (g *Guard) Access() Access {
	return g.access
}
