package world

import (
	"fmt"
	"sync"
)

// LifecycleKind — тег состояния жизненного цикла чанка.
type LifecycleKind int

const (
	// LifecycleInactive — чанк создан, но еще не участвует в симуляции.
	LifecycleInactive LifecycleKind = iota
	// LifecycleActive — обычное рабочее состояние, ресурсы не удерживаются.
	LifecycleActive
	// LifecycleBookkeeping — транзитное состояние, которое удерживает Write
	// на обоих ресурсах чисто как бухгалтерию (секционные данные в этот
	// момент не мутируются). Такой Write можно украсть.
	LifecycleBookkeeping
)

// String возвращает строковое представление состояния
func (k LifecycleKind) String() string {
	switch k {
	case LifecycleInactive:
		return "Inactive"
	case LifecycleActive:
		return "Active"
	case LifecycleBookkeeping:
		return "Bookkeeping"
	default:
		return "Unknown"
	}
}

// ChunkLifecycle — явный тегированный вариант состояния жизненного цикла.
// Guard'ы заполнены только в состоянии Bookkeeping; переход из него
// (добровольный или через кражу) отдает guard'ы и делает состояние
// эквивалентным, но без удержания ресурсов.
type ChunkLifecycle struct {
	mu       sync.Mutex
	kind     LifecycleKind
	core     *Guard
	extended *Guard
}

// Kind возвращает текущее состояние жизненного цикла
func (l *ChunkLifecycle) Kind() LifecycleKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kind
}

// EnterBookkeeping переводит чанк в транзитное состояние, передавая ему
// во владение Write-guard'ы обоих ресурсов
func (l *ChunkLifecycle) EnterBookkeeping(core, extended *Guard) {
	if core == nil || core.Access() != AccessWrite || extended == nil || extended.Access() != AccessWrite {
		panic("переход в Bookkeeping требует Write-guard'ов обоих ресурсов")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.kind == LifecycleBookkeeping {
		panic(fmt.Sprintf("повторный переход в Bookkeeping из состояния %s", l.kind))
	}
	l.kind = LifecycleBookkeeping
	l.core = core
	l.extended = extended
}

// Reclaimable сообщает, можно ли украсть доступ у текущего состояния,
// без побочных эффектов
func (l *ChunkLifecycle) Reclaimable() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kind == LifecycleBookkeeping
}

// TryReclaim пытается украсть удерживаемый доступ: если чанк в состоянии
// Bookkeeping, оба Write-guard'а передаются вызывающему, а состояние
// переходит в эквивалентное без удержания ресурсов. Иначе (nil, nil, false),
// и вызывающий откатывается к обычному TryAcquire.
//
// Если вызывающему нужен только Read, он обязан сразу понизить уровень:
// освободить украденный Write и перезахватить ресурс на Read.
func (l *ChunkLifecycle) TryReclaim() (core *Guard, extended *Guard, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.kind != LifecycleBookkeeping {
		return nil, nil, false
	}

	core, extended = l.core, l.extended
	l.core, l.extended = nil, nil
	l.kind = LifecycleActive
	return core, extended, true
}

// LeaveBookkeeping добровольно покидает транзитное состояние, освобождая
// удерживаемые guard'ы. Если доступ уже украден, ничего не делает.
func (l *ChunkLifecycle) LeaveBookkeeping() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.kind != LifecycleBookkeeping {
		return
	}
	l.core.Release()
	l.extended.Release()
	l.core, l.extended = nil, nil
	l.kind = LifecycleActive
}

// Lifecycle возвращает состояние жизненного цикла чанка
func (c *Chunk) Lifecycle() *ChunkLifecycle {
	return &c.lifecycle
}
