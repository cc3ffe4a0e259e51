package world

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/annel0/voxel-world/internal/eventbus"
	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// WorldManager владеет ареной чанков и координирует двухфазную декорацию.
// Глобальной блокировки нет: корректность держится на эксклюзивности
// ресурсов отдельных чанков, mu защищает только саму карту арены.
type WorldManager struct {
	mu     sync.RWMutex
	chunks map[vec.Vec3]*Chunk

	generator *WorldGenerator
	decorator SectionDecorator
	bus       eventbus.EventBus

	// Параметры планировщика декорации
	Workers      int           // Число воркеров прохода декорации
	TickInterval time.Duration // Период между проходами

	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewWorldManager создает менеджер мира с указанным сидом и декоратором.
// nil-декоратор заменяется на пустой.
func NewWorldManager(seed int64, decorator SectionDecorator) *WorldManager {
	if decorator == nil {
		decorator = NopDecorator{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorldManager{
		chunks:       make(map[vec.Vec3]*Chunk),
		generator:    NewWorldGenerator(seed),
		decorator:    decorator,
		Workers:      runtime.NumCPU(),
		TickInterval: 50 * time.Millisecond,
		ctx:          ctx,
		cancelFunc:   cancel,
	}
}

// SetEventBus подключает шину событий; до подключения события не публикуются
func (wm *WorldManager) SetEventBus(bus eventbus.EventBus) {
	wm.bus = bus
}

// LookupChunk возвращает чанк по координатам или nil, если он не загружен.
// Отсутствие чанка — нормальный исход (край мира, еще не загружен).
func (wm *WorldManager) LookupChunk(pos vec.Vec3) *Chunk {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return wm.chunks[pos]
}

// EnsureChunk возвращает чанк по координатам, при необходимости генерируя
// его. Центральная декорация выполняется сразу после генерации, под Write
// на core, до того как чанк станет доступен другим подсистемам.
func (wm *WorldManager) EnsureChunk(pos vec.Vec3) *Chunk {
	if c := wm.LookupChunk(pos); c != nil {
		return c
	}

	c := wm.generator.GenerateChunk(pos)

	// Свежий чанк никому не виден, захват не может не удаться
	g, ok := c.core.TryAcquire(AccessWrite)
	if !ok {
		panic("свежесгенерированный чанк недоступен для Write")
	}

	wm.mu.Lock()
	if existing, dup := wm.chunks[pos]; dup {
		// Параллельная генерация того же чанка — оставляем первый
		wm.mu.Unlock()
		g.Release()
		return existing
	}
	wm.chunks[pos] = c
	wm.mu.Unlock()

	wm.decorateCenter(c, g)
	g.Release()

	chunksGenerated.Inc()
	chunksActive.Inc()
	wm.publishChunkGenerated(c)
	return c
}

// AdoptChunk вставляет в арену чанк, восстановленный из хранилища.
// Если чанк с такими координатами уже загружен, остается существующий.
func (wm *WorldManager) AdoptChunk(c *Chunk) *Chunk {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	if existing, dup := wm.chunks[c.Coords]; dup {
		return existing
	}
	wm.chunks[c.Coords] = c
	chunksActive.Inc()
	return c
}

// UnloadChunk пытается выгрузить чанк. Выгрузка требует эксклюзивного
// доступа к обоим ресурсам: идущая декорация или чтение естественным
// образом откладывают выгрузку — ресурс просто сообщает о занятости.
func (wm *WorldManager) UnloadChunk(pos vec.Vec3) bool {
	c := wm.LookupChunk(pos)
	if c == nil {
		return false
	}

	core, ok := c.core.TryAcquire(AccessWrite)
	if !ok {
		return false
	}
	ext, ok := c.extended.TryAcquire(AccessWrite)
	if !ok {
		core.Release()
		return false
	}

	wm.mu.Lock()
	delete(wm.chunks, pos)
	wm.mu.Unlock()
	chunksActive.Dec()

	ext.Release()
	core.Release()
	return true
}

// ActiveChunks возвращает снимок всех чанков арены в детерминированном
// порядке координат
func (wm *WorldManager) ActiveChunks() []*Chunk {
	wm.mu.RLock()
	out := make([]*Chunk, 0, len(wm.chunks))
	for _, c := range wm.chunks {
		out = append(out, c)
	}
	wm.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Coords.Less(out[j].Coords)
	})
	return out
}

// SnapshotSectionBlocks снимает копию блоков секции под Read на core.
// Если core удерживается транзитным состоянием, доступ крадется и сразу
// понижается до Read: Write не должен удерживаться дольше необходимого.
func (wm *WorldManager) SnapshotSectionBlocks(c *Chunk, local vec.Vec3) ([SectionSize][SectionSize][SectionSize]block.BlockID, bool) {
	var blocks [SectionSize][SectionSize][SectionSize]block.BlockID

	g, ok := c.core.TryAcquire(AccessRead)
	if !ok {
		core, extended, stolen := c.lifecycle.TryReclaim()
		if !stolen {
			return blocks, false
		}
		extended.Release()
		core.Release()
		// Понижение не атомарно: между Release и TryAcquire ресурс может
		// перехватить другой писатель, тогда снимок не удался.
		if g, ok = c.core.TryAcquire(AccessRead); !ok {
			return blocks, false
		}
	}
	defer g.Release()

	blocks = c.Section(local).Blocks
	return blocks, true
}

// Run запускает цикл планировщика декорации: каждый тик все активные не
// полностью декорированные чанки опрашиваются предикатом готовности, и
// готовые наборы углов обрабатываются пулом воркеров. Ничего не блокирует:
// недоступный чанк пропускается до следующего тика.
func (wm *WorldManager) Run(parentCtx context.Context) {
	if parentCtx != nil {
		childCtx, cancel := context.WithCancel(parentCtx)
		wm.ctx = childCtx
		wm.cancelFunc = cancel
	}

	go wm.scheduleLoop()
}

// Stop останавливает планировщик
func (wm *WorldManager) Stop() {
	wm.cancelFunc()
}

func (wm *WorldManager) scheduleLoop() {
	ticker := time.NewTicker(wm.TickInterval)
	defer ticker.Stop()

	logging.Info("Планировщик декорации запущен: %d воркеров, тик %s", wm.Workers, wm.TickInterval)
	for {
		select {
		case <-wm.ctx.Done():
			logging.Info("Планировщик декорации остановлен")
			return
		case <-ticker.C:
			wm.DecorationPass()
		}
	}
}

// DecorationPass выполняет один проход декорации по всем активным чанкам.
// Возвращает число декорированных углов. Воркеры работают по разным
// чанкам параллельно; пересекающиеся угловые операции разводит
// эксклюзивность ресурсов участников.
func (wm *WorldManager) DecorationPass() int {
	candidates := make(chan *Chunk)
	var total int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := wm.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range candidates {
				rs := wm.DecideWhetherToDecorate(c)
				if rs == nil {
					continue
				}
				done := wm.RunCornerDecoration(rs)
				if done > 0 {
					mu.Lock()
					total += int64(done)
					mu.Unlock()
				}
			}
		}()
	}

	for _, c := range wm.ActiveChunks() {
		if c.ContentGenerated() && !c.IsFullyDecorated() {
			candidates <- c
		}
	}
	close(candidates)
	wg.Wait()

	if total > 0 {
		logging.Debug("Проход декорации: %d углов", total)
	}
	return int(total)
}
