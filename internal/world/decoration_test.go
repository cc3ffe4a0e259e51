package world

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/stretchr/testify/assert"
)

// countingDecorator фиксирует каждый вызов декорации по координатам секции
type countingDecorator struct {
	mu    sync.Mutex
	calls map[vec.Vec3]int
}

func newCountingDecorator() *countingDecorator {
	return &countingDecorator{calls: make(map[vec.Vec3]int)}
}

func (d *countingDecorator) DecorateSection(n *Neighborhood[*Section]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls[n.Center().Pos]++
}

func (d *countingDecorator) total() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	sum := 0
	for _, c := range d.calls {
		sum += c
	}
	return sum
}

func (d *countingDecorator) maxPerSection() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	max := 0
	for _, c := range d.calls {
		if c > max {
			max = c
		}
	}
	return max
}

func one() vec.Vec3 { return vec.Vec3{X: 1, Y: 1, Z: 1} }

func TestCornerParticipantsGeometry(t *testing.T) {
	anchor := vec.Vec3{X: 3, Y: -2, Z: 7}

	// Угол (1,1,1): участники — блок 2x2x2 от самого якоря
	parts := CornerParticipants(anchor, one())
	assert.Equal(t, anchor, parts[0], "Первый участник угла (1,1,1) — сам якорь")
	assert.Equal(t, anchor.Add(one()), parts[7], "Последний участник — диагональный сосед")

	// Угол (0,0,0): участники сдвинуты на (-1,-1,-1)
	parts = CornerParticipants(anchor, vec.Vec3{})
	assert.Equal(t, anchor.Sub(one()), parts[0])
	assert.Equal(t, anchor, parts[7], "Якорь — последний участник своего угла (0,0,0)")

	// Флаг участника — октант, противоположный его смещению в блоке
	assert.Equal(t, CornerFlag(one()), participantCornerFlag(vec.Vec3{}))
	assert.Equal(t, CornerFlag(vec.Vec3{}), participantCornerFlag(one()))

	// Все 9 флагов различны
	seen := map[DecorationLevel]bool{DecorCenter: true}
	for _, c := range Corners() {
		f := CornerFlag(c)
		assert.False(t, seen[f], "Флаг угла %s совпал с другим", c)
		seen[f] = true
	}
}

func TestCenterDecorationOnGenerate(t *testing.T) {
	dec := newCountingDecorator()
	wm := NewWorldManager(1, dec)

	c := wm.EnsureChunk(vec.Vec3{})
	assert.True(t, c.ContentGenerated(), "Содержимое должно быть сгенерировано")
	assert.True(t, c.DecorationFlags().Has(DecorCenter), "Флаг Center должен быть выставлен")
	assert.Equal(t, 8, dec.total(), "Центральная декорация покрывает внутренние секции 2x2x2")
	assert.Equal(t, 1, dec.maxPerSection(), "Каждая секция декорируется не более одного раза")

	// Повторный EnsureChunk не генерирует заново
	again := wm.EnsureChunk(vec.Vec3{})
	assert.Same(t, c, again)
	assert.Equal(t, 8, dec.total())
}

func TestCenterDecorationTwicePanics(t *testing.T) {
	wm := NewWorldManager(1, nil)
	c := wm.EnsureChunk(vec.Vec3{})

	g, ok := c.Core().TryAcquire(AccessWrite)
	assert.True(t, ok)
	defer g.Release()

	assert.Panics(t, func() {
		wm.decorateCenter(c, g)
	}, "Повторная центральная декорация — нарушение инварианта")
}

// Сценарий: одиночный чанк без сгенерированных соседей — центр
// декорируется, угловые попытки бесконечно возвращают "не готово".
func TestIsolatedChunkCornersNeverReady(t *testing.T) {
	wm := NewWorldManager(1, newCountingDecorator())
	c := wm.EnsureChunk(vec.Vec3{})

	for i := 0; i < 5; i++ {
		assert.Nil(t, wm.DecideWhetherToDecorate(c), "Без соседей ни один угол не готов")
		assert.Equal(t, 0, wm.DecorationPass(), "Проход не должен ничего декорировать")
	}
	assert.False(t, c.IsFullyDecorated())
}

// Сценарий: якорь плюс минимальные 7 чанков для ровно одного угла (1,1,1).
func TestSingleCornerScenario(t *testing.T) {
	dec := newCountingDecorator()
	wm := NewWorldManager(1, dec)

	var chunks [8]*Chunk
	for i, d := range Corners() {
		chunks[i] = wm.EnsureChunk(d)
	}
	anchor := chunks[0]
	assert.Equal(t, 64, dec.total(), "8 чанков по 8 внутренних секций")

	rs := wm.DecideWhetherToDecorate(anchor)
	assert.NotNil(t, rs, "Угол (1,1,1) должен быть готов")
	assert.Equal(t, []vec.Vec3{one()}, rs.Corners, "Готов ровно один угол")

	assert.Equal(t, 1, wm.RunCornerDecoration(rs), "Ровно один угловой проход должен успеть")

	// Куб 4x4x4 без восьми вершинных секций
	assert.Equal(t, 64+56, dec.total())
	assert.Equal(t, 1, dec.maxPerSection(), "Ни одна секция не декорирована дважды")

	// Симметрия: каждый участник получает октант, противоположный смещению
	assert.True(t, anchor.DecorationFlags().Has(CornerFlag(one())),
		"Якорь должен получить Corner111")
	assert.True(t, chunks[7].DecorationFlags().Has(CornerFlag(vec.Vec3{})),
		"Диагональный участник должен получить Corner000")
	for i, d := range Corners() {
		assert.True(t, chunks[i].DecorationFlags().Has(participantCornerFlag(d)),
			"Участник %s должен быть помечен", d)
	}

	// Остальные углы по-прежнему не готовы
	assert.Nil(t, wm.DecideWhetherToDecorate(anchor))
}

// Сценарий: два потока конкурируют за один и тот же угол — побеждает
// ровно один, второй наблюдает занятость и ничего не мутирует.
func TestConcurrentCornerRace(t *testing.T) {
	dec := newCountingDecorator()
	wm := NewWorldManager(1, dec)

	for _, d := range Corners() {
		wm.EnsureChunk(d)
	}
	anchor := wm.LookupChunk(vec.Vec3{})

	var decorated int64
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if rs := wm.DecideWhetherToDecorate(anchor); rs != nil {
				atomic.AddInt64(&decorated, int64(wm.RunCornerDecoration(rs)))
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), decorated, "Угол должен быть декорирован ровно один раз")
	assert.Equal(t, 1, dec.maxPerSection(), "Ни одна секция не декорирована дважды")
	assert.Equal(t, 64+56, dec.total())
}

func TestCornerFlagDisagreementPanics(t *testing.T) {
	wm := NewWorldManager(1, nil)
	for _, d := range Corners() {
		wm.EnsureChunk(d)
	}
	anchor := wm.LookupChunk(vec.Vec3{})
	diagonal := wm.LookupChunk(one())

	// Ломаем инвариант вручную: флаг угла только у одного участника
	g, ok := diagonal.Core().TryAcquire(AccessWrite)
	assert.True(t, ok)
	diagonal.setDecorationFlag(participantCornerFlag(one()), g)
	g.Release()

	rs := wm.DecideWhetherToDecorate(anchor)
	assert.NotNil(t, rs)
	assert.Panics(t, func() {
		wm.RunCornerDecoration(rs)
	}, "Расхождение флагов участников — фатальное нарушение инварианта")
}

// Эвентуальная полнота: чанк со всеми 26 соседями декорируется целиком
// за конечное число проходов. Попутно проверяется монотонность флагов.
func TestEventualCompleteness(t *testing.T) {
	dec := newCountingDecorator()
	wm := NewWorldManager(1, dec)
	wm.Workers = 4

	for z := -1; z <= 1; z++ {
		for y := -1; y <= 1; y++ {
			for x := -1; x <= 1; x++ {
				wm.EnsureChunk(vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	center := wm.LookupChunk(vec.Vec3{})

	before := make(map[vec.Vec3]DecorationLevel)
	for _, c := range wm.ActiveChunks() {
		before[c.Coords] = c.DecorationFlags()
	}

	for i := 0; i < 50 && !center.IsFullyDecorated(); i++ {
		wm.DecorationPass()

		// Монотонность: биты только добавляются
		for _, c := range wm.ActiveChunks() {
			old := before[c.Coords]
			now := c.DecorationFlags()
			assert.True(t, now.Has(old), "Флаги чанка %s потеряли биты: %09b -> %09b",
				c.Coords, old, now)
			before[c.Coords] = now
		}
	}

	assert.True(t, center.IsFullyDecorated(),
		"Чанк со всеми соседями должен быть декорирован полностью")
	assert.Equal(t, 1, dec.maxPerSection(), "Ни одна секция не декорирована дважды")
}

func TestReadinessRespectsLocks(t *testing.T) {
	wm := NewWorldManager(1, nil)
	for _, d := range Corners() {
		wm.EnsureChunk(d)
	}
	anchor := wm.LookupChunk(vec.Vec3{})
	neighbor := wm.LookupChunk(one())

	// Занятый сосед исключает угол из готовых
	g, ok := neighbor.Core().TryAcquire(AccessRead)
	assert.True(t, ok)
	assert.Nil(t, wm.DecideWhetherToDecorate(anchor),
		"Угол с занятым участником не должен быть готов")

	g.Release()
	assert.NotNil(t, wm.DecideWhetherToDecorate(anchor))
}

func TestReadinessSeesBookkeepingAsAvailable(t *testing.T) {
	wm := NewWorldManager(1, nil)
	for _, d := range Corners() {
		wm.EnsureChunk(d)
	}
	anchor := wm.LookupChunk(vec.Vec3{})
	neighbor := wm.LookupChunk(one())
	enterBookkeeping(t, neighbor)

	// Write удерживается транзитным состоянием, но его можно украсть,
	// поэтому угол считается готовым и декорируется.
	rs := wm.DecideWhetherToDecorate(anchor)
	assert.NotNil(t, rs, "Bookkeeping-сосед не должен блокировать готовность")
	assert.Equal(t, 1, wm.RunCornerDecoration(rs))
	assert.Equal(t, LifecycleActive, neighbor.Lifecycle().Kind(),
		"Кража должна перевести соседа в Active")
}

func TestUnloadWaitsForDecoration(t *testing.T) {
	wm := NewWorldManager(1, nil)
	c := wm.EnsureChunk(vec.Vec3{})

	g, ok := c.Core().TryAcquire(AccessRead)
	assert.True(t, ok)
	assert.False(t, wm.UnloadChunk(c.Coords), "Выгрузка при живом читателе должна откладываться")

	g.Release()
	assert.True(t, wm.UnloadChunk(c.Coords))
	assert.Nil(t, wm.LookupChunk(c.Coords))
}
