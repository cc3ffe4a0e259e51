package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Envelope — универсальный контейнер события мира.
type Envelope struct {
	ID        string            // Глобально уникальный идентификатор (UUID)
	Timestamp time.Time         // Время создания события (UTC)
	Source    string            // Имя компонента-источника
	EventType string            // Тип события (ChunkGenerated, CornerDecorated…)
	Payload   []byte            // Сериализованная полезная нагрузка (JSON)
	Metadata  map[string]string // Произвольные метаданные
}

// NewEnvelope создает конверт с заполненными ID и временной меткой
func NewEnvelope(source, eventType string, payload []byte) *Envelope {
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Payload:   payload,
	}
}

// Filter позволяет подписаться только на нужные события.
type Filter struct {
	Types   []string // Если пусто — все типы
	Sources []string // Если пусто — все источники
}

// Subscription возвращается при подписке; позволяет отписаться.
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события.
type Handler func(ctx context.Context, ev *Envelope)

// Stats агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// EventBus определяет абстракцию шины событий. Мир публикует события
// декорации через нее; подписчики (логирование, статистика) потребляют.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
}

//================ In-Memory implementation =================//

type memoryBus struct {
	mu          sync.RWMutex
	subscribers map[int]subscriber
	nextID      int
	stats       Stats
	buffer      chan *Envelope
}

type subscriber struct {
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewMemoryBus создает in-memory шину с указанным буфером.
// События декорации информационные: при переполнении буфера событие
// отбрасывается, а не блокирует публикующего.
func NewMemoryBus(capacity int) EventBus {
	mb := &memoryBus{
		subscribers: make(map[int]subscriber),
		buffer:      make(chan *Envelope, capacity),
	}
	go mb.dispatchLoop()
	return mb
}

func (mb *memoryBus) Publish(_ context.Context, ev *Envelope) error {
	select {
	case mb.buffer <- ev:
		mb.mu.Lock()
		mb.stats.Published++
		mb.mu.Unlock()
	default:
		mb.mu.Lock()
		mb.stats.Dropped++
		mb.mu.Unlock()
	}
	return nil
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	mb.mu.Lock()
	id := mb.nextID
	mb.nextID++
	cctx, cancel := context.WithCancel(ctx)
	mb.subscribers[id] = subscriber{filter: f, handler: h, ctx: cctx, cancel: cancel}
	mb.mu.Unlock()

	return &memSub{bus: mb, id: id}, nil
}

func (mb *memoryBus) Metrics() Stats {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	s := mb.stats
	s.InFlight = len(mb.buffer)
	return s
}

// dispatchLoop рассылает события подписчикам
func (mb *memoryBus) dispatchLoop() {
	for ev := range mb.buffer {
		mb.mu.RLock()
		subs := make([]subscriber, 0, len(mb.subscribers))
		for _, sub := range mb.subscribers {
			subs = append(subs, sub)
		}
		mb.mu.RUnlock()

		for _, sub := range subs {
			if !matchFilter(ev, sub.filter) {
				continue
			}
			select {
			case <-sub.ctx.Done():
			default:
				sub.handler(sub.ctx, ev)
				mb.mu.Lock()
				mb.stats.Consumed++
				mb.mu.Unlock()
			}
		}
	}
}

func matchFilter(ev *Envelope, f Filter) bool {
	match := func(val string, arr []string) bool {
		if len(arr) == 0 {
			return true
		}
		for _, v := range arr {
			if v == val {
				return true
			}
		}
		return false
	}
	return match(ev.EventType, f.Types) && match(ev.Source, f.Sources)
}

type memSub struct {
	bus *memoryBus
	id  int
}

func (s *memSub) Unsubscribe() {
	s.bus.mu.Lock()
	if sub, ok := s.bus.subscribers[s.id]; ok {
		sub.cancel()
		delete(s.bus.subscribers, s.id)
	}
	s.bus.mu.Unlock()
}
