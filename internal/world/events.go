package world

import (
	"context"
	"encoding/json"

	"github.com/annel0/voxel-world/internal/eventbus"
	"github.com/annel0/voxel-world/internal/vec"
)

// Типы событий, публикуемых миром в шину.
const (
	EventChunkGenerated  = "ChunkGenerated"
	EventCornerDecorated = "CornerDecorated"
	EventChunkDecorated  = "ChunkDecorated"
)

const eventSource = "world"

// ChunkGeneratedEvent публикуется после генерации содержимого чанка
// и его центральной декорации.
type ChunkGeneratedEvent struct {
	Coords vec.Vec3 `json:"coords"`
}

// CornerDecoratedEvent публикуется после фиксации углового прохода.
type CornerDecoratedEvent struct {
	Anchor vec.Vec3 `json:"anchor"`
	Corner vec.Vec3 `json:"corner"`
}

// ChunkDecoratedEvent публикуется, когда у чанка выставлены все 9 флагов.
type ChunkDecoratedEvent struct {
	Coords vec.Vec3 `json:"coords"`
}

// publish сериализует полезную нагрузку и отправляет конверт в шину.
// Шина опциональна: без нее события просто не публикуются.
func (wm *WorldManager) publish(eventType string, payload any) {
	if wm.bus == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = wm.bus.Publish(context.Background(), eventbus.NewEnvelope(eventSource, eventType, data))
}

func (wm *WorldManager) publishChunkGenerated(c *Chunk) {
	wm.publish(EventChunkGenerated, ChunkGeneratedEvent{Coords: c.Coords})
}

func (wm *WorldManager) publishCornerDecorated(anchor *Chunk, corner vec.Vec3) {
	wm.publish(EventCornerDecorated, CornerDecoratedEvent{Anchor: anchor.Coords, Corner: corner})
}

func (wm *WorldManager) publishChunkDecorated(c *Chunk) {
	wm.publish(EventChunkDecorated, ChunkDecoratedEvent{Coords: c.Coords})
}
