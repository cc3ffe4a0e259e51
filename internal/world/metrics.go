package world

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики подсистемы декорации. Регистрируются в дефолтном регистре один
// раз при инициализации пакета; эндпоинт /metrics поднимает cmd/server.
//
// * world_corners_decorated_total — завершенные угловые проходы
// * world_sections_decorated_total — декорированные секции (центр + углы)
// * world_decoration_contention_total — углы, пропущенные из-за занятости ресурсов
// * world_chunks_generated_total — сгенерированные чанки
// * world_chunks_active — текущее число чанков в арене
var (
	cornersDecorated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "corners_decorated_total",
		Help:      "Общее число завершенных угловых декораций.",
	})
	sectionsDecorated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "sections_decorated_total",
		Help:      "Общее число декорированных секций.",
	})
	decorationContention = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "decoration_contention_total",
		Help:      "Число угловых попыток, пропущенных из-за занятых ресурсов.",
	})
	chunksGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "chunks_generated_total",
		Help:      "Общее число сгенерированных чанков.",
	})
	chunksActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "world",
		Name:      "chunks_active",
		Help:      "Текущее число чанков в арене мира.",
	})
)
