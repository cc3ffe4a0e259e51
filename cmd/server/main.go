package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-world/internal/config"
	"github.com/annel0/voxel-world/internal/decor"
	"github.com/annel0/voxel-world/internal/eventbus"
	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/storage"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации")
	flag.Parse()

	if err := logging.InitDefaultLogger("server"); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка инициализации логирования: %v\n", err)
		os.Exit(1)
	}
	defer logging.CloseDefaultLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("Ошибка загрузки конфигурации: %v", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = &config.Config{} // конфиг не задан — использовать дефолты
	}

	seed := cfg.World.GetSeed()
	logging.Info("Запуск сервера мира: сид=%d, данные=%s", seed, cfg.World.GetDataPath())

	// === ХРАНИЛИЩЕ ===
	store, err := storage.NewWorldStorage(cfg.World.GetDataPath())
	if err != nil {
		logging.Error("Ошибка открытия хранилища: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	// === ШИНА СОБЫТИЙ ===
	bus := eventbus.NewMemoryBus(1024)
	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("Не удалось подключить слушатель событий: %v", err)
	}

	// === МИР ===
	wm := world.NewWorldManager(seed, decor.NewDecorator(seed))
	wm.SetEventBus(bus)
	wm.Workers = cfg.Decoration.GetWorkers()
	wm.TickInterval = time.Duration(cfg.Decoration.GetTickMillis()) * time.Millisecond

	// Предзагрузка области вокруг начала координат: сохраненные чанки
	// восстанавливаются из хранилища, остальные генерируются заново.
	radius := cfg.World.GetSpawnRadius()
	loaded, generated := 0, 0
	for x := -radius; x <= radius; x++ {
		for y := -1; y <= 1; y++ {
			for z := -radius; z <= radius; z++ {
				pos := vec.Vec3{X: x, Y: y, Z: z}
				if c, found, err := store.LoadChunk(pos); err != nil {
					logging.Error("Ошибка загрузки чанка %s: %v", pos, err)
				} else if found {
					wm.AdoptChunk(c)
					loaded++
					continue
				}
				wm.EnsureChunk(pos)
				generated++
			}
		}
	}
	logging.Info("Предзагрузка завершена: %d из хранилища, %d сгенерировано", loaded, generated)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wm.Run(ctx)

	// === МЕТРИКИ ===
	metricsAddr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		logging.Info("Метрики: http://localhost%s/metrics", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Ошибка сервера метрик: %v", err)
		}
	}()

	// === АВТОСОХРАНЕНИЕ ===
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if saved, err := store.SaveAll(wm.ActiveChunks()); err != nil {
					logging.Error("Ошибка автосохранения: %v", err)
				} else {
					logging.Debug("Автосохранение: %d чанков", saved)
				}
			}
		}
	}()

	logging.Info("Сервер мира запущен")

	// Ожидание сигнала завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logging.Info("Завершение работы...")
	wm.Stop()
	cancel()

	if saved, err := store.SaveAll(wm.ActiveChunks()); err != nil {
		logging.Error("Ошибка финального сохранения: %v", err)
	} else {
		logging.Info("Финальное сохранение: %d чанков", saved)
	}
}
