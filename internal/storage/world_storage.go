package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

// ErrChunkBusy возвращается, когда ресурс чанка занят и снимок для
// сохранения сейчас снять нельзя. Не ошибка данных: вызывающий повторяет
// попытку на следующем цикле автосохранения.
var ErrChunkBusy = errors.New("ресурс чанка занят, сохранение отложено")

// WorldStorage — хранилище данных мира поверх BadgerDB. Персистит блоки
// секций (zstd-сжатый поток) и 9-битный набор флагов декорации дословно.
type WorldStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// chunkRecord — сериализованная форма чанка
type chunkRecord struct {
	Coords    vec.Vec3 `json:"coords"`
	Flags     uint16   `json:"flags"` // Набор флагов декорации, round-trip без интерпретации
	Generated bool     `json:"generated"`
	Blocks    []byte   `json:"blocks"` // zstd-сжатый LE-поток uint16 в фиксированном порядке секций
}

// NewWorldStorage создает хранилище мира в указанной директории
func NewWorldStorage(dataPath string) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd-кодер: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd-декодер: %w", err)
	}

	return &WorldStorage{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		enc:     enc,
		dec:     dec,
	}, nil
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}
	ws.isReady = false
	ws.enc.Close()
	ws.dec.Close()
	return ws.db.Close()
}

func chunkKey(coords vec.Vec3) []byte {
	return []byte(fmt.Sprintf("chunk:%d:%d:%d", coords.X, coords.Y, coords.Z))
}

// SaveChunk сохраняет чанк. Снимок снимается под Read на core; если core
// недоступен (идет декорация или чанк в транзитном состоянии), возвращает
// ErrChunkBusy.
func (ws *WorldStorage) SaveChunk(c *world.Chunk) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	g, ok := c.Core().TryAcquire(world.AccessRead)
	if !ok {
		return ErrChunkBusy
	}

	record := chunkRecord{
		Coords:    c.Coords,
		Flags:     uint16(c.DecorationFlags()),
		Generated: c.ContentGenerated(),
		Blocks:    ws.enc.EncodeAll(packSectionBlocks(c), nil),
	}
	g.Release()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("ошибка сериализации чанка %s: %w", c.Coords, err)
	}

	err = ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(c.Coords), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка записи чанка %s: %w", c.Coords, err)
	}
	return nil
}

// LoadChunk загружает чанк по координатам. Второй результат false, если
// чанк в хранилище отсутствует.
func (ws *WorldStorage) LoadChunk(coords vec.Vec3) (*world.Chunk, bool, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, false, fmt.Errorf("хранилище не готово")
	}

	var data []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(coords))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения чанка %s: %w", coords, err)
	}

	var record chunkRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false, fmt.Errorf("ошибка десериализации чанка %s: %w", coords, err)
	}

	raw, err := ws.dec.DecodeAll(record.Blocks, nil)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка распаковки блоков чанка %s: %w", coords, err)
	}

	c := world.NewRestoredChunk(record.Coords, world.DecorationLevel(record.Flags), record.Generated)
	if err := unpackSectionBlocks(c, raw); err != nil {
		return nil, false, fmt.Errorf("чанк %s: %w", coords, err)
	}
	return c, true, nil
}

// SaveAll сохраняет все переданные чанки; занятые пропускает.
// Возвращает число сохраненных.
func (ws *WorldStorage) SaveAll(chunks []*world.Chunk) (int, error) {
	saved := 0
	for _, c := range chunks {
		err := ws.SaveChunk(c)
		if errors.Is(err, ErrChunkBusy) {
			continue
		}
		if err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

// packSectionBlocks сериализует блоки всех секций чанка в LE-поток uint16
// в фиксированном порядке (секции и блоки: X, затем Y, затем Z)
func packSectionBlocks(c *world.Chunk) []byte {
	n := world.SectionsPerChunk
	s := world.SectionSize
	buf := make([]byte, 0, n*n*n*s*s*s*2)
	var tmp [2]byte

	for sx := 0; sx < n; sx++ {
		for sy := 0; sy < n; sy++ {
			for sz := 0; sz < n; sz++ {
				sec := c.Section(vec.Vec3{X: sx, Y: sy, Z: sz})
				for x := 0; x < s; x++ {
					for y := 0; y < s; y++ {
						for z := 0; z < s; z++ {
							binary.LittleEndian.PutUint16(tmp[:], uint16(sec.Get(x, y, z)))
							buf = append(buf, tmp[0], tmp[1])
						}
					}
				}
			}
		}
	}
	return buf
}

// unpackSectionBlocks восстанавливает блоки секций из LE-потока uint16
func unpackSectionBlocks(c *world.Chunk, raw []byte) error {
	n := world.SectionsPerChunk
	s := world.SectionSize
	want := n * n * n * s * s * s * 2
	if len(raw) != want {
		return fmt.Errorf("неверный размер данных блоков: %d вместо %d", len(raw), want)
	}

	i := 0
	for sx := 0; sx < n; sx++ {
		for sy := 0; sy < n; sy++ {
			for sz := 0; sz < n; sz++ {
				sec := c.Section(vec.Vec3{X: sx, Y: sy, Z: sz})
				for x := 0; x < s; x++ {
					for y := 0; y < s; y++ {
						for z := 0; z < s; z++ {
							sec.Set(x, y, z, block.BlockID(binary.LittleEndian.Uint16(raw[i:])))
							i += 2
						}
					}
				}
			}
		}
	}
	return nil
}
