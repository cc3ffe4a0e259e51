package block

// BlockID идентификатор типа блока
type BlockID uint16

// Идентификаторы базовых блоков. Палитра фиксирована: генератор кладет
// сырой ландшафт (камень, земля, вода), декоратор добавляет детали
// (растительность, руды) поверх него.
const (
	AirBlockID BlockID = iota
	StoneBlockID
	DirtBlockID
	GrassBlockID
	SandBlockID
	WaterBlockID
	SnowBlockID
	WoodBlockID
	LeavesBlockID
	CactusBlockID
	FlowerBlockID
	TallGrassBlockID
	CoalOreBlockID
	IronOreBlockID
	CopperOreBlockID
)

// IsAir сообщает, пустой ли блок
func IsAir(id BlockID) bool {
	return id == AirBlockID
}

// IsSolid сообщает, является ли блок твердым (на нем может стоять декорация)
func IsSolid(id BlockID) bool {
	switch id {
	case AirBlockID, WaterBlockID, FlowerBlockID, TallGrassBlockID:
		return false
	default:
		return true
	}
}

// IsReplaceable сообщает, может ли декоратор перезаписать блок.
// Сырой ландшафт (камень, земля) декорация не трогает, кроме жил руды.
func IsReplaceable(id BlockID) bool {
	switch id {
	case AirBlockID, TallGrassBlockID, FlowerBlockID:
		return true
	default:
		return false
	}
}

// IsOreHost сообщает, может ли в блоке образоваться рудная жила
func IsOreHost(id BlockID) bool {
	return id == StoneBlockID
}
