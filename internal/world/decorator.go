package world

// SectionDecorator — внешний коллаборатор, выполняющий собственно
// декорацию (размещение деталей ландшафта). Контракты:
//   - вызывается не более одного раза для каждой секции за все время
//     жизни мира;
//   - работает уже под guard'ами чанков и не должен сам захватывать
//     ресурсы чанков;
//   - мутирует только центральную секцию переданной окрестности,
//     соседние секции доступны только для чтения.
type SectionDecorator interface {
	DecorateSection(n *Neighborhood[*Section])
}

// NopDecorator — декоратор по умолчанию, не размещающий ничего.
// Аналог пустого генератора: мир остается сырым ландшафтом.
type NopDecorator struct{}

func (NopDecorator) DecorateSection(*Neighborhood[*Section]) {}
