package vec

import "fmt"

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Используется и для позиций чанков, и для позиций секций, и для
// относительных смещений внутри окрестностей.
type Vec3 struct {
	X int
	Y int
	Z int
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub вычитает другой вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Mul умножает все компоненты на скаляр
func (v Vec3) Mul(n int) Vec3 {
	return Vec3{X: v.X * n, Y: v.Y * n, Z: v.Z * n}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Less задает лексикографический порядок (X, затем Y, затем Z).
// Нужен для детерминированного порядка захвата ресурсов.
func (v Vec3) Less(other Vec3) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	return v.Z < other.Z
}

// String возвращает строковое представление вектора
func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// FloorDiv делит с округлением вниз (в отличие от деления Go,
// которое округляет к нулю). Для отрицательных координат обычное
// деление дает не тот чанк.
func FloorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}

// Mod возвращает неотрицательный остаток от деления на n
func Mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// DivFloor делит все компоненты с округлением вниз
func (v Vec3) DivFloor(n int) Vec3 {
	return Vec3{
		X: FloorDiv(v.X, n),
		Y: FloorDiv(v.Y, n),
		Z: FloorDiv(v.Z, n),
	}
}

// ModFloor возвращает покомпонентный неотрицательный остаток
func (v Vec3) ModFloor(n int) Vec3 {
	return Vec3{
		X: Mod(v.X, n),
		Y: Mod(v.Y, n),
		Z: Mod(v.Z, n),
	}
}
