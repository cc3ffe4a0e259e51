package vec

import "testing"

func TestFloorDivNegative(t *testing.T) {
	cases := []struct {
		a, b, div, mod int
	}{
		{7, 4, 1, 3},
		{4, 4, 1, 0},
		{0, 4, 0, 0},
		{-1, 4, -1, 3},
		{-4, 4, -1, 0},
		{-5, 4, -2, 3},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.div {
			t.Errorf("FloorDiv(%d, %d) = %d, ожидалось %d", c.a, c.b, got, c.div)
		}
		if got := Mod(c.a, c.b); got != c.mod {
			t.Errorf("Mod(%d, %d) = %d, ожидалось %d", c.a, c.b, got, c.mod)
		}
	}
}

func TestVecDivFloorMod(t *testing.T) {
	v := Vec3{X: -5, Y: 7, Z: 0}
	if got := v.DivFloor(4); !got.Equals(Vec3{X: -2, Y: 1, Z: 0}) {
		t.Errorf("DivFloor: получено %s", got)
	}
	if got := v.ModFloor(4); !got.Equals(Vec3{X: 3, Y: 3, Z: 0}) {
		t.Errorf("ModFloor: получено %s", got)
	}

	// Деление и остаток восстанавливают исходный вектор
	restored := v.DivFloor(4).Mul(4).Add(v.ModFloor(4))
	if !restored.Equals(v) {
		t.Errorf("DivFloor*b + ModFloor должно давать исходный вектор, получено %s", restored)
	}
}

func TestVecLessLexicographic(t *testing.T) {
	ordered := []Vec3{
		{X: -1, Y: 5, Z: 5},
		{X: 0, Y: -1, Z: 9},
		{X: 0, Y: 0, Z: -1},
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: -9, Z: -9},
	}
	for i := 0; i < len(ordered)-1; i++ {
		if !ordered[i].Less(ordered[i+1]) {
			t.Errorf("%s должен быть меньше %s", ordered[i], ordered[i+1])
		}
		if ordered[i+1].Less(ordered[i]) {
			t.Errorf("%s не должен быть меньше %s", ordered[i+1], ordered[i])
		}
	}
	v := Vec3{X: 1, Y: 2, Z: 3}
	if v.Less(v) {
		t.Error("Вектор не должен быть меньше самого себя")
	}
}
