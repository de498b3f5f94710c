package game

// Rect 轴对齐矩形，X,Y 为左上角，Y 轴向下增长
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Right 右边缘的 x 坐标
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom 下边缘的 y 坐标
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Overlaps 判断 a 与 b 是否相交（严格不等，仅边缘接触不算重叠）
func Overlaps(a, b Rect) bool {
	return a.X < b.Right() &&
		a.Right() > b.X &&
		a.Y < b.Bottom() &&
		a.Bottom() > b.Y
}
