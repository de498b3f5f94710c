package game

// ObjectKind 世界物体在协议中的类型标签
type ObjectKind string

const (
	KindPlatform ObjectKind = "platform"
	KindEnemy    ObjectKind = "enemy"
	KindCoin     ObjectKind = "coin"
)

// Object 关卡中除玩家外的物体，具体类型为 *Platform、*Enemy、*Coin
type Object interface {
	Kind() ObjectKind
	Bounds() Rect
	isObject()
}

// Platform 静态地形，永不移除
type Platform struct {
	Rect
	Color string
}

// Enemy 水平巡逻，受重力下落
type Enemy struct {
	Rect
	Color     string
	Direction int // +1 向右，-1 向左
	VY        float64
	OnGround  bool

	consumed bool
}

// Coin 接触即拾取
type Coin struct {
	Rect
	Color string

	consumed bool
}

func (*Platform) Kind() ObjectKind { return KindPlatform }
func (*Enemy) Kind() ObjectKind    { return KindEnemy }
func (*Coin) Kind() ObjectKind     { return KindCoin }

func (p *Platform) Bounds() Rect { return p.Rect }
func (e *Enemy) Bounds() Rect    { return e.Rect }
func (c *Coin) Bounds() Rect     { return c.Rect }

func (*Platform) isObject() {}
func (*Enemy) isObject()    {}
func (*Coin) isObject()     {}

// Consumed 本 Tick 是否已被踩死、等待从世界中压缩移除
func (e *Enemy) Consumed() bool { return e.consumed }

// Consumed 本 Tick 是否已被拾取
func (c *Coin) Consumed() bool { return c.consumed }

func isConsumed(obj Object) bool {
	switch o := obj.(type) {
	case *Enemy:
		return o.consumed
	case *Coin:
		return o.consumed
	default:
		return false
	}
}
