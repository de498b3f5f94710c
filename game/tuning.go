package game

// 内置关卡的默认参数，客户端依赖这些数值
const (
	LevelWidth     = 1600.0
	LevelHeight    = 600.0
	TicksPerSecond = 60

	Gravity       = 1.2   // 每 Tick 叠加到 vy
	MoveSpeed     = 5.0   // 按住方向时的水平速度
	JumpImpulse   = -18.0 // 着地起跳时的 vy
	StompBounce   = -10.0 // 踩死敌人后的反弹 vy
	EnemySpeed    = 2.0   // 每 Tick 巡逻速度
	StompReward   = 100
	CoinReward    = 50
	PlayerWidth   = 23.0
	PlayerHeight  = 48.0
	SpawnX        = 50.0
	SpawnY        = 500.0
	StartingLives = 3
	EnemyRespawnY = 520.0 // 掉出关卡的敌人在此高度重现
)

// Tuning 世界的物理与计分参数
type Tuning struct {
	Gravity       float64 `yaml:"gravity" json:"gravity"`
	MoveSpeed     float64 `yaml:"move_speed" json:"move_speed"`
	JumpImpulse   float64 `yaml:"jump_impulse" json:"jump_impulse"`
	StompBounce   float64 `yaml:"stomp_bounce" json:"stomp_bounce"`
	EnemySpeed    float64 `yaml:"enemy_speed" json:"enemy_speed"`
	StompReward   int     `yaml:"stomp_reward" json:"stomp_reward"`
	CoinReward    int     `yaml:"coin_reward" json:"coin_reward"`
	PlayerWidth   float64 `yaml:"player_width" json:"player_width"`
	PlayerHeight  float64 `yaml:"player_height" json:"player_height"`
	SpawnX        float64 `yaml:"spawn_x" json:"spawn_x"`
	SpawnY        float64 `yaml:"spawn_y" json:"spawn_y"`
	StartingLives int     `yaml:"starting_lives" json:"starting_lives"`
	EnemyRespawnY float64 `yaml:"enemy_respawn_y" json:"enemy_respawn_y"`
}

// DefaultTuning 返回内置参数
func DefaultTuning() Tuning {
	return Tuning{
		Gravity:       Gravity,
		MoveSpeed:     MoveSpeed,
		JumpImpulse:   JumpImpulse,
		StompBounce:   StompBounce,
		EnemySpeed:    EnemySpeed,
		StompReward:   StompReward,
		CoinReward:    CoinReward,
		PlayerWidth:   PlayerWidth,
		PlayerHeight:  PlayerHeight,
		SpawnX:        SpawnX,
		SpawnY:        SpawnY,
		StartingLives: StartingLives,
		EnemyRespawnY: EnemyRespawnY,
	}
}

// TuningPatch 部分更新，nil 字段保持不变
// 玩家尺寸与出生点在世界生命周期内固定
type TuningPatch struct {
	Gravity     *float64 `json:"gravity,omitempty"`
	MoveSpeed   *float64 `json:"move_speed,omitempty"`
	JumpImpulse *float64 `json:"jump_impulse,omitempty"`
	StompBounce *float64 `json:"stomp_bounce,omitempty"`
	EnemySpeed  *float64 `json:"enemy_speed,omitempty"`
	StompReward *int     `json:"stomp_reward,omitempty"`
	CoinReward  *int     `json:"coin_reward,omitempty"`
}

// Empty 补丁是否不修改任何字段
func (p TuningPatch) Empty() bool {
	return p.Gravity == nil && p.MoveSpeed == nil && p.JumpImpulse == nil &&
		p.StompBounce == nil && p.EnemySpeed == nil && p.StompReward == nil && p.CoinReward == nil
}

// Apply 将 p 中已设置的字段写入 t
func (t *Tuning) Apply(p TuningPatch) {
	if p.Gravity != nil {
		t.Gravity = *p.Gravity
	}
	if p.MoveSpeed != nil {
		t.MoveSpeed = *p.MoveSpeed
	}
	if p.JumpImpulse != nil {
		t.JumpImpulse = *p.JumpImpulse
	}
	if p.StompBounce != nil {
		t.StompBounce = *p.StompBounce
	}
	if p.EnemySpeed != nil {
		t.EnemySpeed = *p.EnemySpeed
	}
	if p.StompReward != nil {
		t.StompReward = *p.StompReward
	}
	if p.CoinReward != nil {
		t.CoinReward = *p.CoinReward
	}
}
