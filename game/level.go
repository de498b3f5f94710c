package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

//go:embed levels/default.yaml
var defaultLevelYAML []byte

// ObjectDef 关卡文件中的一个平台、敌人或金币
type ObjectDef struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Color     string  `yaml:"color"`
	Direction int     `yaml:"direction,omitempty"` // 仅敌人
}

func (d ObjectDef) rect() Rect {
	return Rect{X: d.X, Y: d.Y, Width: d.Width, Height: d.Height}
}

// Level 构建 World 所用的静态关卡描述
type Level struct {
	Name      string      `yaml:"name"`
	Width     float64     `yaml:"width"`
	Height    float64     `yaml:"height"`
	Physics   Tuning      `yaml:"physics"`
	Platforms []ObjectDef `yaml:"platforms"`
	Enemies   []ObjectDef `yaml:"enemies"`
	Coins     []ObjectDef `yaml:"coins"`
}

// DefaultLevel 返回内嵌的默认关卡
func DefaultLevel() Level {
	lvl, err := ParseLevel(defaultLevelYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded level: %v", err))
	}
	return lvl
}

// LoadLevel 读取关卡文件，路径为空时使用内嵌关卡
func LoadLevel(path string) (Level, error) {
	if path == "" {
		return DefaultLevel(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("failed to read level %s: %w", path, err)
	}
	lvl, err := ParseLevel(data)
	if err != nil {
		return Level{}, fmt.Errorf("failed to parse level %s: %w", path, err)
	}
	return lvl, nil
}

// ParseLevel 解析并校验关卡，缺失的物理参数保留内置默认值
func ParseLevel(data []byte) (Level, error) {
	lvl := Level{
		Width:   LevelWidth,
		Height:  LevelHeight,
		Physics: DefaultTuning(),
	}
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return Level{}, err
	}
	if err := lvl.Validate(); err != nil {
		return Level{}, err
	}
	return lvl, nil
}

// Validate 检查关卡是否可以模拟
func (l Level) Validate() error {
	var errs error
	if l.Width <= 0 || l.Height <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("level size %vx%v must be positive", l.Width, l.Height))
	}
	if l.Physics.PlayerWidth <= 0 || l.Physics.PlayerHeight <= 0 {
		errs = multierr.Append(errs, errors.New("player size must be positive"))
	}
	if l.Physics.PlayerWidth > l.Width {
		errs = multierr.Append(errs, errors.New("player is wider than the level"))
	}
	if l.Physics.StartingLives < 0 {
		errs = multierr.Append(errs, errors.New("starting lives must not be negative"))
	}
	check := func(kind string, defs []ObjectDef) {
		for i, d := range defs {
			if d.Width <= 0 || d.Height <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s %d: size must be positive", kind, i))
			}
		}
	}
	check("platform", l.Platforms)
	check("enemy", l.Enemies)
	check("coin", l.Coins)
	return errs
}
