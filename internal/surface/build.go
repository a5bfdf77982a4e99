package surface

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/phinze/gesturedeck/internal/action"
	"github.com/phinze/gesturedeck/internal/config"
	"github.com/phinze/gesturedeck/internal/gesture"
)

// Build creates a surface from its configuration, registering gestures in
// configuration order. Surfaces without an ID get a random one. runner may be
// nil, in which case bound commands are ignored.
func Build(cfg config.SurfaceConfig, runner *action.Runner) (*Surface, error) {
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	rect := cfg.Rectangle()
	if rect.Empty() {
		return nil, fmt.Errorf("surface %s: empty rect %v", id, cfg.Rect)
	}

	s := New(id, cfg.Label, rect)
	for i, g := range cfg.Gestures {
		respond := bind(runner, fmt.Sprintf("%s/%s#%d", id, g.Type, i), g.Command)

		switch g.Type {
		case config.GestureTap:
			s.AddTap(g.Taps, g.MaxDelta, respond)
		case config.GestureLongPress:
			s.AddLongPress(g.HoldTicks, g.MaxDelta, respond)
		case config.GesturePan:
			s.AddPan(g.MaxDelta, respond)
		default:
			return nil, fmt.Errorf("surface %s gesture %d: unknown type %q", id, i, g.Type)
		}
	}
	return s, nil
}

// BuildAll builds every configured surface in order.
func BuildAll(cfgs []config.SurfaceConfig, runner *action.Runner) ([]*Surface, error) {
	out := make([]*Surface, 0, len(cfgs))
	for _, c := range cfgs {
		s, err := Build(c, runner)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func bind(runner *action.Runner, source string, argv []string) gesture.Response {
	if runner == nil {
		return nil
	}
	if fn := runner.Bind(source, argv); fn != nil {
		return fn
	}
	return nil
}
