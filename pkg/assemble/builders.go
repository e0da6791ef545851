package assemble

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/composite"
	"github.com/aretw0/arbor/pkg/decorator"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
)

// decode maps a node's config block onto a typed struct.
func decode(config map[string]any, out any) error {
	if err := mapstructure.Decode(config, out); err != nil {
		return fmt.Errorf("invalid node config: %w", err)
	}
	return nil
}

func parseStatus(s string) (domain.Status, error) {
	switch domain.Status(s) {
	case domain.StatusSuccess, domain.StatusRunning, domain.StatusFailure, domain.StatusInvalid:
		return domain.Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

type baseConfig struct {
	Name string `mapstructure:"name"`
}

func name(config map[string]any, fallback string) string {
	var cfg baseConfig
	if err := mapstructure.Decode(config, &cfg); err == nil && cfg.Name != "" {
		return cfg.Name
	}
	return fallback
}

func exactlyOne(kind string, children []behaviour.Node) (behaviour.Node, error) {
	if len(children) != 1 {
		return nil, fmt.Errorf("%s wraps exactly one child, got %d", kind, len(children))
	}
	return children[0], nil
}

// leaf registers a kind for a child-less behaviour.
func leaf(r *registry.Registry, kind string, build func(board *blackboard.Blackboard, config map[string]any) (behaviour.Node, error)) {
	r.Register(kind, func(board *blackboard.Blackboard, config map[string]any, children []behaviour.Node) (behaviour.Node, error) {
		if len(children) != 0 {
			return nil, fmt.Errorf("%s takes no children", kind)
		}
		return build(board, config)
	})
}

// wrapper registers a kind for a single-child decorator.
func wrapper(r *registry.Registry, kind string, build func(board *blackboard.Blackboard, config map[string]any, child behaviour.Node) (behaviour.Node, error)) {
	r.Register(kind, func(board *blackboard.Blackboard, config map[string]any, children []behaviour.Node) (behaviour.Node, error) {
		child, err := exactlyOne(kind, children)
		if err != nil {
			return nil, err
		}
		return build(board, config, child)
	})
}

type compositeConfig struct {
	Name   string `mapstructure:"name"`
	Memory *bool  `mapstructure:"memory"`
}

func compositeOptions(cfg compositeConfig) []composite.Option {
	if cfg.Memory != nil && !*cfg.Memory {
		return []composite.Option{composite.WithoutMemory()}
	}
	return nil
}

type variableConfig struct {
	Name     string `mapstructure:"name"`
	Variable string `mapstructure:"variable"`
	Value    any    `mapstructure:"value"`
	Expected any    `mapstructure:"expected"`
	Policy   string `mapstructure:"policy"`
}

func checkOptions(cfg variableConfig) ([]behaviour.CheckOption, error) {
	var opts []behaviour.CheckOption
	if cfg.Expected != nil {
		opts = append(opts, behaviour.WithExpectedValue(cfg.Expected))
	}
	if cfg.Policy != "" {
		switch policy := domain.ClearingPolicy(cfg.Policy); policy {
		case domain.ClearOnInitialise, domain.ClearOnSuccess, domain.ClearNever:
			opts = append(opts, behaviour.WithClearingPolicy(policy))
		default:
			return nil, fmt.Errorf("unknown clearing policy %q", cfg.Policy)
		}
	}
	return opts, nil
}

// defaultRegistry wires the built-in node kinds.
func defaultRegistry() *registry.Registry {
	r := registry.New()

	r.Register("sequence", func(board *blackboard.Blackboard, config map[string]any, children []behaviour.Node) (behaviour.Node, error) {
		var cfg compositeConfig
		if err := decode(config, &cfg); err != nil {
			return nil, err
		}
		return composite.NewSequence(name(config, "sequence"), children, compositeOptions(cfg)...), nil
	})
	r.Register("selector", func(board *blackboard.Blackboard, config map[string]any, children []behaviour.Node) (behaviour.Node, error) {
		var cfg compositeConfig
		if err := decode(config, &cfg); err != nil {
			return nil, err
		}
		return composite.NewSelector(name(config, "selector"), children, compositeOptions(cfg)...), nil
	})

	leaf(r, "success", func(_ *blackboard.Blackboard, config map[string]any) (behaviour.Node, error) {
		return behaviour.NewSuccess(name(config, "success")), nil
	})
	leaf(r, "failure", func(_ *blackboard.Blackboard, config map[string]any) (behaviour.Node, error) {
		return behaviour.NewFailure(name(config, "failure")), nil
	})
	leaf(r, "running", func(_ *blackboard.Blackboard, config map[string]any) (behaviour.Node, error) {
		return behaviour.NewRunning(name(config, "running")), nil
	})
	leaf(r, "dummy", func(_ *blackboard.Blackboard, config map[string]any) (behaviour.Node, error) {
		return behaviour.NewDummy(name(config, "dummy")), nil
	})
	leaf(r, "periodic", func(_ *blackboard.Blackboard, config map[string]any) (behaviour.Node, error) {
		var cfg struct {
			Name   string `mapstructure:"name"`
			Period int    `mapstructure:"period"`
		}
		if err := decode(config, &cfg); err != nil {
			return nil, err
		}
		return behaviour.NewPeriodic(name(config, "periodic"), cfg.Period), nil
	})
	leaf(r, "success-every-n", func(_ *blackboard.Blackboard, config map[string]any) (behaviour.Node, error) {
		var cfg struct {
			Name string `mapstructure:"name"`
			N    int    `mapstructure:"n"`
		}
		if err := decode(config, &cfg); err != nil {
			return nil, err
		}
		return behaviour.NewSuccessEveryN(name(config, "success-every-n"), cfg.N), nil
	})
	leaf(r, "count", func(_ *blackboard.Blackboard, config map[string]any) (behaviour.Node, error) {
		var cfg struct {
			Name         string `mapstructure:"name"`
			FailUntil    int    `mapstructure:"fail_until"`
			RunningUntil int    `mapstructure:"running_until"`
			SuccessUntil int    `mapstructure:"success_until"`
			Reset        *bool  `mapstructure:"reset"`
		}
		if err := decode(config, &cfg); err != nil {
			return nil, err
		}
		reset := cfg.Reset == nil || *cfg.Reset
		return behaviour.NewCount(name(config, "count"), cfg.FailUntil, cfg.RunningUntil, cfg.SuccessUntil, reset), nil
	})

	leaf(r, "set-variable", func(board *blackboard.Blackboard, config map[string]any) (behaviour.Node, error) {
		var cfg variableConfig
		if err := decode(config, &cfg); err != nil {
			return nil, err
		}
		return behaviour.NewSetVariable(board, name(config, "set-variable"), cfg.Variable, cfg.Value), nil
	})
	leaf(r, "clear-variable", func(board *blackboard.Blackboard, config map[string]any) (behaviour.Node, error) {
		var cfg variableConfig
		if err := decode(config, &cfg); err != nil {
			return nil, err
		}
		return behaviour.NewClearVariable(board, name(config, "clear-variable"), cfg.Variable), nil
	})
	leaf(r, "check-variable", func(board *blackboard.Blackboard, config map[string]any) (behaviour.Node, error) {
		var cfg variableConfig
		if err := decode(config, &cfg); err != nil {
			return nil, err
		}
		opts, err := checkOptions(cfg)
		if err != nil {
			return nil, err
		}
		return behaviour.NewCheckVariable(board, name(config, "check-variable"), cfg.Variable, opts...), nil
	})
	leaf(r, "wait-for-variable", func(board *blackboard.Blackboard, config map[string]any) (behaviour.Node, error) {
		var cfg variableConfig
		if err := decode(config, &cfg); err != nil {
			return nil, err
		}
		opts, err := checkOptions(cfg)
		if err != nil {
			return nil, err
		}
		return behaviour.NewWaitForVariable(board, name(config, "wait-for-variable"), cfg.Variable, opts...), nil
	})

	wrapper(r, "inverter", func(_ *blackboard.Blackboard, _ map[string]any, child behaviour.Node) (behaviour.Node, error) {
		return decorator.NewInverter(child), nil
	})
	wrapper(r, "failure-is-running", func(_ *blackboard.Blackboard, _ map[string]any, child behaviour.Node) (behaviour.Node, error) {
		return decorator.NewFailureIsRunning(child), nil
	})
	wrapper(r, "failure-is-success", func(_ *blackboard.Blackboard, _ map[string]any, child behaviour.Node) (behaviour.Node, error) {
		return decorator.NewFailureIsSuccess(child), nil
	})
	wrapper(r, "running-is-failure", func(_ *blackboard.Blackboard, _ map[string]any, child behaviour.Node) (behaviour.Node, error) {
		return decorator.NewRunningIsFailure(child), nil
	})
	wrapper(r, "success-is-failure", func(_ *blackboard.Blackboard, _ map[string]any, child behaviour.Node) (behaviour.Node, error) {
		return decorator.NewSuccessIsFailure(child), nil
	})
	wrapper(r, "one-shot", func(_ *blackboard.Blackboard, _ map[string]any, child behaviour.Node) (behaviour.Node, error) {
		return decorator.NewOneShot(child), nil
	})
	wrapper(r, "assert-never", func(_ *blackboard.Blackboard, config map[string]any, child behaviour.Node) (behaviour.Node, error) {
		var cfg struct {
			Name   string `mapstructure:"name"`
			Status string `mapstructure:"status"`
		}
		if err := decode(config, &cfg); err != nil {
			return nil, err
		}
		status, err := parseStatus(cfg.Status)
		if err != nil {
			return nil, err
		}
		return decorator.NewAssertNever(child, status), nil
	})
	wrapper(r, "test-injector", func(board *blackboard.Blackboard, _ map[string]any, child behaviour.Node) (behaviour.Node, error) {
		return decorator.NewTestInjector(board, child), nil
	})
	wrapper(r, "coverage-counter", func(_ *blackboard.Blackboard, _ map[string]any, child behaviour.Node) (behaviour.Node, error) {
		return decorator.NewCoverageCounter(child), nil
	})

	return r
}
