package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/observability"
)

// OpenAnimator loads the layer at path and builds an Animator logging to
// logger. Lifecycle events are logged at debug level.
func OpenAnimator(path string, logger *slog.Logger, opts ...hfsm.Option) (*hfsm.Animator, error) {
	all := []hfsm.Option{
		hfsm.WithLogger(logger),
		hfsm.WithListeners(observability.NewLogListener(logger)),
	}
	all = append(all, opts...)

	a, err := hfsm.Open(path, all...)
	if err != nil {
		return nil, fmt.Errorf("error initializing animator: %w", err)
	}
	return a, nil
}

// ApplyAssignments sets "name=value" pairs on a, parsing each value with the
// type declared by the layer. A trigger accepts "true" or an empty value.
func ApplyAssignments(a *hfsm.Animator, assignments []string) error {
	for _, raw := range assignments {
		name, text, _ := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		def, ok := a.Layer().FindValue(name)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownValue, name)
		}
		v, err := parseValue(def.Type, strings.TrimSpace(text))
		if err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
		if def.Type == domain.ValueTrigger {
			if v.(bool) {
				err = a.SetTrigger(name)
			}
		} else {
			err = a.Set(name, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func parseValue(t domain.ValueType, text string) (any, error) {
	switch t {
	case domain.ValueBool:
		return strconv.ParseBool(text)
	case domain.ValueTrigger:
		if text == "" {
			return true, nil
		}
		return strconv.ParseBool(text)
	case domain.ValueInteger:
		return strconv.Atoi(text)
	case domain.ValueFloat:
		return strconv.ParseFloat(text, 64)
	default:
		return text, nil
	}
}
