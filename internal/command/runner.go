package command

import (
	"fmt"
	"strings"
)

// Runner executes user-configured command lists (middle-button overrides
// and scene buttons).
//
// Each descriptor is a raw map straight from YAML:
//
//	action: "light.turn_on"        # required, "domain.service"
//	data: {brightness_pct: 30}     # optional service parameters
//	entities: ["light.hall"]       # optional explicit targets
//
// Items are executed sequentially in list order. A malformed item is
// skipped with an error log; the remaining items still run. Nothing a
// user puts in a command list can abort the list.
type Runner struct {
	sink Sink
	log  Logger
}

// NewRunner creates a command list runner.
func NewRunner(sink Sink, log Logger) *Runner {
	if log == nil {
		log = noopLogger{}
	}
	return &Runner{
		sink: sink,
		log:  log,
	}
}

// Execute runs each descriptor in order, skipping malformed items.
func (r *Runner) Execute(items []map[string]any) {
	for i, item := range items {
		cmd, err := parseDescriptor(item)
		if err != nil {
			r.log.Error("skipping malformed command descriptor",
				"index", i,
				"error", err,
			)
			continue
		}
		r.sink.Send(cmd)
	}
}

// parseDescriptor converts a raw YAML command descriptor into a Command.
func parseDescriptor(item map[string]any) (Command, error) {
	if item == nil {
		return Command{}, fmt.Errorf("descriptor is empty")
	}

	rawAction, ok := item["action"]
	if !ok {
		return Command{}, fmt.Errorf("missing 'action' key")
	}
	action, ok := rawAction.(string)
	if !ok {
		return Command{}, fmt.Errorf("'action' must be a string, got %T", rawAction)
	}

	domain, service, found := strings.Cut(action, ".")
	if !found || domain == "" || service == "" {
		return Command{}, fmt.Errorf("invalid action %q (want \"domain.service\")", action)
	}

	cmd := Command{
		Domain:  domain,
		Service: service,
	}

	if rawData, ok := item["data"]; ok {
		data, ok := rawData.(map[string]any)
		if !ok {
			return Command{}, fmt.Errorf("'data' must be a mapping, got %T", rawData)
		}
		cmd.Params = data
	}

	if rawEntities, ok := item["entities"]; ok {
		entities, err := toStringSlice(rawEntities)
		if err != nil {
			return Command{}, fmt.Errorf("'entities': %w", err)
		}
		cmd.Entities = entities
	}

	return cmd, nil
}

// toStringSlice converts YAML list values ([]any or []string) to []string.
func toStringSlice(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element must be a string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a list, got %T", v)
	}
}
