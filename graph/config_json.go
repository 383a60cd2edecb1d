package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spetersoncode/cyclegraph/schema"
)

// RunConfigSchema describes the JSON form of RunConfig accepted by
// DecodeRunConfig.
func RunConfigSchema() *schema.ObjectBuilder {
	return schema.Object().
		Desc("Run configuration").
		Field("model_name", schema.String().
			Desc("Opaque model selector passed to stages").
			Enum(string(ModelAnthropic), string(ModelOpenAI)).
			Default(string(ModelAnthropic))).
		Field("auto_approve", schema.Bool().
			Desc("Approve every review without counting a review cycle").
			Default(false)).
		Field("max_cycles", schema.Int().
			Desc("Number of full passes before the run ends").
			Min(1).
			Default(1)).
		Field("seed", schema.Int().
			Desc("Random seed; 0 picks one and reports it. Send seeds beyond 2^53 as decimal strings").
			Decimal()).
		Field("latency_ms", schema.Int().
			Desc("Simulated work time per stage in milliseconds").
			Min(0).
			Max(60_000)).
		Closed()
}

var runConfigValidator = sync.OnceValues(func() (*schema.Validator, error) {
	return RunConfigSchema().Compile()
})

// decimalSeed decodes a seed written as a JSON number or a decimal string.
type decimalSeed int64

func (s *decimalSeed) UnmarshalJSON(b []byte) error {
	n, err := strconv.ParseInt(strings.Trim(string(b), `"`), 10, 64)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	*s = decimalSeed(n)
	return nil
}

type runConfigJSON struct {
	ModelName   ModelName   `json:"model_name"`
	AutoApprove bool        `json:"auto_approve"`
	MaxCycles   *int        `json:"max_cycles"`
	Seed        decimalSeed `json:"seed"`
	LatencyMS   int         `json:"latency_ms"`
}

// DecodeRunConfig checks data against RunConfigSchema and decodes it on top
// of DefaultRunConfig. Empty input yields the defaults.
func DecodeRunConfig(data json.RawMessage) (RunConfig, error) {
	v, err := runConfigValidator()
	if err != nil {
		return RunConfig{}, fmt.Errorf("%w: %w", ErrInvalidRunConfig, err)
	}
	if err := v.Validate(data); err != nil {
		return RunConfig{}, fmt.Errorf("%w: %w", ErrInvalidRunConfig, err)
	}

	cfg := DefaultRunConfig()
	if len(data) == 0 {
		return cfg, nil
	}

	var in runConfigJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return RunConfig{}, fmt.Errorf("%w: %w", ErrInvalidRunConfig, err)
	}
	if in.ModelName != "" {
		cfg.ModelName = in.ModelName
	}
	if in.MaxCycles != nil {
		cfg.MaxCycles = *in.MaxCycles
	}
	cfg.AutoApprove = in.AutoApprove
	cfg.Seed = int64(in.Seed)
	cfg.Latency = time.Duration(in.LatencyMS) * time.Millisecond

	return cfg, cfg.Validate()
}

// EncodeRunConfig returns the JSON surface of cfg as tool arguments that
// DecodeRunConfig accepts. The seed is written as a decimal string so it
// survives decoders that read numbers as float64. Latency is truncated to
// whole milliseconds; Rand is never sent.
func EncodeRunConfig(cfg RunConfig) map[string]any {
	args := map[string]any{
		"auto_approve": cfg.AutoApprove,
		"max_cycles":   cfg.MaxCycles,
	}
	if cfg.ModelName != "" {
		args["model_name"] = string(cfg.ModelName)
	}
	if cfg.Seed != 0 {
		args["seed"] = strconv.FormatInt(cfg.Seed, 10)
	}
	if ms := cfg.Latency.Milliseconds(); ms > 0 {
		args["latency_ms"] = ms
	}
	return args
}
