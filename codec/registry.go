package codec

import "sync"

// PresetRegistry holds named Config presets under a read/write mutex,
// adapted from the teacher's name/UID codec registry: callers no
// longer look up a concrete codec implementation by key (the façade
// dispatches codec kinds directly from Config), but the same
// register-by-name/retrieve/list shape is still the natural way to let
// an application ship a handful of named, reviewed configurations
// ("archival-lossless", "preview-fast") instead of constructing Config
// literals ad hoc.
type PresetRegistry struct {
	mu      sync.RWMutex
	presets map[string]Config
}

var defaultPresets = &PresetRegistry{
	presets: make(map[string]Config),
}

// RegisterPreset adds or replaces a named Config in the default registry.
func RegisterPreset(name string, cfg Config) {
	defaultPresets.Register(name, cfg)
}

// Preset retrieves a named Config from the default registry.
func Preset(name string) (Config, error) {
	return defaultPresets.Get(name)
}

// Presets lists every name currently registered in the default registry.
func Presets() []string {
	return defaultPresets.List()
}

// Register adds or replaces a named Config.
func (r *PresetRegistry) Register(name string, cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets[name] = cfg
}

// Get retrieves a named Config.
func (r *PresetRegistry) Get(name string) (Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.presets[name]
	if !ok {
		return Config{}, ErrCodecNotFound
	}
	return cfg, nil
}

// List returns every registered preset name.
func (r *PresetRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	return names
}

func init() {
	RegisterPreset("archival-lossless", Config{
		MulticutCodec:  MulticutHuffman,
		PartitionCodec: PartitionMean,
		Optimizer:      OptimizerLossless,
	})
	RegisterPreset("balanced", Config{
		MulticutCodec:       MulticutEnsemble,
		PartitionCodec:      PartitionMean,
		Optimizer:           OptimizerGreedy,
		CompressionStrength: 1,
		EntropyCompress:     true,
	})
	RegisterPreset("large-image-grid", Config{
		MulticutCodec:       MulticutAware,
		PartitionCodec:      PartitionDifferential,
		Optimizer:           OptimizerGreedyGrid,
		CompressionStrength: 1,
		CellSize:            DefaultCellSize,
		EntropyCompress:     true,
	})
}
