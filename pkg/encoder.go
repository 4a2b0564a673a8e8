package dnndata

// Encoder is the contract into an external learned encoder. Implementations
// own their model state (weights, locks); this package never reaches into
// it and only forwards deterministic arguments.
type Encoder interface {
	// Encode turns one sensor's pulse series into a sparse feature pair
	// of the encoder's own width. times are relative, timeOffset is the
	// combined local and global offset.
	Encode(times []float64, charges []float64, binEdges []float64,
		settings map[string]float64, timeOffset float64) (values []float64, indices []int, err error)

	// Width is the size of the dense vector the encoder emits into.
	Width() int
}

// Encoders are registered at startup, before any event processing begins.
var encoders = make(map[string]Encoder)

func RegisterEncoder(name string, encoder Encoder) {
	encoders[name] = encoder
}

func getEncoder(name string) (Encoder, error) {
	encoder, ok := encoders[name]
	if !ok {
		return nil, &ErrUnknownEncoder{Name: name}
	}
	return encoder, nil
}
