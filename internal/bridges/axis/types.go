package axis

// Provenance records whether a result came from the vendor service or
// was synthesized locally after a failed call.
type Provenance string

// Provenance values.
const (
	ProvenanceReal        Provenance = "real"
	ProvenanceSynthesized Provenance = "synthesized"
)

// Synthesized reports whether the result was produced by fallback.
func (p Provenance) Synthesized() bool {
	return p == ProvenanceSynthesized
}

// Target is one controllable audio endpoint as reported by the vendor.
type Target struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
	Model     string `json:"model"`
	Status    string `json:"status"`
}

// AudioConfig describes what to play when starting a vendor session.
type AudioConfig struct {
	SourceURL string `json:"source_url"`
	Volume    int    `json:"volume"`
	Loop      bool   `json:"loop"`
}

// DiscoverResult is the outcome of a discovery call.
type DiscoverResult struct {
	Targets    []Target
	Provenance Provenance
}

// StatusResult is the outcome of a target status query.
type StatusResult struct {
	ID         string
	Status     string
	Provenance Provenance
}

// StartResult is the outcome of starting a vendor playback session.
type StartResult struct {
	SessionID  string
	Status     string
	Provenance Provenance
}

// ControlResult is the outcome of a playback control call.
type ControlResult struct {
	Status     string
	Provenance Provenance
}

// VolumeResult is the outcome of a volume push.
type VolumeResult struct {
	Status     string
	Provenance Provenance
}
