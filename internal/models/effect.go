package models

// EffectType discriminates the payload carried by an effect descriptor.
type EffectType string

// Effect types.
const (
	EffectTypeSequence EffectType = "sequence"
	EffectTypeScripted EffectType = "scripted"
	EffectTypeLayered  EffectType = "layered"
)

// Frame is a sparse mapping from (row, column) to a hex color string.
// A coordinate that is absent means "no change for that cell", not black.
type Frame map[int]map[int]string

// Cells returns the number of populated cells in the frame.
func (f Frame) Cells() int {
	n := 0
	for _, cols := range f {
		n += len(cols)
	}
	return n
}

// SequencePayload is the payload of a sequence effect: a list of frames
// played at a fixed frame rate, optionally looping forever.
type SequencePayload struct {
	Frames []Frame `json:"frames"`
	Loop   bool    `json:"loop"`
	FPS    int     `json:"fps"`
}

// ParamSpec declares one parameter a scripted effect accepts.
type ParamSpec struct {
	Key     string      `json:"key"`
	Type    string      `json:"type,omitempty"`
	Default interface{} `json:"default,omitempty"`
	Value   interface{} `json:"value,omitempty"`
}

// ScriptPayload is the payload of a scripted effect: a compiled plugin plus
// the declarations the sandbox checks before loading it.
type ScriptPayload struct {
	Script    string      `json:"script"`
	Checksum  string      `json:"checksum"`
	Platforms []string    `json:"platforms"`
	Devices   []string    `json:"devices,omitempty"`
	Requires  []string    `json:"requires,omitempty"`
	Params    []ParamSpec `json:"parameters,omitempty"`
}

// LayeredPayload is the payload of a layered effect. Layer composition is
// not implemented; the payload is parsed so the type tag can be validated.
type LayeredPayload struct {
	Layers []LayerRef `json:"layers"`
}

// LayerRef names one source effect inside a layered composition.
type LayerRef struct {
	Path string `json:"path"`
}

// Descriptor is a parsed effect definition. Exactly one payload field is
// non-nil, and it always matches Type.
type Descriptor struct {
	Name string
	Icon string
	Path string
	Type EffectType

	Sequence *SequencePayload
	Script   *ScriptPayload
	Layered  *LayeredPayload
}
