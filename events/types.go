package events

// Event is a typed payload published on the bus. Each Name has exactly one
// payload type; the payload reports the name it is published under.
type Event interface {
	EventName() Name
}

// ChannelID identifies a channel across the pattern, channel and UI layers
type ChannelID string

// Tempo payloads

type Step struct {
	Step int
}

type Started struct{}

type Paused struct{}

type Stopped struct{}

type TempoChanged struct {
	BPM int
}

type BeatsPerMeasureChanged struct {
	BeatsPerMeasure int
}

type BeatLengthChanged struct {
	BeatLength int
}

type TotalStepsChanged struct {
	TotalSteps int
}

type MeasuresChanged struct {
	Measures int
}

func (Step) EventName() Name                   { return TempoStep }
func (Started) EventName() Name                { return TempoStarted }
func (Paused) EventName() Name                 { return TempoPaused }
func (Stopped) EventName() Name                { return TempoStopped }
func (TempoChanged) EventName() Name           { return TempoUpdated }
func (BeatsPerMeasureChanged) EventName() Name { return TempoBeatsPerMeasureChange }
func (BeatLengthChanged) EventName() Name      { return TempoBeatLengthChange }
func (TotalStepsChanged) EventName() Name      { return TempoTotalStepsChange }
func (MeasuresChanged) EventName() Name        { return TempoMeasuresChange }

// Transport payloads. Numeric fields carry raw UI input; the scheduler
// rounds and clamps them.

type Play struct{}

type Pause struct{}

type Stop struct{}

type TempoChange struct {
	BPM float64
}

type TimeSignatureChange struct {
	BeatsPerMeasure float64
	BeatLength      float64
}

type MeasuresChange struct {
	Measures float64
}

func (Play) EventName() Name                { return TransportPlay }
func (Pause) EventName() Name               { return TransportPause }
func (Stop) EventName() Name                { return TransportStop }
func (TempoChange) EventName() Name         { return TransportTempoChange }
func (TimeSignatureChange) EventName() Name { return TransportTimeSignatureChange }
func (MeasuresChange) EventName() Name      { return TransportMeasuresChange }

// Channel payloads

type ChannelAdd struct {
	ChannelID ChannelID
}

type ChannelRemove struct {
	ChannelID ChannelID
}

type ChannelTrigger struct {
	ChannelID ChannelID
}

func (ChannelAdd) EventName() Name     { return ChannelAdded }
func (ChannelRemove) EventName() Name  { return ChannelRemoved }
func (ChannelTrigger) EventName() Name { return ChannelTriggered }

// UI payloads for the pattern grid and track controls

type StepToggle struct {
	ChannelID ChannelID
	Step      int
	On        bool
}

type ClearPattern struct{}

type TrackToggle struct {
	ChannelID ChannelID
	On        bool
}

type VolumeChange struct {
	ChannelID ChannelID
	Volume    float64
}

type NoteTry struct {
	ChannelID ChannelID
	Note      uint8
}

type NoteReset struct {
	ChannelID ChannelID
}

type NoteChange struct {
	ChannelID ChannelID
	Note      uint8
}

type LabelUpdate struct {
	ChannelID ChannelID
	Label     string
}

type RemoveChannelRequest struct {
	ChannelID ChannelID
}

type AddChannelRequest struct {
	Label string
	Note  uint8
}

func (StepToggle) EventName() Name           { return StepToggled }
func (ClearPattern) EventName() Name         { return PatternClear }
func (TrackToggle) EventName() Name          { return TrackToggled }
func (VolumeChange) EventName() Name         { return VolumeChanged }
func (NoteTry) EventName() Name              { return SampleTry }
func (NoteReset) EventName() Name            { return SampleReset }
func (NoteChange) EventName() Name           { return SampleChanged }
func (LabelUpdate) EventName() Name          { return LabelUpdated }
func (RemoveChannelRequest) EventName() Name { return ChannelRemoveRequest }
func (AddChannelRequest) EventName() Name    { return ChannelAddRequest }
