package events

// Name identifies an event on the bus, e.g. "tempo.step"
type Name string

// Published by the tempo scheduler
const (
	TempoStep                  Name = "tempo.step"
	TempoStarted               Name = "tempo.started"
	TempoPaused                Name = "tempo.paused"
	TempoStopped               Name = "tempo.stopped"
	TempoUpdated               Name = "tempo.updated"
	TempoBeatsPerMeasureChange Name = "tempo.timesignature.beatspermeasure.changed"
	TempoBeatLengthChange      Name = "tempo.timesignature.beatlength.changed"
	TempoTotalStepsChange      Name = "tempo.totalsteps.change"
	TempoMeasuresChange        Name = "tempo.measures.changed"
)

// Raised by the transport UI, consumed by the tempo scheduler
const (
	TransportPlay                Name = "ui.transport.play"
	TransportPause               Name = "ui.transport.pause"
	TransportStop                Name = "ui.transport.stop"
	TransportTempoChange         Name = "ui.transport.tempo.change"
	TransportTimeSignatureChange Name = "ui.transport.timesignature.change"
	TransportMeasuresChange      Name = "ui.transport.measures.change"
)

// Channel and pattern collaborators
const (
	ChannelAdded     Name = "channel.added"
	ChannelRemoved   Name = "channel.removed"
	ChannelTriggered Name = "channel.triggered"

	StepToggled          Name = "ui.step.toggled"
	PatternClear         Name = "ui.pattern.clear"
	TrackToggled         Name = "ui.track.toggled"
	VolumeChanged        Name = "ui.volume.changed"
	SampleTry            Name = "ui.sample.try"
	SampleReset          Name = "ui.sample.reset"
	SampleChanged        Name = "ui.sample.changed"
	LabelUpdated         Name = "ui.label.updated"
	ChannelRemoveRequest Name = "ui.channel.removed"
	ChannelAddRequest    Name = "ui.channel.add.requested"
)

// Priority levels used by the built-in collaborators
const (
	PriorityDefault = 0
	PriorityChannel = 10 // channels sound before anything renders the trigger
)
