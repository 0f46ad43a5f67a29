package ports

// DelimiterConfig is the transport surface controlled by the operation mode
// controller. Whenever the mode or the loaded schema changes, the controller
// pushes the frame delimiter byte sequences through this interface. An empty
// sequence disables that delimiter.
type DelimiterConfig interface {
	SetStartSequence(seq []byte)
	SetFinishSequence(seq []byte)
}
