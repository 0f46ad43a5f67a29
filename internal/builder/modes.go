package builder

import "fmt"

// OperationMode selects the active decoding strategy. The three modes are
// mutually exclusive and the selection is persisted across restarts.
type OperationMode int

const (
	// ModeProjectFile expects delimited raw fields described by the loaded
	// schema; fields are extracted by the registered parsing capability.
	ModeProjectFile OperationMode = iota

	// ModeDeviceSendsJSON expects a complete JSON document per message.
	ModeDeviceSendsJSON

	// ModeQuickPlot expects comma-separated raw values and synthesizes a
	// disposable schema per message.
	ModeQuickPlot
)

// String returns the stable token used for persistence and flags.
func (m OperationMode) String() string {
	switch m {
	case ModeProjectFile:
		return "project-file"
	case ModeDeviceSendsJSON:
		return "device-sends-json"
	case ModeQuickPlot:
		return "quick-plot"
	default:
		return "unknown"
	}
}

// ParseOperationMode parses the token produced by OperationMode.String.
func ParseOperationMode(s string) (OperationMode, error) {
	switch s {
	case "project-file":
		return ModeProjectFile, nil
	case "device-sends-json":
		return ModeDeviceSendsJSON, nil
	case "quick-plot":
		return ModeQuickPlot, nil
	default:
		return 0, fmt.Errorf("unknown operation mode %q", s)
	}
}

// DecoderMethod is the text representation applied to raw bytes before field
// parsing in project mode.
type DecoderMethod int

const (
	// DecodePlainText interprets the bytes directly as UTF-8 text.
	DecodePlainText DecoderMethod = iota

	// DecodeHexadecimal hex-encodes the bytes and parses the encoding.
	DecodeHexadecimal

	// DecodeBase64 base64-encodes the bytes and parses the encoding.
	DecodeBase64
)

// String returns the stable token used for persistence and flags.
func (m DecoderMethod) String() string {
	switch m {
	case DecodePlainText:
		return "plain-text"
	case DecodeHexadecimal:
		return "hexadecimal"
	case DecodeBase64:
		return "base64"
	default:
		return "unknown"
	}
}

// ParseDecoderMethod parses the token produced by DecoderMethod.String.
func ParseDecoderMethod(s string) (DecoderMethod, error) {
	switch s {
	case "plain-text":
		return DecodePlainText, nil
	case "hexadecimal":
		return DecodeHexadecimal, nil
	case "base64":
		return DecodeBase64, nil
	default:
		return 0, fmt.Errorf("unknown decoder method %q", s)
	}
}
