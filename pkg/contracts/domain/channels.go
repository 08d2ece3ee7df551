package domain

// The channel vocabulary below is the fixed naming scheme of the acquisition
// hardware. It is process-wide read-only configuration: initialized here,
// never mutated. Columns outside the vocabulary and outside the ignore-set
// are loaded and passed through untouched.

// EEGChannels lists the 21 scalp electrode channels, recorded in µV.
var EEGChannels = []string{
	"P3", "C3", "F3", "Fz", "F4", "C4", "P4", "Cz", "A1", "Fp1", "Fp2",
	"T3", "T5", "O1", "O2", "F7", "F8", "A2", "T6", "T4", "Pz",
}

// ECGChannels lists the auxiliary EOG/ECG input channels.
var ECGChannels = []string{"X1:LEOG", "X2:REOG"}

// ReferenceChannels lists the common-mode reference channel.
var ReferenceChannels = []string{"CM"}

// TimeColumn is the required time-axis column, in seconds.
const TimeColumn = "Time"

// ignoredColumns holds trigger/status/metadata columns that carry no signal
// and are always removed on load. Matching is exact and case-sensitive.
var ignoredColumns = map[string]bool{
	"X3:":          true,
	"Trigger":      true,
	"Time_Offset":  true,
	"ADC_Status":   true,
	"ADC_Sequence": true,
	"Event":        true,
	"Comments":     true,
}

var (
	eegSet       = toSet(EEGChannels)
	ecgSet       = toSet(ECGChannels)
	referenceSet = toSet(ReferenceChannels)
)

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// IsEEGChannel reports whether name is one of the 21 EEG channels.
func IsEEGChannel(name string) bool { return eegSet[name] }

// IsECGChannel reports whether name is one of the EOG/ECG channels.
func IsECGChannel(name string) bool { return ecgSet[name] }

// IsReferenceChannel reports whether name is the common-mode reference.
func IsReferenceChannel(name string) bool { return referenceSet[name] }

// IsKnownChannel reports whether name belongs to the fixed channel vocabulary.
func IsKnownChannel(name string) bool {
	return eegSet[name] || ecgSet[name] || referenceSet[name]
}

// IsIgnoredColumn reports whether name belongs to the ignore-set of
// non-signal metadata columns.
func IsIgnoredColumn(name string) bool { return ignoredColumns[name] }

// IgnoredColumns returns the ignore-set names. The returned slice is a copy.
func IgnoredColumns() []string {
	names := make([]string, 0, len(ignoredColumns))
	for name := range ignoredColumns {
		names = append(names, name)
	}
	return names
}
