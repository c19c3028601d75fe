package constants

import "strings"

// Prosodic feature channels carried by every phoneme tuple, in tuple order.
const (
	ChannelPOS        = "pos"
	ChannelAccent     = "accent"
	ChannelStress     = "stress"
	ChannelTone       = "tone"
	ChannelPhraseID   = "phrase_id"
	ChannelBreakIndex = "break_index"
)

// ProsodicChannels returns the six default channel names in tuple order
func ProsodicChannels() []string {
	return []string{
		ChannelPOS,
		ChannelAccent,
		ChannelStress,
		ChannelTone,
		ChannelPhraseID,
		ChannelBreakIndex,
	}
}

// Corpus file extensions understood by the corpus reader
const (
	ExtCSV  = ".csv"
	ExtTSV  = ".tsv"
	ExtJSON = ".json"
	ExtYAML = ".yaml"
	ExtYML  = ".yml"
)

// IsCorpusExtension reports whether ext (with leading dot) names a
// supported corpus file format. The comparison ignores case.
func IsCorpusExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ExtCSV, ExtTSV, ExtJSON, ExtYAML, ExtYML:
		return true
	}
	return false
}
