package channel

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kbukum/voxalign/transcript"
)

var micPattern = regexp.MustCompile(`(?i)^MIC(\d+)\.(WAV|MP3)$`)

var (
	phoneNames    = []string{"PHONE.WAV", "PHONE.MP3"}
	soundPadNames = []string{"SOUND_PAD.WAV", "SOUNDPAD.WAV", "SOUND_PAD.MP3", "SOUNDPAD.MP3"}
)

// Classify returns the role for a file name and, for individual mics, the
// 0-based mic index. The index is -1 for every other role. MIC0 has no valid
// 1-based index and classifies as unknown.
func Classify(fileName string) (transcript.Role, int) {
	base := baseName(fileName)
	upper := strings.ToUpper(base)

	if m := micPattern.FindStringSubmatch(base); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 {
			return transcript.RoleIndividualMic, n - 1
		}
		return transcript.RoleUnknown, -1
	}
	if oneOf(upper, phoneNames) {
		return transcript.RolePhone, -1
	}
	if oneOf(upper, soundPadNames) {
		return transcript.RoleSoundPad, -1
	}
	if strings.Contains(upper, "MIX") || strings.Contains(upper, "MASTER") {
		return transcript.RoleMaster, -1
	}
	return transcript.RoleUnknown, -1
}

// Identify classifies a file and wraps its utterances into a Channel.
func Identify(fileName string, utterances []transcript.Utterance) transcript.Channel {
	role, micIndex := Classify(fileName)
	return transcript.Channel{
		FileName:   fileName,
		Role:       role,
		MicIndex:   micIndex,
		Utterances: utterances,
	}
}

// baseName strips any directory part, accepting both separators since file
// names come from recorders and uploads as often as from the local disk.
func baseName(fileName string) string {
	name := strings.TrimSpace(fileName)
	if idx := strings.LastIndexAny(name, `/\`); idx != -1 {
		name = name[idx+1:]
	}
	return name
}

func oneOf(s string, candidates []string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
