package transcript

import (
	"fmt"
	"strconv"
	"strings"
)

// Role is the part a channel plays in the recording.
type Role int

const (
	RoleUnknown Role = iota
	RoleMaster
	RoleIndividualMic
	RolePhone
	RoleSoundPad
)

var roleNames = map[Role]string{
	RoleUnknown:       "unknown",
	RoleMaster:        "master",
	RoleIndividualMic: "individual_mic",
	RolePhone:         "phone",
	RoleSoundPad:      "sound_pad",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// IsSingleSpeaker reports whether every utterance on a channel of this role
// belongs to one participant.
func (r Role) IsSingleSpeaker() bool {
	return r == RoleIndividualMic || r == RolePhone || r == RoleSoundPad
}

// ParseRole is the inverse of Role.String.
func ParseRole(s string) (Role, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for r, name := range roleNames {
		if name == want {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown channel role %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Channel is one transcribed audio file. MicIndex is the 0-based mic index
// and is -1 unless Role is RoleIndividualMic.
type Channel struct {
	FileName   string      `json:"file_name" yaml:"file_name"`
	Role       Role        `json:"role" yaml:"role"`
	MicIndex   int         `json:"mic_index" yaml:"mic_index"`
	Utterances []Utterance `json:"utterances" yaml:"utterances"`
}

// MicNumber is the 1-based number that appears in the file name.
func (c Channel) MicNumber() int {
	return c.MicIndex + 1
}

// HasSpeech reports whether the channel carries at least one non-blank utterance.
func (c Channel) HasSpeech() bool {
	return CountNonBlank(c.Utterances) > 0
}

// Assignments maps 0-based mic indices to participant names.
type Assignments map[int]string

// Lookup returns the trimmed participant name for a mic index. Blank names
// count as unassigned.
func (a Assignments) Lookup(micIndex int) (string, bool) {
	name, ok := a[micIndex]
	if !ok {
		return "", false
	}
	name = strings.TrimSpace(name)
	return name, name != ""
}

// ParseMicIndex parses an assignment key such as "0" into a mic index.
func ParseMicIndex(key string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("mic index must be a non-negative integer (got: %q)", key)
	}
	return idx, nil
}

// ParseAssignments converts string-keyed assignments, as they appear in
// config files and request bodies. The first bad key is reported.
func ParseAssignments(in map[string]string) (Assignments, error) {
	out := make(Assignments, len(in))
	for key, name := range in {
		idx, err := ParseMicIndex(key)
		if err != nil {
			return nil, err
		}
		out[idx] = name
	}
	return out, nil
}
