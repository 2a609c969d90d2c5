package transcription

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/kbukum/voxalign/errors"
	"github.com/kbukum/voxalign/transcript"
)

const statusCompleted = "completed"

// Decode parses a provider payload. fileName only labels errors, which are
// always INVALID_PAYLOAD AppErrors.
func Decode(fileName string, data []byte) (*TranscriptionResponse, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperrors.InvalidPayload(fileName, errors.New("payload is empty"))
	}
	var resp TranscriptionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperrors.InvalidPayload(fileName, err)
	}
	if err := resp.check(); err != nil {
		return nil, apperrors.InvalidPayload(fileName, err)
	}
	return &resp, nil
}

func (r *TranscriptionResponse) check() error {
	if _, err := r.Unit.scale(); err != nil {
		return err
	}
	if st := strings.ToLower(strings.TrimSpace(r.Status)); st != "" && st != statusCompleted {
		return fmt.Errorf("transcription status is %q", r.Status)
	}
	return nil
}

// ToUtterances converts the payload into seconds-based utterances in
// provider order. Ranges are copied as given; inverted ranges are tolerated
// downstream.
func (r *TranscriptionResponse) ToUtterances() []transcript.Utterance {
	scale, err := r.Unit.scale()
	if err != nil {
		scale = 1
	}
	out := make([]transcript.Utterance, 0, len(r.Utterances))
	for _, u := range r.Utterances {
		utt := transcript.Utterance{
			Start:        u.Start * scale,
			End:          u.End * scale,
			Text:         u.Text,
			Confidence:   u.Confidence,
			SpeakerLabel: int(u.Speaker),
		}
		if len(u.Words) > 0 {
			utt.Words = make([]transcript.Word, len(u.Words))
			for i, w := range u.Words {
				utt.Words[i] = transcript.Word{
					Text:       w.Text,
					Start:      w.Start * scale,
					End:        w.End * scale,
					Confidence: w.Confidence,
				}
			}
		}
		out = append(out, utt)
	}
	return out
}
