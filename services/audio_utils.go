package services

import (
	"bytes"
	"errors"
	"io"

	tcmp3 "github.com/tcolgate/mp3"
)

// MP3Duration sums frame durations of an in-memory mp3, in seconds.
func MP3Duration(data []byte) (float64, error) {
	var (
		dur     float64
		dec     = tcmp3.NewDecoder(bytes.NewReader(data))
		frame   tcmp3.Frame
		skipped int
		frames  int
	)

	for {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, err
		}
		frames++
		dur += frame.Duration().Seconds()
	}
	if frames == 0 {
		return 0, errors.New("no mp3 frames found")
	}
	return dur, nil
}
