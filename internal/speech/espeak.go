package speech

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ESpeak is a Backend running the espeak-ng binary
type ESpeak struct {
	binary string
	speed  int
	run    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewESpeak creates a backend for the given espeak-ng binary.
// speed is in words per minute; zero keeps the engine default.
func NewESpeak(binary string, speed int) *ESpeak {
	if binary == "" {
		binary = "espeak-ng"
	}
	return &ESpeak{binary: binary, speed: speed, run: runCommand}
}

// IsAvailable checks that the binary can be found
func (e *ESpeak) IsAvailable() error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", e.binary, err)
	}
	return nil
}

// Voices lists installed voices
func (e *ESpeak) Voices(ctx context.Context) ([]Voice, error) {
	out, err := e.run(ctx, e.binary, "--voices")
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	return parseVoices(out), nil
}

// Synthesize renders text to WAV audio
func (e *ESpeak) Synthesize(ctx context.Context, voice Voice, text string) ([]byte, error) {
	args := []string{"-v", voice.ID, "--stdout"}
	if e.speed > 0 {
		args = append(args, "-s", fmt.Sprintf("%d", e.speed))
	}
	args = append(args, "--", text)

	out, err := e.run(ctx, e.binary, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("espeak-ng produced no audio")
	}
	return out, nil
}

// parseVoices reads the table printed by `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  en-us           --/M      English_(America)  gmw/en-US            (en 10)
func parseVoices(out []byte) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, Voice{
			ID:       fields[1],
			Language: fields[1],
			Name:     strings.ReplaceAll(fields[3], "_", " "),
		})
	}
	return voices
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
