package remote

import "fmt"

// Profile is the logical button layout bound to a remote. The hardware
// variant decides it: a five-button remote routes every button through
// the domain handler, a paddle folds tap-vs-hold into On/Off, a
// two-button remote only switches, and a scene remote runs configured
// command lists instead of domain routing.
type Profile string

const (
	// ProfileFiveButton: on/off/raise/lower plus a middle stop button
	// (3BRL hardware).
	ProfileFiveButton Profile = "five_button"

	// ProfilePaddle: on/off only, with tap-vs-hold dimming on lights
	// (P2B hardware).
	ProfilePaddle Profile = "paddle"

	// ProfileTwoButton: plain on/off (2B hardware).
	ProfileTwoButton Profile = "two_button"

	// ProfileScene: each button fires a configured command list (4B
	// hardware). No domain routing.
	ProfileScene Profile = "scene"
)

// hardwareProfiles maps the hardware type strings carried in button
// events to profiles.
var hardwareProfiles = map[string]Profile{
	"Pico3ButtonRaiseLower": ProfileFiveButton,
	"Pico2ButtonRaiseLower": ProfileFiveButton,
	"PaddleSwitchPico":      ProfilePaddle,
	"Pico2Button":           ProfileTwoButton,
	"Pico3Button":           ProfileTwoButton,
	"Pico4Button":           ProfileScene,
	"Pico4ButtonScene":      ProfileScene,
	"Pico4Button2Group":     ProfileScene,
}

// ProfileForHardware resolves a hardware type string to a profile.
func ProfileForHardware(hwType string) (Profile, error) {
	if hwType == "" {
		return "", fmt.Errorf("%w: empty type", ErrUnknownHardwareType)
	}
	profile, ok := hardwareProfiles[hwType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownHardwareType, hwType)
	}
	return profile, nil
}

// Valid reports whether p is one of the defined profiles. Used when
// restoring persisted bindings.
func (p Profile) Valid() bool {
	switch p {
	case ProfileFiveButton, ProfilePaddle, ProfileTwoButton, ProfileScene:
		return true
	}
	return false
}

// routesButton reports whether the profile forwards a logical button to
// the domain handler.
func (p Profile) routesButton(button string) bool {
	switch p {
	case ProfileFiveButton, ProfilePaddle:
		switch button {
		case "on", "off", "stop", "raise", "lower":
			return true
		}
	case ProfileTwoButton:
		return button == "on" || button == "off"
	}
	return false
}
