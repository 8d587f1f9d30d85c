package value_objects

import "fmt"

// Platform identifies the external network a publication is delivered to.
type Platform string

const (
	PlatformTelegram Platform = "telegram"
	PlatformVK       Platform = "vk"
)

var validPlatforms = map[Platform]bool{
	PlatformTelegram: true,
	PlatformVK:       true,
}

func (p Platform) String() string {
	return string(p)
}

func (p Platform) IsValid() bool {
	return validPlatforms[p]
}

func (p Platform) IsTelegram() bool {
	return p == PlatformTelegram
}

func (p Platform) IsVK() bool {
	return p == PlatformVK
}

func NewPlatform(str string) (Platform, error) {
	p := Platform(str)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid platform: %s", str)
	}
	return p, nil
}
