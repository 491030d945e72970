package enums

import "fmt"

// MediaKind distinguishes what an uploaded image is attached to.
type MediaKind string

const (
	MediaKindProductImage MediaKind = "product_image"
	MediaKindAvatar       MediaKind = "avatar"
)

var validMediaKinds = []MediaKind{
	MediaKindProductImage,
	MediaKindAvatar,
}

func (k MediaKind) String() string {
	return string(k)
}

func (k MediaKind) IsValid() bool {
	for _, candidate := range validMediaKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseMediaKind converts raw input into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	for _, candidate := range validMediaKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}
