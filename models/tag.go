package models

const (
	TAG_NONE    = ""
	TAG_FAMILIA = "familia"
	TAG_TRABAJO = "trabajo"
	TAG_AMIGOS  = "amigos"
	TAG_OTRO    = "otro"
)

// Tags is the fixed tag enumeration, TAG_NONE included
var Tags = []string{TAG_NONE, TAG_FAMILIA, TAG_TRABAJO, TAG_AMIGOS, TAG_OTRO}

func IsValidTag(tag string) bool {
	for _, value := range Tags {
		if value == tag {
			return true
		}
	}
	return false
}
