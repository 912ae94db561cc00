package domain

// Topic is the closed set of classification domains. The set is fixed:
// nothing at runtime can add a variant.
type Topic int

const (
	TopicUnknown Topic = iota
	TopicSport
	TopicPolitics
	TopicTechnology
)

// Topics lists the known domains in scan order. Ties resolve to the earlier entry.
var Topics = [...]Topic{TopicSport, TopicPolitics, TopicTechnology}

func (t Topic) String() string {
	switch t {
	case TopicSport:
		return "Sport"
	case TopicPolitics:
		return "Politică"
	case TopicTechnology:
		return "Tehnologie"
	default:
		return "Necunoscut"
	}
}

func (t Topic) Valid() bool {
	return t >= TopicSport && t <= TopicTechnology
}

// ParseTopic resolves a wire name to a known topic.
func ParseTopic(name string) (Topic, bool) {
	for _, t := range Topics {
		if t.String() == name {
			return t, true
		}
	}
	return TopicUnknown, false
}
